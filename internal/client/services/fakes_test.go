package services

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/tgcloud/internal/client/client"
	"github.com/dmitrijs2005/tgcloud/internal/client/models"
)

// ---- fake connection ----

type fakeConn struct {
	mu    sync.Mutex
	calls []string

	authorized bool
	authErr    error
	requestErr error
	signInErr  error
	twoFAErr   error
	uploadErr  error
	resolveErr error
	sendErr    error
	sendRef    string

	// when set, UploadBlob blocks until it is closed
	uploadGate chan struct{}

	gotPhone  string
	gotCode   string
	gotSecret string
	closed    int
}

func (c *fakeConn) record(name string) {
	c.mu.Lock()
	c.calls = append(c.calls, name)
	c.mu.Unlock()
}

func (c *fakeConn) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *fakeConn) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) IsAuthorized(context.Context) (bool, error) {
	c.record("IsAuthorized")
	return c.authorized, c.authErr
}

func (c *fakeConn) RequestLoginCode(_ context.Context, phone string) (client.LoginToken, error) {
	c.record("RequestLoginCode")
	c.mu.Lock()
	c.gotPhone = phone
	c.mu.Unlock()
	if c.requestErr != nil {
		return client.LoginToken{}, c.requestErr
	}
	return client.LoginToken{Phone: phone, Hash: "hash-1"}, nil
}

func (c *fakeConn) SignIn(_ context.Context, _ client.LoginToken, code string) error {
	c.record("SignIn")
	c.mu.Lock()
	c.gotCode = code
	c.mu.Unlock()
	return c.signInErr
}

func (c *fakeConn) SubmitTwoFactor(_ context.Context, _ client.LoginToken, secret []byte) error {
	c.record("SubmitTwoFactor")
	c.mu.Lock()
	c.gotSecret = string(secret)
	c.mu.Unlock()
	return c.twoFAErr
}

func (c *fakeConn) UploadBlob(_ context.Context, path string) (client.Media, error) {
	c.record("UploadBlob")
	if c.uploadGate != nil {
		<-c.uploadGate
	}
	if c.uploadErr != nil {
		return client.Media{}, c.uploadErr
	}
	return client.Media{Name: filepath.Base(path), Ref: "blob"}, nil
}

func (c *fakeConn) ResolveSelf(context.Context) (client.Destination, error) {
	c.record("ResolveSelf")
	if c.resolveErr != nil {
		return client.Destination{}, c.resolveErr
	}
	return client.Destination{ID: "self", Ref: "self"}, nil
}

func (c *fakeConn) Send(context.Context, client.Destination, client.Media) (string, error) {
	c.record("Send")
	return c.sendRef, c.sendErr
}

func (c *fakeConn) Close() error {
	c.record("Close")
	c.mu.Lock()
	c.closed++
	c.mu.Unlock()
	return nil
}

// ---- fake dialer ----

type fakeDialer struct {
	mu      sync.Mutex
	newConn func() *fakeConn
	err     error
	dialed  []*fakeConn

	keysOnly bool
}

func (d *fakeDialer) Name() string { return "Fake" }

func (d *fakeDialer) Interactive() bool { return !d.keysOnly }

func (d *fakeDialer) Connect(context.Context, client.Credentials) (client.Conn, error) {
	if d.err != nil {
		return nil, d.err
	}
	c := d.newConn()
	d.mu.Lock()
	d.dialed = append(d.dialed, c)
	d.mu.Unlock()
	return c, nil
}

func (d *fakeDialer) Dialed() []*fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*fakeConn(nil), d.dialed...)
}

// ---- fake prompter ----

type fakePrompter struct {
	mu sync.Mutex

	code    string
	codeErr error
	secret  string

	// when set, ReadCode blocks until it is closed
	gate chan struct{}

	labels     []string
	lastSecret []byte
}

func (p *fakePrompter) ReadCode(_ context.Context, label string) (string, error) {
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.labels = append(p.labels, label)
	return p.code, p.codeErr
}

func (p *fakePrompter) ReadSecret(_ context.Context, label string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.labels = append(p.labels, label)
	p.lastSecret = []byte(p.secret)
	return p.lastSecret, nil
}

func (p *fakePrompter) Labels() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.labels...)
}

// ---- recording notifier ----

type recordingNotifier struct {
	mu        sync.Mutex
	statuses  []string
	fractions []float64
	authed    []bool
	uploading []bool
	selected  []string
	records   [][]models.RecordView
}

func (n *recordingNotifier) Progress(p models.Progress) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fractions = append(n.fractions, p.Fraction)
	if p.Status != "" {
		n.statuses = append(n.statuses, p.Status)
	}
}

func (n *recordingNotifier) Status(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, text)
}

func (n *recordingNotifier) Authenticated(ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.authed = append(n.authed, ok)
}

func (n *recordingNotifier) Uploading(on bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.uploading = append(n.uploading, on)
}

func (n *recordingNotifier) Selected(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.selected = append(n.selected, name)
}

func (n *recordingNotifier) Records(rows []models.RecordView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.records = append(n.records, rows)
}

func (n *recordingNotifier) Statuses() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.statuses...)
}

func (n *recordingNotifier) LastStatus() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.statuses) == 0 {
		return ""
	}
	return n.statuses[len(n.statuses)-1]
}

func (n *recordingNotifier) Fractions() []float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]float64(nil), n.fractions...)
}
