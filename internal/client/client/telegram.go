package client

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
)

// TelegramDialer connects to Telegram through gotd/td.
type TelegramDialer struct{}

func NewTelegramDialer() *TelegramDialer {
	return &TelegramDialer{}
}

func (d *TelegramDialer) Name() string { return "Telegram" }

func (d *TelegramDialer) Interactive() bool { return true }

// Connect starts the gotd client loop in the background and returns once the
// connection is ready. The loop keeps running until Conn.Close.
func (d *TelegramDialer) Connect(ctx context.Context, creds Credentials) (Conn, error) {
	if creds.AppID == 0 || creds.AppHash == "" {
		return nil, errors.New("telegram: app id and app hash are required")
	}

	opts := telegram.Options{}
	if creds.SessionPath != "" {
		opts.SessionStorage = &session.FileStorage{Path: creds.SessionPath}
	}
	tc := telegram.NewClient(creds.AppID, creds.AppHash, opts)

	// The run loop must outlive ctx, which only bounds the dial.
	runCtx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- tc.Run(runCtx, func(ctx context.Context) error {
			close(ready)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-ready:
		return &telegramConn{client: tc, api: tc.API(), cancel: cancel, done: done}, nil
	case err := <-done:
		cancel()
		if err == nil {
			err = errors.New("telegram: client stopped before it was ready")
		}
		return nil, err
	case <-ctx.Done():
		cancel()
		<-done
		return nil, ctx.Err()
	}
}

type telegramConn struct {
	client *telegram.Client
	api    *tg.Client

	cancel    context.CancelFunc
	done      <-chan error
	closeOnce sync.Once
}

func (c *telegramConn) IsAuthorized(ctx context.Context) (bool, error) {
	st, err := c.client.Auth().Status(ctx)
	if err != nil {
		return false, err
	}
	return st.Authorized, nil
}

func (c *telegramConn) RequestLoginCode(ctx context.Context, phone string) (LoginToken, error) {
	sent, err := c.client.Auth().SendCode(ctx, phone, auth.SendCodeOptions{})
	if err != nil {
		return LoginToken{}, err
	}

	code, ok := sent.(*tg.AuthSentCode)
	if !ok {
		return LoginToken{}, fmt.Errorf("telegram: unexpected send code response %T", sent)
	}
	return LoginToken{Phone: phone, Hash: code.PhoneCodeHash}, nil
}

func (c *telegramConn) SignIn(ctx context.Context, token LoginToken, code string) error {
	_, err := c.client.Auth().SignIn(ctx, token.Phone, code, token.Hash)
	if errors.Is(err, auth.ErrPasswordAuthNeeded) {
		return fmt.Errorf("%w: %w", ErrPasswordRequired, err)
	}
	return err
}

func (c *telegramConn) SubmitTwoFactor(ctx context.Context, _ LoginToken, secret []byte) error {
	_, err := c.client.Auth().Password(ctx, string(secret))
	return err
}

func (c *telegramConn) UploadBlob(ctx context.Context, path string) (Media, error) {
	f, err := uploader.NewUploader(c.api).FromPath(ctx, path)
	if err != nil {
		return Media{}, err
	}
	return Media{Name: filepath.Base(path), Ref: f}, nil
}

func (c *telegramConn) ResolveSelf(ctx context.Context) (Destination, error) {
	me, err := c.client.Self(ctx)
	if err != nil {
		return Destination{}, err
	}
	return Destination{ID: strconv.FormatInt(me.ID, 10), Ref: &tg.InputPeerSelf{}}, nil
}

func (c *telegramConn) Send(ctx context.Context, dst Destination, media Media) (string, error) {
	file, ok := media.Ref.(tg.InputFileClass)
	if !ok {
		return "", fmt.Errorf("telegram: %q was not uploaded through this connection", media.Name)
	}
	peer, ok := dst.Ref.(tg.InputPeerClass)
	if !ok {
		return "", fmt.Errorf("telegram: destination %q is not a peer", dst.ID)
	}

	doc := message.UploadedDocument(file).Filename(media.Name).MIME(mimeType(media.Name))
	updates, err := message.NewSender(c.api).To(peer).Media(ctx, doc)
	if err != nil {
		return "", err
	}
	return sentMessageID(updates), nil
}

func (c *telegramConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		if runErr := <-c.done; runErr != nil && !errors.Is(runErr, context.Canceled) {
			err = runErr
		}
	})
	return err
}

// mimeType guesses the document type from the file extension, without
// parameters such as charset.
func mimeType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		if base, _, err := mime.ParseMediaType(t); err == nil {
			return base
		}
	}
	return "application/octet-stream"
}

// sentMessageID digs the new message id out of a send response, or "".
func sentMessageID(u tg.UpdatesClass) string {
	switch u := u.(type) {
	case *tg.UpdateShortSentMessage:
		return strconv.Itoa(u.ID)
	case *tg.Updates:
		for _, upd := range u.Updates {
			if m, ok := upd.(*tg.UpdateMessageID); ok {
				return strconv.Itoa(m.ID)
			}
		}
	}
	return ""
}
