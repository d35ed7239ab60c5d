// Package services contains the client's orchestration layer: the connection
// manager (session lifecycle and login state machine), the upload coordinator
// (single upload workflow) and the task triggers that the console calls.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/tgcloud/internal/client/client"
	"github.com/dmitrijs2005/tgcloud/internal/common"
	"github.com/dmitrijs2005/tgcloud/internal/logging"
)

// ConnState is the authentication state of the process.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateAwaitingCode
	StateAwaitingTwoFactor
	StateAuthenticated
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAwaitingCode:
		return "awaiting code"
	case StateAwaitingTwoFactor:
		return "awaiting two-factor"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("ConnState(%d)", int(s))
	}
}

// Prompter is the human-input channel used during login. Both calls block
// the calling task until the user answers or ctx is done.
type Prompter interface {
	ReadCode(ctx context.Context, label string) (string, error)
	// ReadSecret returns a buffer the caller wipes after use.
	ReadSecret(ctx context.Context, label string) ([]byte, error)
}

// ConnectionManager owns the connect/login state machine:
//
//	Disconnected → Connecting → AwaitingCode → AwaitingTwoFactor → Authenticated
//
// Any failure returns to Disconnected. It does not serialize concurrent
// logins itself; Tasks does that before dispatching.
type ConnectionManager struct {
	dialer   client.Dialer
	creds    client.Credentials
	prompter Prompter
	logger   logging.Logger

	mu       sync.Mutex
	state    ConnState
	listener func(ConnState)
}

// NewConnectionManager binds a dialer to the startup credentials.
func NewConnectionManager(dialer client.Dialer, creds client.Credentials, prompter Prompter, logger logging.Logger) *ConnectionManager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ConnectionManager{
		dialer:   dialer,
		creds:    creds,
		prompter: prompter,
		logger:   logger.With("component", "connection", "backend", dialer.Name()),
	}
}

// Backend is the human-readable backend name, e.g. "Telegram".
func (m *ConnectionManager) Backend() string {
	return m.dialer.Name()
}

// OnStateChange registers fn to be called after every transition. fn runs on
// the transitioning goroutine and must not block.
func (m *ConnectionManager) OnStateChange(fn func(ConnState)) {
	m.mu.Lock()
	m.listener = fn
	m.mu.Unlock()
}

// NeedsPhone reports whether Authenticate uses the phone number.
func (m *ConnectionManager) NeedsPhone() bool {
	return m.dialer.Interactive()
}

func (m *ConnectionManager) State() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *ConnectionManager) setState(ctx context.Context, s ConnState) {
	m.mu.Lock()
	prev := m.state
	m.state = s
	fn := m.listener
	m.mu.Unlock()

	if prev != s {
		m.logger.Debug(ctx, "state changed", "from", prev.String(), "to", s.String())
	}
	if fn != nil {
		fn(s)
	}
}

// Connect opens a session, loading the persisted session if present.
// Failures wrap common.ErrConnect.
func (m *ConnectionManager) Connect(ctx context.Context) (client.Conn, error) {
	m.setState(ctx, StateConnecting)
	m.logger.Info(ctx, "connecting")

	conn, err := m.dialer.Connect(ctx, m.creds)
	if err != nil {
		m.setState(ctx, StateDisconnected)
		m.logger.Error(ctx, "connect failed", "error", err)
		return nil, common.Wrap(common.ErrConnect, err)
	}

	m.logger.Info(ctx, "connected")
	return conn, nil
}

// Authenticate logs conn in. When the session is already authorized it only
// performs the authorization check. Failures wrap common.ErrAuth and leave
// the manager Disconnected; closing conn is the caller's job.
func (m *ConnectionManager) Authenticate(ctx context.Context, conn client.Conn, phone string) error {
	if err := m.authenticate(ctx, conn, phone); err != nil {
		m.setState(ctx, StateDisconnected)
		m.logger.Error(ctx, "authentication failed", "error", err)
		return common.Wrap(common.ErrAuth, err)
	}
	m.setState(ctx, StateAuthenticated)
	return nil
}

func (m *ConnectionManager) authenticate(ctx context.Context, conn client.Conn, phone string) error {
	authorized, err := conn.IsAuthorized(ctx)
	if err != nil {
		return fmt.Errorf("authorization check: %w", err)
	}
	if authorized {
		m.logger.Info(ctx, "already authorized")
		return nil
	}

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errors.New("phone number is required")
	}

	m.logger.Info(ctx, "not authorized, requesting code")
	token, err := conn.RequestLoginCode(ctx, phone)
	if err != nil {
		return fmt.Errorf("request code: %w", err)
	}

	m.setState(ctx, StateAwaitingCode)
	code, err := m.prompter.ReadCode(ctx, "Enter the code you received")
	if err != nil {
		return fmt.Errorf("read code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("empty login code")
	}

	err = conn.SignIn(ctx, token, code)
	switch {
	case err == nil:
		m.logger.Info(ctx, "signed in")
		return nil
	case !errors.Is(err, client.ErrPasswordRequired):
		return fmt.Errorf("sign in: %w", err)
	}

	m.setState(ctx, StateAwaitingTwoFactor)
	secret, err := m.prompter.ReadSecret(ctx, "Enter your 2FA password")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer common.WipeByteArray(secret)

	if err := conn.SubmitTwoFactor(ctx, token, secret); err != nil {
		return fmt.Errorf("two-factor: %w", err)
	}
	m.logger.Info(ctx, "signed in with 2FA")
	return nil
}
