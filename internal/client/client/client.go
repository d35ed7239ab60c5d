package client

import (
	"context"
)

// Credentials are the startup-time inputs to Dialer.Connect. They are loaded
// once and passed explicitly; nothing in the client reads the environment.
type Credentials struct {
	// AppID and AppHash identify the application to the Telegram API.
	AppID   int
	AppHash string

	// SessionPath points at the persisted session blob. Missing means a fresh
	// session is started and written there after login.
	SessionPath string
}

// LoginToken is returned by RequestLoginCode and must be handed back to
// SignIn together with the code the user received.
type LoginToken struct {
	Phone string
	Hash  string
}

// Media is an uploaded, not yet delivered, blob.
type Media struct {
	Name string
	Size int64
	// Ref is the backend-specific handle (tg.InputFileClass, object key, ...).
	Ref any
}

// Destination is where Send delivers media; for Telegram it is the
// account's own "Saved Messages" chat.
type Destination struct {
	ID  string
	Ref any
}

// Dialer opens connections to the remote platform.
type Dialer interface {
	// Name is a short label for status lines, e.g. "Telegram".
	Name() string

	// Interactive reports whether logging in needs a phone number and
	// prompts. Backends that authorize with stored keys return false.
	Interactive() bool

	// Connect establishes a session, reusing a persisted session when one
	// exists. The returned Conn stays usable after ctx is done.
	Connect(ctx context.Context, creds Credentials) (Conn, error)
}

// Conn is an established, possibly not yet authorized, session.
//
// Every method is a fallible remote call. Implementations must be safe for
// concurrent use: the upload and list tasks share one Conn.
type Conn interface {
	IsAuthorized(ctx context.Context) (bool, error)
	RequestLoginCode(ctx context.Context, phone string) (LoginToken, error)

	// SignIn returns ErrPasswordRequired (possibly wrapped) when the account
	// has a second factor; SubmitTwoFactor must follow.
	SignIn(ctx context.Context, token LoginToken, code string) error
	SubmitTwoFactor(ctx context.Context, token LoginToken, secret []byte) error

	UploadBlob(ctx context.Context, path string) (Media, error)
	ResolveSelf(ctx context.Context) (Destination, error)

	// Send delivers media to dst and returns a backend reference for the
	// delivered item (message id, object key). The reference may be empty.
	Send(ctx context.Context, dst Destination, media Media) (string, error)

	Close() error
}
