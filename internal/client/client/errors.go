package client

import "errors"

var (
	// ErrPasswordRequired is returned by SignIn when a second factor is needed.
	ErrPasswordRequired = errors.New("two-factor password required")

	// ErrUnsupported is returned by backends that lack an operation, e.g.
	// interactive login on S3.
	ErrUnsupported = errors.New("operation not supported by backend")

	// ErrClosed is returned by calls on a Conn after Close.
	ErrClosed = errors.New("connection closed")
)
