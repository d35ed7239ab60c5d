// Package client contains the remote-platform side of tgcloud.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (Dialer, Conn) describing the capabilities
//     the upload workflow needs: authorization check, login code and
//     two-factor sign-in, blob upload, self-destination lookup and delivery.
//  2. A Telegram implementation (TelegramDialer) on top of gotd/td, which
//     persists its session in a file and sends uploads to Saved Messages.
//  3. An S3 implementation (S3Dialer) on top of aws-sdk-go-v2 that stages the
//     object and then moves it under the owner's prefix.
//
// # Error Handling
//
// Platform errors are returned as-is so callers can show the platform's
// reason. ErrPasswordRequired, ErrUnsupported and ErrClosed are sentinels to
// match with errors.Is.
//
// Concurrency & Contexts
//
// Conn implementations are safe for concurrent use. Every call accepts a
// context; none of them imposes its own timeout.
package client
