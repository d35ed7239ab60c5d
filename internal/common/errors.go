// Package common defines sentinel errors shared by the tgcloud client
// layers. Callers should use errors.Is to match these values; concrete
// failures wrap them with the platform's reason.
package common

import "errors"

var (
	// Local filesystem errors (unreadable/vanished file, snapshot write failure).
	ErrIO = errors.New("io error")

	// Session errors.
	ErrConnect = errors.New("connect error")
	ErrAuth    = errors.New("auth error")

	// Upload workflow errors, one per remote step.
	ErrTransfer   = errors.New("transfer error")
	ErrResolution = errors.New("resolution error")
	ErrDelivery   = errors.New("delivery error")

	// Snapshot could not be parsed. Never returned to callers: the store
	// downgrades it to an empty log and only logs it.
	ErrStoreCorrupt = errors.New("metadata snapshot corrupt")

	// Startup configuration is missing or malformed.
	ErrConfig = errors.New("invalid configuration")
)
