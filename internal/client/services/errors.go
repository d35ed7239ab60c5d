package services

import "errors"

// Trigger rejections. The user sees these as status lines; they are returned
// so callers and tests can tell a rejection from a dispatched task.
var (
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrAuthInProgress       = errors.New("authentication already in progress")
	ErrUploadInProgress     = errors.New("upload already in progress")
	ErrNoFileSelected       = errors.New("no file selected")
	ErrNotAuthenticated     = errors.New("not authenticated")
)
