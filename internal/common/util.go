package common

// WipeByteArray overwrites the contents of b with zeros. Used for
// second-factor secrets once they have been submitted.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Wrap joins a sentinel with the underlying cause so that errors.Is matches
// both. A nil cause yields the sentinel itself.
func Wrap(sentinel error, cause error) error {
	if cause == nil {
		return sentinel
	}
	return &wrapped{sentinel: sentinel, cause: cause}
}

type wrapped struct {
	sentinel error
	cause    error
}

func (w *wrapped) Error() string   { return w.sentinel.Error() + ": " + w.cause.Error() }
func (w *wrapped) Unwrap() []error { return []error{w.sentinel, w.cause} }

// Cause strips a sentinel added by Wrap and returns the underlying reason.
// Any other error is returned unchanged.
func Cause(err error) error {
	if w, ok := err.(*wrapped); ok {
		return w.cause
	}
	return err
}
