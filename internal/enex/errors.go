package enex

import "fmt"

// MalformedBundleError reports a bundle whose structural markup could not be
// parsed. No notes are returned from a bundle that fails this way.
type MalformedBundleError struct {
	Path string
	Err  error
}

func (e *MalformedBundleError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed bundle: %v", e.Err)
	}
	return fmt.Sprintf("malformed bundle %s: %v", e.Path, e.Err)
}

func (e *MalformedBundleError) Unwrap() error {
	return e.Err
}
