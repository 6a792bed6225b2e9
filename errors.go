package imgdecode

import "errors"

// ErrNoImage is the single sentinel failure spec.md §6/§7 specifies:
// every internal error, regardless of which frontend or component
// detected it, collapses to a value satisfying errors.Is(err,
// ErrNoImage) at this package's boundary. The original, more specific
// error remains reachable via errors.Is/errors.As for callers who want
// it (errors.Unwrap returns nil for this multi-error wrapper).
var ErrNoImage = errors.New("imgdecode: no image")

// ErrUnrecognized is wrapped by ErrNoImage when the input matches none
// of the supported container signatures (spec.md §4.H).
var ErrUnrecognized = errors.New("imgdecode: unrecognized image format")

// noImage wraps a frontend-specific error so that it satisfies
// errors.Is(_, ErrNoImage) while preserving the original error for
// errors.Is/errors.As against the frontend's own sentinels.
type noImage struct{ cause error }

func (e *noImage) Error() string { return "imgdecode: no image: " + e.cause.Error() }
func (e *noImage) Unwrap() []error { return []error{ErrNoImage, e.cause} }

func wrapNoImage(cause error) error {
	if cause == nil {
		return nil
	}
	return &noImage{cause: cause}
}
