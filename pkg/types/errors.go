package types

import (
	"errors"
	"fmt"
)

var (
	// ErrScopeNotFound means the referenced rubric, company or city does
	// not exist. Surfaced as not-found, never as a redirect.
	ErrScopeNotFound = errors.New("scope not found")

	// ErrNotFound means the scope exists but holds no products at all and
	// no filters were active, so no canonical alternative exists.
	ErrNotFound = errors.New("catalogue not found")

	// ErrDataUnavailable wraps a store failure. The engine never returns
	// a partial payload alongside it.
	ErrDataUnavailable = errors.New("catalogue data unavailable")
)

func DataUnavailable(cause error) error {
	return fmt.Errorf("%w: %v", ErrDataUnavailable, cause)
}
