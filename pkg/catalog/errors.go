package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned for signature files that cannot be parsed.
	ErrMalformed = errors.New("malformed signature definition")
	// ErrMissingField is returned when a signature lacks a required field.
	ErrMissingField = errors.New("missing required field")
	// ErrDuplicateName is returned when two signatures share a name.
	ErrDuplicateName = errors.New("duplicate signature name")
	// ErrInvalidPattern is returned when a pattern does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrInvalidRarity is returned when rarity is outside [0,1].
	ErrInvalidRarity = errors.New("rarity out of range")
	// ErrEmpty is returned when a catalog has no signatures.
	ErrEmpty = errors.New("catalog has no signatures")
)

// LoadError describes why a catalog could not be loaded. It is fatal: no
// identification can run against a catalog that failed to load.
type LoadError struct {
	Source    string // file the signature came from, if known
	Signature string // signature name, if known
	Err       error
}

func (e *LoadError) Error() string {
	switch {
	case e.Source != "" && e.Signature != "":
		return fmt.Sprintf("loading catalog: %s: signature %q: %v", e.Source, e.Signature, e.Err)
	case e.Signature != "":
		return fmt.Sprintf("loading catalog: signature %q: %v", e.Signature, e.Err)
	case e.Source != "":
		return fmt.Sprintf("loading catalog: %s: %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("loading catalog: %v", e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
