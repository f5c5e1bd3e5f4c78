package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/praetorian-inc/what/pkg/types"
)

// ValidateSignature checks required fields, the rarity range and that the
// pattern compiles. Errors are *LoadError.
func ValidateSignature(s *types.Signature) error {
	if s == nil {
		return &LoadError{Err: fmt.Errorf("%w: signature is nil", ErrMalformed)}
	}

	if strings.TrimSpace(s.Name) == "" {
		return &LoadError{Err: fmt.Errorf("%w: name", ErrMissingField)}
	}
	if s.Pattern == "" {
		return &LoadError{Signature: s.Name, Err: fmt.Errorf("%w: pattern", ErrMissingField)}
	}

	if math.IsNaN(s.Rarity) || s.Rarity < 0 || s.Rarity > 1 {
		return &LoadError{Signature: s.Name, Err: fmt.Errorf("%w: %v", ErrInvalidRarity, s.Rarity)}
	}

	for _, tag := range s.Tags {
		if strings.TrimSpace(tag) == "" {
			return &LoadError{Signature: s.Name, Err: fmt.Errorf("%w: empty tag", ErrMalformed)}
		}
	}

	if _, err := s.Compile(); err != nil {
		return &LoadError{Signature: s.Name, Err: fmt.Errorf("%w: %v", ErrInvalidPattern, err)}
	}

	if s.StructuralID != "" && s.StructuralID != s.ComputeStructuralID() {
		return &LoadError{Signature: s.Name, Err: fmt.Errorf("%w: inconsistent structural ID %s", ErrMalformed, s.StructuralID)}
	}

	return nil
}
