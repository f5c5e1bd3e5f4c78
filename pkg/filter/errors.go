package filter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTag is returned when filter criteria name a tag the catalog
	// does not know.
	ErrInvalidTag = errors.New("invalid tag")
	// ErrInvalidRange is returned for malformed rarity bounds.
	ErrInvalidRange = errors.New("invalid rarity range")
)

// InvalidTagError lists the tags that are not in the catalog vocabulary.
type InvalidTagError struct {
	Tags []string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidTag, strings.Join(e.Tags, ", "))
}

func (e *InvalidTagError) Unwrap() error {
	return ErrInvalidTag
}

// InvalidRangeError describes a rejected rarity range.
type InvalidRangeError struct {
	Input  string // raw "min:max" text, when parsed from a string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%v %q: %s", ErrInvalidRange, e.Input, e.Reason)
	}
	return fmt.Sprintf("%v: %s", ErrInvalidRange, e.Reason)
}

func (e *InvalidRangeError) Unwrap() error {
	return ErrInvalidRange
}
