// Package filter accepts or rejects matches by rarity range and tag sets, and
// distributes bounded and boundaryless matches through separate filters.
package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/praetorian-inc/what/pkg/types"
)

// Vocabulary is the set of tags filter criteria may reference.
// *catalog.Catalog implements it.
type Vocabulary interface {
	HasTag(tag string) bool
}

// Criteria are the user-facing filter settings. Nil rarity bounds default
// to 0 and 1.
type Criteria struct {
	MinRarity *float64
	MaxRarity *float64
	Include   []string // match survives iff it has one of these tags (when non-empty)
	Exclude   []string // match is dropped iff it has one of these tags
}

// Filter is a validated, immutable set of criteria. A nil *Filter accepts
// everything.
type Filter struct {
	min, max float64
	include  map[string]struct{} // lowercased
	exclude  map[string]struct{} // lowercased
}

// New validates c against vocab and builds a Filter.
// It fails with *InvalidRangeError for bad rarity bounds and with
// *InvalidTagError for tags outside the vocabulary.
func New(vocab Vocabulary, c Criteria) (*Filter, error) {
	f := &Filter{min: 0, max: 1}
	if c.MinRarity != nil {
		f.min = *c.MinRarity
	}
	if c.MaxRarity != nil {
		f.max = *c.MaxRarity
	}

	if err := checkRange(f.min, f.max); err != nil {
		return nil, err
	}

	var unknown []string
	f.include, unknown = tagSet(vocab, c.Include, unknown)
	f.exclude, unknown = tagSet(vocab, c.Exclude, unknown)
	if len(unknown) > 0 {
		return nil, &InvalidTagError{Tags: unknown}
	}

	return f, nil
}

// MustNew is New that panics on error. It is meant for tests and fixed
// configurations.
func MustNew(vocab Vocabulary, c Criteria) *Filter {
	f, err := New(vocab, c)
	if err != nil {
		panic(err)
	}
	return f
}

func checkRange(lo, hi float64) error {
	switch {
	case math.IsNaN(lo) || math.IsNaN(hi):
		return &InvalidRangeError{Reason: "bounds must be numbers"}
	case lo < 0 || hi > 1:
		return &InvalidRangeError{Reason: fmt.Sprintf("bounds must lie within [0,1], got [%g,%g]", lo, hi)}
	case lo > hi:
		return &InvalidRangeError{Reason: fmt.Sprintf("min %g is greater than max %g", lo, hi)}
	}
	return nil
}

func tagSet(vocab Vocabulary, tags []string, unknown []string) (map[string]struct{}, []string) {
	if len(tags) == 0 {
		return nil, unknown
	}
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if vocab == nil || !vocab.HasTag(tag) {
			unknown = append(unknown, tag)
			continue
		}
		set[strings.ToLower(tag)] = struct{}{}
	}
	return set, unknown
}

// Accepts reports whether m passes the filter.
func (f *Filter) Accepts(m *types.Match) bool {
	if m == nil {
		return false
	}
	return f.AcceptsSignature(m.Signature)
}

// AcceptsSignature reports whether matches of sig pass the filter. Every rule
// depends only on the signature, so this also decides whether sig needs to
// run at all.
func (f *Filter) AcceptsSignature(sig *types.Signature) bool {
	if f == nil {
		return true
	}
	if sig == nil {
		return false
	}

	if sig.Rarity < f.min || sig.Rarity > f.max {
		return false
	}
	if len(f.include) > 0 && !intersects(sig.Tags, f.include) {
		return false
	}
	if len(f.exclude) > 0 && intersects(sig.Tags, f.exclude) {
		return false
	}
	return true
}

// Rarity returns the inclusive rarity range.
func (f *Filter) Rarity() (lo, hi float64) {
	if f == nil {
		return 0, 1
	}
	return f.min, f.max
}

func intersects(tags []string, set map[string]struct{}) bool {
	for _, tag := range tags {
		if _, ok := set[strings.ToLower(tag)]; ok {
			return true
		}
	}
	return false
}
