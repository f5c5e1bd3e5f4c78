// Package boundary decides whether a raw match stands on its own or is
// embedded inside a larger token.
package boundary

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/praetorian-inc/what/pkg/types"
)

// DefaultConnectors are runes that join word characters into one token in
// addition to letters and digits.
const DefaultConnectors = "_"

// Classifier marks raw matches as bounded or boundaryless.
//
// A rune is a non-boundary rune when it is a Unicode letter or digit, one of
// the classifier's connectors, or one of the producing signature's own
// connectors. A match is bounded when the runes on both sides of its span are
// boundary runes; the start and end of the blob count as boundaries.
type Classifier struct {
	connectors string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithConnectors replaces the default connector set.
func WithConnectors(connectors string) Option {
	return func(c *Classifier) {
		c.connectors = connectors
	}
}

// New creates a classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{connectors: DefaultConnectors}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connectors returns the global connector set.
func (c *Classifier) Connectors() string {
	return c.connectors
}

// Classify wraps raw with its boundary classification. content is the blob
// content raw's offsets refer to.
func (c *Classifier) Classify(raw *types.RawMatch, content string) *types.Match {
	var extra string
	if raw.Signature != nil {
		extra = raw.Signature.Connectors
	}
	return &types.Match{
		RawMatch: *raw,
		Bounded:  c.IsBounded(content, raw.Location.Offset.Start, raw.Location.Offset.End, extra),
	}
}

// ClassifyAll classifies raws in order.
func (c *Classifier) ClassifyAll(raws []*types.RawMatch, content string) []*types.Match {
	out := make([]*types.Match, 0, len(raws))
	for _, raw := range raws {
		out = append(out, c.Classify(raw, content))
	}
	return out
}

// IsBounded reports whether the byte span [start, end) of content is
// delimited by boundary runes. extra holds additional connectors, usually
// the signature's own.
func (c *Classifier) IsBounded(content string, start, end int, extra string) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(content[:start])
		if !c.isBoundary(r, extra) {
			return false
		}
	}
	if end < len(content) {
		r, _ := utf8.DecodeRuneInString(content[end:])
		if !c.isBoundary(r, extra) {
			return false
		}
	}
	return true
}

func (c *Classifier) isBoundary(r rune, extra string) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return false
	}
	return !strings.ContainsRune(c.connectors, r) && !strings.ContainsRune(extra, r)
}
