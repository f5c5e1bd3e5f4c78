package types

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Signature is a named pattern plus the metadata used to rank and filter
// what it matches.
type Signature struct {
	Index            int      `json:"-"`                           // declaration order within the catalog
	Name             string   `json:"name"`                        // unique within a catalog
	Pattern          string   `json:"pattern"`                     // regex pattern
	StructuralID     string   `json:"structural_id"`               // SHA-1 of pattern (computed)
	Rarity           float64  `json:"rarity"`                      // [0,1], higher is less likely a false positive
	Tags             []string `json:"tags"`                        // classification tags
	Description      string   `json:"description,omitempty"`       // optional
	URL              string   `json:"url,omitempty"`               // lookup URL, matched text is appended when it ends in / or =
	Exploit          string   `json:"exploit,omitempty"`           // optional hint on how the match can be used
	Examples         []string `json:"examples,omitempty"`          // positive test cases
	NegativeExamples []string `json:"negative_examples,omitempty"` // negative test cases
	Keywords         []string `json:"keywords,omitempty"`          // literals for Aho-Corasick prefiltering
	Connectors       string   `json:"connectors,omitempty"`        // extra runes that do not end a token for this signature
}

// ComputeStructuralID computes SHA-1 of the pattern.
func (s *Signature) ComputeStructuralID() string {
	h := sha1.New()
	h.Write([]byte(s.Pattern))
	return hex.EncodeToString(h.Sum(nil))
}

// Compile compiles the signature pattern.
// RE2 mode is tried first; patterns using Perl-only syntax such as
// lookbehind fall back to the default regexp2 dialect.
func (s *Signature) Compile() (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(s.Pattern, regexp2.RE2|regexp2.Multiline)
	if err != nil {
		re, err = regexp2.Compile(s.Pattern, regexp2.Multiline)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern for signature %q: %w", s.Name, err)
		}
	}
	return re, nil
}

// HasTag reports whether the signature carries tag, ignoring case.
func (s *Signature) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// LookupURL returns the URL to display for a matched value.
// Lookup prefixes (ending in "/" or "=") get the matched text appended.
func (s *Signature) LookupURL(matched string) string {
	if s.URL == "" {
		return ""
	}
	if strings.HasSuffix(s.URL, "/") || strings.HasSuffix(s.URL, "=") {
		return s.URL + matched
	}
	return s.URL
}
