package prefilter

import (
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/praetorian-inc/what/pkg/types"
)

// Prefilter uses Aho-Corasick for efficient keyword matching.
// Keywords are compared case-insensitively.
type Prefilter struct {
	matcher           *ahocorasick.Matcher
	keywords          []string                      // lowercased keyword at each index
	keywordSignatures map[string][]*types.Signature // keyword -> signatures needing it
	noKeywordSigs     []*types.Signature            // signatures without keywords (always checked)
}

// New creates a prefilter from signatures.
func New(signatures []*types.Signature) *Prefilter {
	pf := &Prefilter{
		keywordSignatures: make(map[string][]*types.Signature),
		noKeywordSigs:     make([]*types.Signature, 0),
	}

	// Collect all keywords and build mapping
	keywordSet := make(map[string]bool)
	for _, sig := range signatures {
		if len(sig.Keywords) == 0 {
			pf.noKeywordSigs = append(pf.noKeywordSigs, sig)
			continue
		}
		for _, keyword := range sig.Keywords {
			keyword = strings.ToLower(keyword)
			if keyword == "" {
				continue
			}
			if !keywordSet[keyword] {
				keywordSet[keyword] = true
				pf.keywords = append(pf.keywords, keyword)
			}
			pf.keywordSignatures[keyword] = append(pf.keywordSignatures[keyword], sig)
		}
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}

	return pf
}

// Filter returns signatures that might match content (a keyword was found,
// or no keywords are defined), ordered by signature index.
func (pf *Prefilter) Filter(content string) []*types.Signature {
	result := make([]*types.Signature, 0, len(pf.noKeywordSigs))
	result = append(result, pf.noKeywordSigs...)

	if pf.matcher != nil {
		hits := pf.matcher.Match([]byte(strings.ToLower(content)))

		seen := make(map[*types.Signature]bool, len(hits))
		for _, hit := range hits {
			for _, sig := range pf.keywordSignatures[pf.keywords[hit]] {
				if !seen[sig] {
					seen[sig] = true
					result = append(result, sig)
				}
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Index < result[j].Index
	})
	return result
}

// Keywords returns the number of distinct keywords.
func (pf *Prefilter) Keywords() int {
	return len(pf.keywords)
}
