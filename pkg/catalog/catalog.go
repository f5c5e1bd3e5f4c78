package catalog

import (
	"sort"
	"strings"

	"github.com/praetorian-inc/what/pkg/types"
)

// Catalog is an immutable, validated set of signatures.
// It is safe for concurrent use: nothing mutates it after New returns.
type Catalog struct {
	signatures []*types.Signature
	byName     map[string]*types.Signature
	tags       map[string]string // lowercased tag -> catalog spelling
}

// New validates signatures and builds a catalog from them.
// Signature indexes are reassigned to the order given here.
func New(signatures []*types.Signature) (*Catalog, error) {
	if len(signatures) == 0 {
		return nil, &LoadError{Err: ErrEmpty}
	}

	c := &Catalog{
		signatures: make([]*types.Signature, 0, len(signatures)),
		byName:     make(map[string]*types.Signature, len(signatures)),
		tags:       make(map[string]string),
	}

	for i, sig := range signatures {
		if err := ValidateSignature(sig); err != nil {
			return nil, err
		}
		if _, exists := c.byName[sig.Name]; exists {
			return nil, &LoadError{Signature: sig.Name, Err: ErrDuplicateName}
		}

		// Store a copy so indexes of a catalog built from another
		// catalog's signatures never leak back into the source.
		cp := *sig
		cp.Index = i
		if cp.StructuralID == "" {
			cp.StructuralID = cp.ComputeStructuralID()
		}
		sig = &cp

		c.signatures = append(c.signatures, sig)
		c.byName[sig.Name] = sig
		for _, tag := range sig.Tags {
			key := strings.ToLower(tag)
			if _, seen := c.tags[key]; !seen {
				c.tags[key] = tag
			}
		}
	}

	return c, nil
}

// Signatures returns all signatures in declaration order.
// The returned slice is a copy; the signatures themselves must not be modified.
func (c *Catalog) Signatures() []*types.Signature {
	out := make([]*types.Signature, len(c.signatures))
	copy(out, c.signatures)
	return out
}

// Len returns the number of signatures.
func (c *Catalog) Len() int {
	return len(c.signatures)
}

// Lookup finds a signature by exact name.
func (c *Catalog) Lookup(name string) (*types.Signature, bool) {
	sig, ok := c.byName[name]
	return sig, ok
}

// Tags returns the tag vocabulary, sorted case-insensitively.
func (c *Catalog) Tags() []string {
	out := make([]string, 0, len(c.tags))
	for _, tag := range c.tags {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// HasTag reports whether tag is part of the vocabulary, ignoring case.
func (c *Catalog) HasTag(tag string) bool {
	_, ok := c.tags[strings.ToLower(tag)]
	return ok
}
