package filter

import "github.com/praetorian-inc/what/pkg/types"

// Distribution sends bounded matches through one filter and boundaryless
// matches through another.
type Distribution struct {
	bounded      *Filter
	boundaryless *Filter
}

// NewDistribution pairs the bounded and boundaryless filters. Either may be
// nil to accept every match of that kind.
func NewDistribution(bounded, boundaryless *Filter) *Distribution {
	return &Distribution{bounded: bounded, boundaryless: boundaryless}
}

// Bounded returns the filter applied to bounded matches.
func (d *Distribution) Bounded() *Filter {
	return d.bounded
}

// Boundaryless returns the filter applied to boundaryless matches.
func (d *Distribution) Boundaryless() *Filter {
	return d.boundaryless
}

// Apply partitions matches by their Bounded flag, filters each partition
// with its own filter and returns bounded survivors followed by boundaryless
// survivors. Each partition keeps its input order.
func (d *Distribution) Apply(matches []*types.Match) []*types.Match {
	bounded := make([]*types.Match, 0, len(matches))
	var boundaryless []*types.Match

	for _, m := range matches {
		if m.Bounded {
			if d.bounded.Accepts(m) {
				bounded = append(bounded, m)
			}
			continue
		}
		if d.boundaryless.Accepts(m) {
			boundaryless = append(boundaryless, m)
		}
	}

	return append(bounded, boundaryless...)
}

// Selects reports whether any match of sig could survive Apply. Signatures
// it rejects do not need to be matched at all.
func (d *Distribution) Selects(sig *types.Signature) bool {
	return d.bounded.AcceptsSignature(sig) || d.boundaryless.AcceptsSignature(sig)
}
