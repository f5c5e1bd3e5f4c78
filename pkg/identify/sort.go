package identify

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/praetorian-inc/what/pkg/types"
)

// ErrInvalidSortKey is returned for unknown sort key names or values.
var ErrInvalidSortKey = errors.New("invalid sort key")

// SortKey selects how matches are ordered.
type SortKey int

const (
	// SortNone keeps emission order.
	SortNone SortKey = iota
	// SortName orders by signature name.
	SortName
	// SortRarity orders by signature rarity.
	SortRarity
	// SortMatched orders by the matched text.
	SortMatched
)

var sortKeyNames = map[SortKey]string{
	SortNone:    "none",
	SortName:    "name",
	SortRarity:  "rarity",
	SortMatched: "matched",
}

// String returns the CLI name of the key
func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

// Valid reports whether k is one of the defined keys.
func (k SortKey) Valid() bool {
	_, ok := sortKeyNames[k]
	return ok
}

// ParseSortKey maps a CLI name (case-insensitive) to a SortKey. The empty
// string means SortNone.
func ParseSortKey(s string) (SortKey, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return SortNone, nil
	}
	for k, n := range sortKeyNames {
		if n == name {
			return k, nil
		}
	}
	return SortNone, fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
}

// SortKeyNames returns the accepted key names.
func SortKeyNames() []string {
	return []string{"name", "rarity", "matched", "none"}
}

// comparator returns the strict ordering for key, or nil for SortNone.
func comparator(key SortKey) func(a, b *types.Match) bool {
	switch key {
	case SortName:
		return func(a, b *types.Match) bool { return a.SignatureName() < b.SignatureName() }
	case SortRarity:
		return func(a, b *types.Match) bool { return a.Rarity() < b.Rarity() }
	case SortMatched:
		return func(a, b *types.Match) bool { return a.Matched < b.Matched }
	default:
		return nil
	}
}

// Sort returns a sorted copy of matches. Ties keep their input order and
// reverse inverts the final sequence, so SortNone with reverse yields the
// exact reversal of the input.
func Sort(matches []*types.Match, key SortKey, reverse bool) ([]*types.Match, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSortKey, key)
	}

	out := make([]*types.Match, len(matches))
	copy(out, matches)

	if less := comparator(key); less != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i], out[j])
		})
	}
	if reverse {
		slices.Reverse(out)
	}
	return out, nil
}
