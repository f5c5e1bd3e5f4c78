package filter

import (
	"strconv"
	"strings"
)

// DefaultRange is the rarity range applied when the caller names none.
const DefaultRange = "0.1:1"

// ParseRange parses the "min:max" rarity syntax. Either side may be empty,
// meaning unbounded on that side ("0.5:" or ":0.8").
func ParseRange(s string) (lo, hi *float64, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return nil, nil, &InvalidRangeError{Input: s, Reason: "'min:max' expected"}
	}

	bounds := make([]*float64, 2)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, perr := strconv.ParseFloat(part, 64)
		if perr != nil {
			return nil, nil, &InvalidRangeError{Input: s, Reason: "float expected"}
		}
		bounds[i] = &v
	}
	return bounds[0], bounds[1], nil
}

// ParseTags splits a comma-separated tag list. Tags are trimmed of
// whitespace and empty entries dropped.
func ParseTags(tags string) []string {
	if tags == "" {
		return nil
	}

	parts := strings.Split(tags, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ParseCriteria builds Criteria from the CLI syntaxes.
func ParseCriteria(rarity, include, exclude string) (Criteria, error) {
	var c Criteria
	if rarity != "" {
		lo, hi, err := ParseRange(rarity)
		if err != nil {
			return Criteria{}, err
		}
		c.MinRarity, c.MaxRarity = lo, hi
	}
	c.Include = ParseTags(include)
	c.Exclude = ParseTags(exclude)
	return c, nil
}
