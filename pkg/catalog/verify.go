package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/praetorian-inc/what/pkg/types"
)

// verifyTimeout bounds each example match during verification.
const verifyTimeout = time.Second

// Issue is one quality problem found by Verify.
type Issue struct {
	Signature string
	Example   string
	Problem   string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %q", i.Signature, i.Problem, i.Example)
}

// Verify checks every signature against its own examples:
//   - each positive example must produce at least one match
//   - no negative example may be matched over its whole length
//   - when keywords are declared, each positive example must contain one
//
// An empty result means the catalog passed.
func Verify(c *Catalog) []Issue {
	var issues []Issue
	for _, sig := range c.signatures {
		issues = append(issues, verifySignature(sig)...)
	}
	return issues
}

func verifySignature(sig *types.Signature) []Issue {
	re, err := sig.Compile()
	if err != nil {
		return []Issue{{Signature: sig.Name, Problem: err.Error()}}
	}
	re.MatchTimeout = verifyTimeout

	var issues []Issue
	for _, ex := range sig.Examples {
		m, err := re.FindStringMatch(ex)
		if err != nil {
			issues = append(issues, Issue{Signature: sig.Name, Example: ex, Problem: err.Error()})
			continue
		}
		if m == nil || m.Length == 0 {
			issues = append(issues, Issue{Signature: sig.Name, Example: ex, Problem: "example does not match"})
		}
		if len(sig.Keywords) > 0 && !containsKeyword(ex, sig.Keywords) {
			issues = append(issues, Issue{Signature: sig.Name, Example: ex, Problem: "example contains none of the keywords"})
		}
	}

	for _, ex := range sig.NegativeExamples {
		if ex == "" {
			continue
		}
		whole := len([]rune(ex))
		m, err := re.FindStringMatch(ex)
		for err == nil && m != nil {
			if m.Index == 0 && m.Length == whole {
				issues = append(issues, Issue{Signature: sig.Name, Example: ex, Problem: "negative example matches"})
				break
			}
			m, err = re.FindNextMatch(m)
		}
		if err != nil {
			issues = append(issues, Issue{Signature: sig.Name, Example: ex, Problem: err.Error()})
		}
	}

	return issues
}

func containsKeyword(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
