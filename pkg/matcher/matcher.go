// Package matcher runs every candidate signature of a catalog over a blob and
// reports raw matches with byte and line/column spans.
package matcher

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/what/pkg/catalog"
	"github.com/praetorian-inc/what/pkg/prefilter"
	"github.com/praetorian-inc/what/pkg/types"
	"github.com/rs/zerolog"
)

// Selector reports whether a signature should run. A nil Selector selects
// every signature.
type Selector func(*types.Signature) bool

// Matcher scans blobs against the signatures of a catalog.
// It is safe for concurrent use: the compiled patterns are read-only after New.
type Matcher struct {
	signatures []*types.Signature
	regexCache map[string]*regexp2.Regexp // keyed by pattern
	prefilter  *prefilter.Prefilter
	opts       Options
	log        zerolog.Logger
}

// New compiles every signature of cat.
func New(cat *catalog.Catalog, opts Options) (*Matcher, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, fmt.Errorf("no signatures provided")
	}

	m := &Matcher{
		signatures: cat.Signatures(),
		regexCache: make(map[string]*regexp2.Regexp),
		opts:       opts,
		log:        opts.Logger,
	}

	for _, sig := range m.signatures {
		if _, ok := m.regexCache[sig.Pattern]; ok {
			continue
		}
		re, err := sig.Compile()
		if err != nil {
			return nil, err
		}
		if opts.SignatureTimeout > 0 {
			re.MatchTimeout = opts.SignatureTimeout
		}
		m.regexCache[sig.Pattern] = re
	}

	if !opts.DisablePrefilter {
		m.prefilter = prefilter.New(m.signatures)
	}

	return m, nil
}

// Signatures returns the signatures the matcher was built from, in index order.
func (m *Matcher) Signatures() []*types.Signature {
	return m.signatures
}

// Match scans blob against every signature accepted by sel.
//
// Empty and whitespace-only blobs yield no matches. A blob that runs out of
// a budget yields a Result with Truncated set; only context cancellation
// returns an error.
func (m *Matcher) Match(ctx context.Context, blob types.Blob, sel Selector) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := blob.Content
	res := &Result{Size: len(content)}

	if limit := m.opts.MaxBlobSize; limit > 0 && len(content) > limit {
		content = truncateUTF8(content, limit)
		res.truncate(fmt.Errorf("%w: blob is %d bytes, scanned the first %d", ErrBudgetExceeded, len(blob.Content), len(content)))
	}
	res.Scanned = len(content)

	if strings.TrimSpace(content) == "" {
		return res, nil
	}

	candidates := m.candidates(content, sel)
	res.Summary.Candidates = len(candidates)
	if len(candidates) == 0 {
		return res, nil
	}

	s := newScan(blob, content)

	var (
		outcomes []outcome
		err      error
	)
	threshold := m.opts.parallelThreshold()
	if threshold > 0 && len(content) >= threshold && len(candidates) > 1 {
		outcomes, err = m.matchParallel(ctx, s, candidates)
	} else {
		outcomes, err = m.matchSequential(ctx, s, candidates)
	}
	if err != nil {
		return nil, err
	}

	m.collect(res, s, outcomes)
	return res, nil
}

// candidates narrows the signature list with the keyword prefilter and the
// selector, keeping index order.
func (m *Matcher) candidates(content string, sel Selector) []*types.Signature {
	pool := m.signatures
	if m.prefilter != nil {
		pool = m.prefilter.Filter(content)
	}
	if sel == nil {
		return pool
	}

	out := make([]*types.Signature, 0, len(pool))
	for _, sig := range pool {
		if sel(sig) {
			out = append(out, sig)
		}
	}
	return out
}

func (m *Matcher) collect(res *Result, s *scan, outcomes []outcome) {
	for _, o := range outcomes {
		res.Matches = append(res.Matches, o.matches...)
		res.record(o.stat)

		switch o.stat.Status {
		case SignatureTimedOut:
			m.log.Warn().
				Str("signature", o.stat.Signature).
				Str("origin", s.origin).
				Dur("elapsed", o.stat.Duration).
				Int("matches", o.stat.Matches).
				Msg("signature timed out, keeping partial matches")
			res.truncate(fmt.Errorf("%w: signature %q timed out after %s", ErrBudgetExceeded, o.stat.Signature, o.stat.Duration))
		case SignatureError:
			m.log.Warn().
				Err(o.stat.Error).
				Str("signature", o.stat.Signature).
				Str("origin", s.origin).
				Msg("signature failed on blob")
			res.truncate(fmt.Errorf("signature %q: %w", o.stat.Signature, o.stat.Error))
		}
	}

	if res.Summary.Skipped > 0 {
		m.log.Warn().
			Str("origin", s.origin).
			Int("skipped", res.Summary.Skipped).
			Dur("blob_timeout", m.opts.BlobTimeout).
			Msg("blob timeout reached, skipping remaining signatures")
		res.truncate(fmt.Errorf("%w: blob timeout of %s reached, %d signatures skipped", ErrBudgetExceeded, m.opts.BlobTimeout, res.Summary.Skipped))
	}
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
