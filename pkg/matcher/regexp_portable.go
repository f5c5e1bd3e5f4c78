package matcher

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/praetorian-inc/what/pkg/types"
)

// scan holds the per-blob state shared by every signature. It is built once
// per Match call and only read afterwards.
type scan struct {
	blob    types.Blob
	origin  string
	content string
	runes   []rune
	offsets []int // byte offset of each rune, plus len(content)
	lines   *types.LineIndex
}

func newScan(blob types.Blob, content string) *scan {
	runes := make([]rune, 0, len(content))
	offsets := make([]int, 0, len(content)+1)
	for i, r := range content {
		runes = append(runes, r)
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(content))

	return &scan{
		blob:    blob,
		origin:  blob.Origin(),
		content: content,
		runes:   runes,
		offsets: offsets,
		lines:   types.NewLineIndex(content),
	}
}

// rawMatch converts a regexp2 rune span into a RawMatch with byte offsets.
func (s *scan) rawMatch(sig *types.Signature, runeStart, runeEnd int) *types.RawMatch {
	start, end := s.offsets[runeStart], s.offsets[runeEnd]
	rm := &types.RawMatch{
		BlobID:    s.blob.ID,
		Origin:    s.origin,
		Signature: sig,
		Matched:   s.content[start:end],
		Location: types.Location{
			Offset: types.OffsetSpan{Start: start, End: end},
			Source: s.lines.Span(start, end),
		},
	}
	rm.StructuralID = rm.ComputeStructuralID()
	return rm
}

type outcome struct {
	matches []*types.RawMatch
	stat    SignatureStat
}

// matchSequential runs candidates one after another.
func (m *Matcher) matchSequential(ctx context.Context, s *scan, candidates []*types.Signature) ([]outcome, error) {
	deadline := m.blobDeadline()
	outcomes := make([]outcome, 0, len(candidates))
	for _, sig := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, m.matchSignature(ctx, s, sig, deadline))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// matchParallel performs parallel matching with worker pool. Outcomes are
// slotted by candidate position so the order does not depend on which
// worker finishes first.
func (m *Matcher) matchParallel(ctx context.Context, s *scan, candidates []*types.Signature) ([]outcome, error) {
	numWorkers := m.opts.workers()
	if numWorkers > len(candidates) {
		numWorkers = len(candidates)
	}
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	deadline := m.blobDeadline()
	outcomes := make([]outcome, len(candidates))

	jobs := make(chan int, len(candidates))
	for i := range candidates {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				outcomes[i] = m.matchSignature(ctx, s, candidates[i], deadline)
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (m *Matcher) blobDeadline() time.Time {
	if m.opts.BlobTimeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(m.opts.BlobTimeout)
}

// matchSignature collects every non-overlapping match of one signature.
// Zero-length matches are skipped.
func (m *Matcher) matchSignature(ctx context.Context, s *scan, sig *types.Signature, deadline time.Time) outcome {
	stat := SignatureStat{Signature: sig.Name}

	if !deadline.IsZero() && !time.Now().Before(deadline) {
		stat.Status = SignatureSkipped
		return outcome{stat: stat}
	}

	re := m.regexCache[sig.Pattern]
	if re == nil {
		stat.Status = SignatureSkipped
		return outcome{stat: stat}
	}

	start := time.Now()
	var matches []*types.RawMatch

	match, err := re.FindRunesMatch(s.runes)
	for err == nil && match != nil {
		if match.Length > 0 {
			matches = append(matches, s.rawMatch(sig, match.Index, match.Index+match.Length))
		}
		if ctx.Err() != nil {
			break
		}
		if m.overBudget(start, deadline) {
			stat.Status = SignatureTimedOut
			break
		}
		match, err = re.FindNextMatch(match)
	}

	stat.Duration = time.Since(start)
	stat.Matches = len(matches)
	if err != nil {
		if isTimeout(err) {
			stat.Status = SignatureTimedOut
		} else {
			stat.Status = SignatureError
			stat.Error = err
		}
	}
	return outcome{matches: matches, stat: stat}
}

// overBudget reports whether the signature or blob time budget has run out
// between two matches. regexp2 enforces the signature budget within a single
// search; this covers signatures with very many short matches.
func (m *Matcher) overBudget(start, deadline time.Time) bool {
	if m.opts.SignatureTimeout > 0 && time.Since(start) > m.opts.SignatureTimeout {
		return true
	}
	return !deadline.IsZero() && time.Now().After(deadline)
}

// isTimeout recognizes the regexp2 runner's timeout error. regexp2 exports no
// error type for it, only the message "match timeout after %v on input ...".
func isTimeout(err error) bool {
	return strings.Contains(err.Error(), "match timeout")
}
