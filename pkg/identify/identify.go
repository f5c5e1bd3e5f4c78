// Package identify runs the identification pipeline: match every blob,
// classify each match as bounded or boundaryless, distribute the matches
// through the two filters and sort the survivors.
package identify

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/fatih/semgroup"
	"github.com/praetorian-inc/what/pkg/boundary"
	"github.com/praetorian-inc/what/pkg/catalog"
	"github.com/praetorian-inc/what/pkg/filter"
	"github.com/praetorian-inc/what/pkg/matcher"
	"github.com/praetorian-inc/what/pkg/types"
	"github.com/rs/zerolog"
)

// Request holds the per-call settings of Identify.
type Request struct {
	Bounded      *filter.Filter // applied to bounded matches; nil accepts all
	Boundaryless *filter.Filter // applied to boundaryless matches; nil accepts all
	Key          SortKey
	Reverse      bool
}

// DefaultMinRarity is the lower rarity bound used when a caller gives none,
// for both bounded and boundaryless matches.
const DefaultMinRarity = 0.1

// DefaultRequest filters both partitions to rarity [0.1, 1] and keeps
// emission order.
func DefaultRequest() Request {
	lo := DefaultMinRarity
	f := filter.MustNew(nil, filter.Criteria{MinRarity: &lo})
	return Request{Bounded: f, Boundaryless: f, Key: SortNone}
}

// BlobReport describes how one blob was scanned.
type BlobReport struct {
	BlobID     types.BlobID
	Origin     string
	Size       int // content length in bytes
	Scanned    int // bytes scanned
	RawMatches int // matches before filtering
	Truncated  bool
	Err        error // why the blob was truncated; wraps matcher.ErrBudgetExceeded for budgets
}

// Result is the ordered output of Identify.
type Result struct {
	Matches []*types.Match
	Blobs   []BlobReport // in input order
}

// Truncated reports whether any blob was only partially scanned.
func (r *Result) Truncated() bool {
	for _, b := range r.Blobs {
		if b.Truncated {
			return true
		}
	}
	return false
}

// Identifier runs identification against one catalog. It holds no per-call
// state and is safe for concurrent use.
type Identifier struct {
	catalog     *catalog.Catalog
	matcher     *matcher.Matcher
	classifier  *boundary.Classifier
	matchOpts   matcher.Options
	concurrency int
	log         zerolog.Logger
}

// Option configures an Identifier.
type Option func(*Identifier)

// WithMatcherOptions sets the matcher budgets and worker settings.
func WithMatcherOptions(opts matcher.Options) Option {
	return func(id *Identifier) {
		id.matchOpts = opts
	}
}

// WithClassifier replaces the default boundary classifier.
func WithClassifier(c *boundary.Classifier) Option {
	return func(id *Identifier) {
		id.classifier = c
	}
}

// WithConcurrency bounds how many blobs are scanned at once.
func WithConcurrency(n int) Option {
	return func(id *Identifier) {
		id.concurrency = n
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(id *Identifier) {
		id.log = l
	}
}

// New builds an Identifier over cat.
func New(cat *catalog.Catalog, opts ...Option) (*Identifier, error) {
	id := &Identifier{
		catalog:     cat,
		classifier:  boundary.New(),
		matchOpts:   matcher.DefaultOptions(),
		concurrency: runtime.GOMAXPROCS(0),
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(id)
	}
	if id.concurrency < 1 {
		id.concurrency = 1
	}

	mopts := id.matchOpts
	mopts.Logger = id.log
	m, err := matcher.New(cat, mopts)
	if err != nil {
		return nil, fmt.Errorf("creating matcher: %w", err)
	}
	id.matcher = m
	return id, nil
}

// Catalog returns the catalog the identifier matches against.
func (id *Identifier) Catalog() *catalog.Catalog {
	return id.catalog
}

// Identify matches blobs and returns the filtered, sorted matches.
//
// Matches of different blobs appear in blob order before distribution.
// Budget overruns mark the affected BlobReport as truncated and never fail
// the call; context cancellation returns ctx.Err().
func (id *Identifier) Identify(ctx context.Context, blobs []types.Blob, req Request) (*Result, error) {
	if !req.Key.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSortKey, req.Key)
	}

	dist := filter.NewDistribution(req.Bounded, req.Boundaryless)

	classified := make([][]*types.Match, len(blobs))
	reports := make([]BlobReport, len(blobs))

	g := semgroup.NewGroup(ctx, int64(id.concurrency))
	for i := range blobs {
		g.Go(func() error {
			blob := blobs[i]
			start := time.Now()

			res, err := id.matcher.Match(ctx, blob, dist.Selects)
			if err != nil {
				return err
			}

			classified[i] = id.classifier.ClassifyAll(res.Matches, blob.Content)
			reports[i] = BlobReport{
				BlobID:     blob.ID,
				Origin:     blob.Origin(),
				Size:       res.Size,
				Scanned:    res.Scanned,
				RawMatches: len(res.Matches),
				Truncated:  res.Truncated,
				Err:        res.Err,
			}

			id.log.Debug().
				Str("origin", reports[i].Origin).
				Int("size", res.Size).
				Int("candidates", res.Summary.Candidates).
				Int("matches", len(res.Matches)).
				Dur("elapsed", time.Since(start)).
				Msg("scanned blob")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []*types.Match
	for _, ms := range classified {
		all = append(all, ms...)
	}

	sorted, err := Sort(dist.Apply(all), req.Key, req.Reverse)
	if err != nil {
		return nil, err
	}

	return &Result{Matches: sorted, Blobs: reports}, nil
}
