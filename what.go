// Package what identifies what a piece of text is: email addresses, IP
// addresses, hashes, credentials, wallet addresses and more.
//
// # Basic Usage
//
// Create an identifier over the builtin catalog and identify text:
//
//	id, err := what.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := id.IdentifyString(ctx, "52.6169586, -1.9779857")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, m := range res.Matches {
//	    fmt.Printf("%s is a %s\n", m.Matched, m.SignatureName())
//	}
//
// # Filtering
//
// Bounded matches (those standing alone) and boundaryless matches (those
// embedded in longer words) are filtered separately:
//
//	id, err := what.New(
//	    what.WithFilter(filter.Criteria{Include: []string{"Credentials"}}),
//	    what.WithBoundarylessFilter(filter.Criteria{MinRarity: &high}),
//	    what.WithKey(identify.SortRarity),
//	)
package what

import (
	"context"
	"fmt"
	"os"

	"github.com/praetorian-inc/what/pkg/catalog"
	"github.com/praetorian-inc/what/pkg/filter"
	"github.com/praetorian-inc/what/pkg/identify"
	"github.com/praetorian-inc/what/pkg/matcher"
	"github.com/praetorian-inc/what/pkg/types"
	"github.com/rs/zerolog"
)

// Re-export commonly used types so callers can import just this package.
type (
	// Match is one identified span of input.
	Match = types.Match

	// Signature is one catalog entry.
	Signature = types.Signature

	// Blob is one unit of input.
	Blob = types.Blob

	// Result is the output of one identification.
	Result = identify.Result

	// Request holds per-call filters and ordering.
	Request = identify.Request
)

// Identifier identifies text against one catalog with fixed default
// filters. It is safe for concurrent use.
type Identifier struct {
	identifier *identify.Identifier
	request    identify.Request
}

type config struct {
	catalog      *catalog.Catalog
	signatures   string
	bounded      filter.Criteria
	boundaryless filter.Criteria
	key          identify.SortKey
	reverse      bool
	idOpts       []identify.Option
}

// Option configures an Identifier.
type Option func(*config)

// WithCatalog uses c instead of the builtin catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(cfg *config) {
		cfg.catalog = c
	}
}

// WithSignatures loads the catalog from a YAML file or directory.
func WithSignatures(path string) Option {
	return func(cfg *config) {
		cfg.signatures = path
	}
}

// WithFilter sets the criteria for bounded matches.
// Default is rarity [0.1, 1] with no tag constraints.
func WithFilter(c filter.Criteria) Option {
	return func(cfg *config) {
		cfg.bounded = c
	}
}

// WithBoundarylessFilter sets the criteria for boundaryless matches.
// Default is rarity [0.1, 1] with no tag constraints.
func WithBoundarylessFilter(c filter.Criteria) Option {
	return func(cfg *config) {
		cfg.boundaryless = c
	}
}

// WithRarity sets the rarity range of bounded matches, keeping any tag
// criteria already set.
func WithRarity(lo, hi float64) Option {
	return func(cfg *config) {
		cfg.bounded.MinRarity = &lo
		cfg.bounded.MaxRarity = &hi
	}
}

// WithKey sets the default sort key.
func WithKey(key identify.SortKey) Option {
	return func(cfg *config) {
		cfg.key = key
	}
}

// WithReverse reverses the default ordering.
func WithReverse() Option {
	return func(cfg *config) {
		cfg.reverse = true
	}
}

// WithMatcherOptions sets matcher budgets and worker settings.
func WithMatcherOptions(opts matcher.Options) Option {
	return func(cfg *config) {
		cfg.idOpts = append(cfg.idOpts, identify.WithMatcherOptions(opts))
	}
}

// WithConcurrency bounds how many blobs are scanned at once.
func WithConcurrency(n int) Option {
	return func(cfg *config) {
		cfg.idOpts = append(cfg.idOpts, identify.WithConcurrency(n))
	}
}

// WithLogger sets the logger used while matching.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.idOpts = append(cfg.idOpts, identify.WithLogger(l))
	}
}

// New creates an Identifier. Filters are validated against the catalog
// here, so unknown tags fail before anything is scanned.
//
// Example:
//
//	// Builtin catalog, default filters
//	id, err := what.New()
//
//	// Custom catalog, only credentials
//	id, err := what.New(
//	    what.WithSignatures("./signatures"),
//	    what.WithFilter(filter.Criteria{Include: []string{"Credentials"}}),
//	)
func New(opts ...Option) (*Identifier, error) {
	lo := identify.DefaultMinRarity
	cfg := &config{
		bounded:      filter.Criteria{MinRarity: &lo},
		boundaryless: filter.Criteria{MinRarity: &lo},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	cat, err := resolveCatalog(cfg)
	if err != nil {
		return nil, err
	}

	bounded, err := filter.New(cat, cfg.bounded)
	if err != nil {
		return nil, err
	}
	boundaryless, err := filter.New(cat, cfg.boundaryless)
	if err != nil {
		return nil, err
	}
	if !cfg.key.Valid() {
		return nil, fmt.Errorf("%w: %s", identify.ErrInvalidSortKey, cfg.key)
	}

	inner, err := identify.New(cat, cfg.idOpts...)
	if err != nil {
		return nil, err
	}

	return &Identifier{
		identifier: inner,
		request: identify.Request{
			Bounded:      bounded,
			Boundaryless: boundaryless,
			Key:          cfg.key,
			Reverse:      cfg.reverse,
		},
	}, nil
}

func resolveCatalog(cfg *config) (*catalog.Catalog, error) {
	switch {
	case cfg.catalog != nil:
		return cfg.catalog, nil
	case cfg.signatures != "":
		cat, err := catalog.NewLoader().LoadPath(cfg.signatures)
		if err != nil {
			return nil, err
		}
		return cat, nil
	default:
		cat, err := catalog.Builtin()
		if err != nil {
			return nil, fmt.Errorf("loading builtin catalog: %w", err)
		}
		return cat, nil
	}
}

// Catalog returns the catalog in use.
func (id *Identifier) Catalog() *catalog.Catalog {
	return id.identifier.Catalog()
}

// Tags returns the catalog's tag vocabulary.
func (id *Identifier) Tags() []string {
	return id.identifier.Catalog().Tags()
}

// Request returns the default request built from the options given to New.
func (id *Identifier) Request() identify.Request {
	return id.request
}

// Identify runs req over blobs.
func (id *Identifier) Identify(ctx context.Context, blobs []types.Blob, req identify.Request) (*identify.Result, error) {
	return id.identifier.Identify(ctx, blobs, req)
}

// IdentifyString identifies text with the default request.
//
// Example:
//
//	res, err := id.IdentifyString(ctx, "James:SecretPassword")
func (id *Identifier) IdentifyString(ctx context.Context, text string) (*identify.Result, error) {
	return id.identifier.Identify(ctx, []types.Blob{types.NewTextBlob(text)}, id.request)
}

// IdentifyFile reads path and identifies its content with the default
// request.
func (id *Identifier) IdentifyFile(ctx context.Context, path string) (*identify.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return id.identifier.Identify(ctx, []types.Blob{types.NewFileBlob(path, content)}, id.request)
}

// LoadBuiltinSignatures returns the builtin catalog's signatures.
func LoadBuiltinSignatures() ([]*Signature, error) {
	cat, err := catalog.Builtin()
	if err != nil {
		return nil, err
	}
	return cat.Signatures(), nil
}
