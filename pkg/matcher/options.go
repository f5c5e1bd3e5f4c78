package matcher

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultSignatureTimeout is the default regexp2 MatchTimeout per signature.
	DefaultSignatureTimeout = 5 * time.Second

	// DefaultParallelThreshold is the blob size at which signatures are
	// matched by a worker pool instead of sequentially.
	DefaultParallelThreshold = 10000 // bytes
)

// Options configures matching behavior
type Options struct {
	// SignatureTimeout bounds the time one signature may spend on one blob.
	// Matches found before the timeout are kept. Zero disables the budget.
	SignatureTimeout time.Duration

	// BlobTimeout bounds the time spent on one blob. Signatures not yet
	// started when it expires are skipped. Zero disables the budget.
	BlobTimeout time.Duration

	// MaxBlobSize limits how many bytes of a blob are scanned. Larger blobs
	// are scanned up to the limit and reported as truncated. Zero means no limit.
	MaxBlobSize int

	// ParallelThreshold is the blob size (bytes) from which signatures run on
	// a worker pool. Zero uses DefaultParallelThreshold; negative disables.
	ParallelThreshold int

	// Workers is the pool size for parallel matching (0 = GOMAXPROCS).
	Workers int

	// DisablePrefilter runs keyworded signatures even when none of their
	// keywords occur in the blob.
	DisablePrefilter bool

	// Logger receives per-signature warnings.
	Logger zerolog.Logger
}

// DefaultOptions returns the default options for the matcher
func DefaultOptions() Options {
	return Options{
		SignatureTimeout:  DefaultSignatureTimeout,
		ParallelThreshold: DefaultParallelThreshold,
		Workers:           runtime.GOMAXPROCS(0),
		Logger:            zerolog.Nop(),
	}
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) parallelThreshold() int {
	if o.ParallelThreshold == 0 {
		return DefaultParallelThreshold
	}
	return o.ParallelThreshold
}
