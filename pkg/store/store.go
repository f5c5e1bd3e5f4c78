package store

import (
	"fmt"

	"github.com/praetorian-inc/what/pkg/types"
)

// BlobRecord describes one scanned blob of a stored run.
type BlobRecord struct {
	ID        types.BlobID
	Kind      string // provenance kind: text, file or document
	Origin    string
	Size      int
	Scanned   int
	Truncated bool
	Reason    string // why the blob was truncated
}

// Store provides persistence for identification results.
// This interface abstracts the underlying storage implementation,
// allowing for different backends.
type Store interface {
	// AddSignature stores a signature. Existing names are kept.
	AddSignature(sig *types.Signature) error

	// AddBlob stores a blob record. Existing IDs are kept.
	AddBlob(b BlobRecord) error

	// AddMatch stores a match. Matches are deduplicated by structural ID.
	AddMatch(m *types.Match) error

	// Signatures returns stored signatures in insertion order.
	Signatures() ([]*types.Signature, error)

	// Blobs returns stored blob records in insertion order.
	Blobs() ([]BlobRecord, error)

	// Matches returns stored matches in insertion order, each linked to its
	// stored signature.
	Matches() ([]*types.Match, error)

	// BlobExists checks if a blob has already been stored.
	BlobExists(id types.BlobID) (bool, error)

	// Close closes the store.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for a store that lives only as long as the process.
	Path string
}

// New creates a Store. ":memory:" selects MemoryStore; any other path is a
// SQLite database.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}
