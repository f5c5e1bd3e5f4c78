package store

import (
	"fmt"
	"sync"

	"github.com/praetorian-inc/what/pkg/types"
)

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu         sync.RWMutex
	signatures []*types.Signature
	sigNames   map[string]struct{}
	blobs      []BlobRecord
	blobIDs    map[types.BlobID]struct{}
	matches    []*types.Match
	matchIDs   map[string]struct{} // keyed by structural ID
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		sigNames: make(map[string]struct{}),
		blobIDs:  make(map[types.BlobID]struct{}),
		matchIDs: make(map[string]struct{}),
	}
}

// AddSignature stores a signature.
func (m *MemoryStore) AddSignature(sig *types.Signature) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sigNames[sig.Name]; exists {
		return nil
	}
	m.sigNames[sig.Name] = struct{}{}
	m.signatures = append(m.signatures, sig)
	return nil
}

// AddBlob stores a blob record.
func (m *MemoryStore) AddBlob(b BlobRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.blobIDs[b.ID]; exists {
		return nil
	}
	m.blobIDs[b.ID] = struct{}{}
	m.blobs = append(m.blobs, b)
	return nil
}

// AddMatch stores a match record.
func (m *MemoryStore) AddMatch(match *types.Match) error {
	if match.Signature == nil {
		return fmt.Errorf("match %s has no signature", match.StructuralID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.matchIDs[match.StructuralID]; exists {
		return nil
	}
	m.matchIDs[match.StructuralID] = struct{}{}
	m.matches = append(m.matches, match)
	return nil
}

// Signatures returns stored signatures in insertion order.
func (m *MemoryStore) Signatures() ([]*types.Signature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.Signature, len(m.signatures))
	copy(out, m.signatures)
	return out, nil
}

// Blobs returns stored blob records in insertion order.
func (m *MemoryStore) Blobs() ([]BlobRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]BlobRecord, len(m.blobs))
	copy(out, m.blobs)
	return out, nil
}

// Matches returns stored matches in insertion order.
func (m *MemoryStore) Matches() ([]*types.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.Match, len(m.matches))
	copy(out, m.matches)
	return out, nil
}

// BlobExists checks if a blob has already been stored.
func (m *MemoryStore) BlobExists(id types.BlobID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.blobIDs[id]
	return exists, nil
}

// Close releases the stored data.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.signatures = nil
	m.blobs = nil
	m.matches = nil
	clear(m.sigNames)
	clear(m.blobIDs)
	clear(m.matchIDs)
	return nil
}
