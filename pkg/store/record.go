package store

import (
	"fmt"

	"github.com/praetorian-inc/what/pkg/identify"
	"github.com/praetorian-inc/what/pkg/types"
)

// Record saves one identification result: the signatures its matches
// reference, every blob report and every match, in result order.
func Record(s Store, blobs []types.Blob, res *identify.Result) error {
	kinds := make(map[types.BlobID]string, len(blobs))
	for _, b := range blobs {
		kind := "text"
		if b.Provenance != nil {
			kind = b.Provenance.Kind()
		}
		kinds[b.ID] = kind
	}

	seen := make(map[string]struct{})
	for _, m := range res.Matches {
		if m.Signature == nil {
			continue
		}
		if _, ok := seen[m.Signature.Name]; ok {
			continue
		}
		seen[m.Signature.Name] = struct{}{}
		if err := s.AddSignature(m.Signature); err != nil {
			return fmt.Errorf("recording signature %s: %w", m.Signature.Name, err)
		}
	}

	for _, br := range res.Blobs {
		rec := BlobRecord{
			ID:        br.BlobID,
			Kind:      kinds[br.BlobID],
			Origin:    br.Origin,
			Size:      br.Size,
			Scanned:   br.Scanned,
			Truncated: br.Truncated,
		}
		if br.Err != nil {
			rec.Reason = br.Err.Error()
		}
		if err := s.AddBlob(rec); err != nil {
			return fmt.Errorf("recording blob %s: %w", br.Origin, err)
		}
	}

	for _, m := range res.Matches {
		if err := s.AddMatch(m); err != nil {
			return fmt.Errorf("recording match: %w", err)
		}
	}
	return nil
}
