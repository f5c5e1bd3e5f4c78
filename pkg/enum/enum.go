package enum

import (
	"context"
	"os"

	"github.com/praetorian-inc/what/pkg/types"
)

// Enumerator discovers blobs to identify.
type Enumerator interface {
	// Enumerate yields blobs from the source in a stable order.
	Enumerate(ctx context.Context, callback func(blob types.Blob) error) error
}

// Config for enumeration.
type Config struct {
	// Root is the starting path for enumeration. It may name a single file.
	Root string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	// Extract lists document kinds to pull text from (pdf, docx, xlsx, or all).
	// Empty skips binary documents entirely.
	Extract []string

	// Readers bounds the number of files read concurrently (0 = NumCPU).
	Readers int
}

// Resolve picks the enumerator for a command line input: an existing path
// is walked unless onlyText is set, anything else is identified as text.
func Resolve(input string, onlyText bool, cfg Config) Enumerator {
	if !onlyText {
		if _, err := os.Stat(input); err == nil {
			cfg.Root = input
			return NewFilesystemEnumerator(cfg)
		}
	}
	return NewTextEnumerator(input)
}

// Collect runs e and gathers every blob it yields.
func Collect(ctx context.Context, e Enumerator) ([]types.Blob, error) {
	var blobs []types.Blob
	err := e.Enumerate(ctx, func(blob types.Blob) error {
		blobs = append(blobs, blob)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blobs, nil
}
