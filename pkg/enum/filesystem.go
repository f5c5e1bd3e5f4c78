package enum

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/praetorian-inc/what/pkg/types"
	"golang.org/x/sync/errgroup"
)

// FilesystemEnumerator enumerates files from a file or directory.
type FilesystemEnumerator struct {
	config Config
}

// NewFilesystemEnumerator creates a new filesystem enumerator.
func NewFilesystemEnumerator(config Config) *FilesystemEnumerator {
	return &FilesystemEnumerator{config: config}
}

// Enumerate walks the filesystem and yields file blobs in lexical path order.
// Phase 1: Walk directory tree and collect eligible file paths (sequential).
// Phase 2: Read files in parallel into per-file slots.
// Phase 3: Invoke callback in walk order.
func (e *FilesystemEnumerator) Enumerate(ctx context.Context, callback func(blob types.Blob) error) error {
	files, err := e.walk(ctx)
	if err != nil {
		return err
	}

	readers := e.config.Readers
	if readers < 1 {
		readers = runtime.NumCPU()
	}

	slots := make([][]types.Blob, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			blobs, err := e.readFile(path)
			if err != nil {
				return err
			}
			slots[i] = blobs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, blobs := range slots {
		for _, blob := range blobs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := callback(blob); err != nil {
				return err
			}
		}
	}
	return ctx.Err()
}

// walk collects eligible file paths under the root.
func (e *FilesystemEnumerator) walk(ctx context.Context) ([]string, error) {
	root := e.config.Root

	// Load .gitignore patterns if present
	var ignore *gitignore.GitIgnore
	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		ignore, _ = gitignore.CompileIgnoreFile(gitignorePath)
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// An explicitly named root is always taken.
		explicit := path == root

		if info.IsDir() {
			if !explicit && !e.config.IncludeHidden && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 && !e.config.FollowSymlinks {
			return nil
		}

		if !explicit && !e.config.IncludeHidden && isHidden(info.Name()) {
			return nil
		}

		if e.config.MaxFileSize > 0 && info.Size() > e.config.MaxFileSize {
			return nil
		}

		if ignore != nil && !explicit {
			relPath, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if ignore.MatchesPath(relPath) {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// readFile reads one file into zero or more blobs. Documents of an enabled
// kind are replaced by their extracted text; other binary files yield
// nothing.
func (e *FilesystemEnumerator) readFile(path string) ([]types.Blob, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if shouldExtract(e.config, getExtension(path)) {
		if extracted, err := ExtractText(path, content); err == nil {
			return documentBlobs(path, extracted), nil
		}
	}

	if isBinary(content) {
		return nil, nil
	}
	return []types.Blob{types.NewFileBlob(path, content)}, nil
}

func documentBlobs(path string, extracted []ExtractedContent) []types.Blob {
	blobs := make([]types.Blob, 0, len(extracted))
	for _, ec := range extracted {
		blobs = append(blobs, types.Blob{
			ID:      types.ComputeBlobID(ec.Content),
			Content: string(ec.Content),
			Provenance: types.DocumentProvenance{
				DocumentPath: path,
				MemberPath:   ec.Name,
			},
		})
	}
	return blobs
}

// shouldExtract checks if a document kind is enabled in config.
func shouldExtract(config Config, ext string) bool {
	kind := strings.TrimPrefix(ext, ".")
	for _, k := range config.Extract {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "all" && IsExtractable(ext) {
			return true
		}
		if k == kind {
			return true
		}
	}
	return false
}

// getExtension returns the lowercased file extension with its dot.
func getExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// isBinary detects if content is binary by checking first 8KB for null bytes.
func isBinary(content []byte) bool {
	checkSize := len(content)
	if checkSize > 8192 {
		checkSize = 8192
	}
	return bytes.IndexByte(content[:checkSize], 0) != -1
}
