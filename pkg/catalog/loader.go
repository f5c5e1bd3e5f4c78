package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/praetorian-inc/what/pkg/types"
	"gopkg.in/yaml.v3"
)

// signaturesDir is the directory holding signature files inside the loader FS.
const signaturesDir = "signatures"

// Loader handles loading signatures from YAML files.
type Loader struct {
	fs fs.FS // embedded filesystem for built-in signatures
}

// NewLoader creates a loader with built-in signatures from embedded filesystem.
func NewLoader() *Loader {
	return &Loader{
		fs: builtinSignaturesFS,
	}
}

// NewLoaderWithFS creates a loader with a custom filesystem. Signature files
// are read from its "signatures" directory.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{
		fs: fsys,
	}
}

// ParseSignatures parses every signature in a YAML document.
// source names the document in errors.
func (l *Loader) ParseSignatures(data []byte, source string) ([]*types.Signature, error) {
	var file yamlSignaturesFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}

	sigs := make([]*types.Signature, 0, len(file.Signatures))
	for _, ys := range file.Signatures {
		sig, err := convertYAMLSignature(ys)
		if err != nil {
			var le *LoadError
			if errors.As(err, &le) {
				le.Source = source
			}
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

// LoadBytes builds a catalog from a single YAML document.
func (l *Loader) LoadBytes(data []byte, source string) (*Catalog, error) {
	sigs, err := l.ParseSignatures(data, source)
	if err != nil {
		return nil, err
	}
	return newWithSource(sigs, map[*types.Signature]string{}, source)
}

// LoadFile builds a catalog from a YAML file path.
func (l *Loader) LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: fmt.Errorf("reading file: %w", err)}
	}
	return l.LoadBytes(data, path)
}

// LoadPath builds a catalog from a YAML file or from every .yml/.yaml file
// under a directory, in lexical path order.
func (l *Loader) LoadPath(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	if !info.IsDir() {
		return l.LoadFile(path)
	}
	return l.loadFS(os.DirFS(path), ".", path)
}

// LoadBuiltin builds the catalog from the embedded signature files.
func (l *Loader) LoadBuiltin() (*Catalog, error) {
	return l.loadFS(l.fs, signaturesDir, "")
}

func (l *Loader) loadFS(fsys fs.FS, root, prefix string) (*Catalog, error) {
	var sigs []*types.Signature
	sources := make(map[*types.Signature]string)

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSignatureFile(path) {
			return nil
		}

		source := path
		if prefix != "" {
			source = filepath.Join(prefix, path)
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return &LoadError{Source: source, Err: fmt.Errorf("reading file: %w", err)}
		}

		parsed, err := l.ParseSignatures(data, source)
		if err != nil {
			return err
		}
		for _, sig := range parsed {
			sources[sig] = source
		}
		sigs = append(sigs, parsed...)
		return nil
	})
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, err
		}
		return nil, &LoadError{Source: prefix, Err: err}
	}

	return newWithSource(sigs, sources, prefix)
}

// newWithSource wraps New so load errors name the file a signature came from.
func newWithSource(sigs []*types.Signature, sources map[*types.Signature]string, fallback string) (*Catalog, error) {
	c, err := New(sigs)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Source == "" {
			le.Source = fallback
			for _, sig := range sigs {
				if sig != nil && sig.Name == le.Signature {
					if src, ok := sources[sig]; ok {
						le.Source = src
					}
				}
			}
		}
		return nil, err
	}
	return c, nil
}

func isSignatureFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

// convertYAMLSignature converts yamlSignature to types.Signature and
// computes StructuralID.
func convertYAMLSignature(ys yamlSignature) (*types.Signature, error) {
	sig := &types.Signature{
		Name:             strings.TrimSpace(ys.Name),
		Pattern:          strings.TrimRight(ys.Pattern, "\r\n"),
		Tags:             ys.Tags,
		Description:      ys.Description,
		URL:              ys.URL,
		Exploit:          ys.Exploit,
		Examples:         ys.Examples,
		NegativeExamples: ys.NegativeExamples,
		Keywords:         ys.Keywords,
		Connectors:       ys.Connectors,
	}
	if ys.Rarity == nil {
		return nil, &LoadError{Signature: sig.Name, Err: fmt.Errorf("%w: rarity", ErrMissingField)}
	}
	sig.Rarity = *ys.Rarity
	sig.StructuralID = sig.ComputeStructuralID()
	return sig, nil
}

var (
	builtinOnce    sync.Once
	builtinCatalog *Catalog
	builtinErr     error
)

// Builtin returns the embedded catalog, loading it once per process.
func Builtin() (*Catalog, error) {
	builtinOnce.Do(func() {
		builtinCatalog, builtinErr = NewLoader().LoadBuiltin()
	})
	return builtinCatalog, builtinErr
}
