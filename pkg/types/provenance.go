package types

import "fmt"

// Provenance tracks where a blob came from.
type Provenance interface {
	Kind() string
	// Path returns displayable origin
	Path() string
}

// TextProvenance for text passed directly by the caller.
type TextProvenance struct {
	// Label is an optional caller-supplied name, e.g. "argv" or "stdin".
	Label string
}

// Kind returns "text".
func (t TextProvenance) Kind() string {
	return "text"
}

// Path returns the label, or "text" when none was given.
func (t TextProvenance) Path() string {
	if t.Label == "" {
		return "text"
	}
	return t.Label
}

// FileProvenance for filesystem files.
type FileProvenance struct {
	FilePath string
}

// Kind returns "file".
func (f FileProvenance) Kind() string {
	return "file"
}

// Path returns the file path.
func (f FileProvenance) Path() string {
	return f.FilePath
}

// DocumentProvenance tracks text extracted from a binary document
// (pdf, docx, xlsx).
type DocumentProvenance struct {
	DocumentPath string // path to the document on disk
	MemberPath   string // part within the document (e.g., "xl/sharedStrings.xml")
}

// Kind returns "document".
func (d DocumentProvenance) Kind() string {
	return "document"
}

// Path returns the document path with member path.
func (d DocumentProvenance) Path() string {
	return fmt.Sprintf("%s:%s", d.DocumentPath, d.MemberPath)
}
