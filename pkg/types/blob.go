package types

// Blob is one unit of input text with its origin.
type Blob struct {
	ID         BlobID
	Content    string
	Provenance Provenance
}

// NewTextBlob wraps text supplied directly by the caller.
func NewTextBlob(content string) Blob {
	return Blob{
		ID:         ComputeTextBlobID(content),
		Content:    content,
		Provenance: TextProvenance{},
	}
}

// NewFileBlob wraps the content of a file.
func NewFileBlob(path string, content []byte) Blob {
	return Blob{
		ID:         ComputeBlobID(content),
		Content:    string(content),
		Provenance: FileProvenance{FilePath: path},
	}
}

// Origin returns the blob's display label.
func (b Blob) Origin() string {
	if b.Provenance == nil {
		return "text"
	}
	return b.Provenance.Path()
}

// IsText reports whether the blob came from direct text input.
func (b Blob) IsText() bool {
	return b.Provenance == nil || b.Provenance.Kind() == "text"
}
