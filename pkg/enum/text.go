package enum

import (
	"context"

	"github.com/praetorian-inc/what/pkg/types"
)

// TextEnumerator yields caller-supplied strings as text blobs.
type TextEnumerator struct {
	texts []string
	label string
}

// NewTextEnumerator creates an enumerator over texts.
func NewTextEnumerator(texts ...string) *TextEnumerator {
	return &TextEnumerator{texts: texts}
}

// WithLabel names the provenance of every yielded blob, e.g. "stdin".
func (e *TextEnumerator) WithLabel(label string) *TextEnumerator {
	e.label = label
	return e
}

// Enumerate yields one blob per text.
func (e *TextEnumerator) Enumerate(ctx context.Context, callback func(blob types.Blob) error) error {
	for _, text := range e.texts {
		if err := ctx.Err(); err != nil {
			return err
		}
		blob := types.NewTextBlob(text)
		if e.label != "" {
			blob.Provenance = types.TextProvenance{Label: e.label}
		}
		if err := callback(blob); err != nil {
			return err
		}
	}
	return nil
}
