package types

import "sort"

// LineIndex maps byte offsets to 1-based line and column numbers.
// Building it is a single pass over the content; lookups are a binary
// search over line starts.
type LineIndex struct {
	starts []int
	size   int
}

// NewLineIndex indexes the line starts of content.
func NewLineIndex(content string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, size: len(content)}
}

// Position returns the line and column of byteOffset. Columns count bytes.
// Offsets past the end are clamped to the end of content.
func (li *LineIndex) Position(byteOffset int) SourcePoint {
	if byteOffset < 0 {
		byteOffset = 0
	}
	if byteOffset > li.size {
		byteOffset = li.size
	}
	line := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > byteOffset
	}) - 1
	return SourcePoint{
		Line:   line + 1,
		Column: byteOffset - li.starts[line] + 1,
	}
}

// Span returns the source span of the byte range [start, end).
func (li *LineIndex) Span(start, end int) SourceSpan {
	return SourceSpan{Start: li.Position(start), End: li.Position(end)}
}
