package enum

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractedContent is text pulled out of one part of a document.
type ExtractedContent struct {
	Name    string // part within the document (e.g., "word/document.xml")
	Content []byte // extracted text
}

type extractFunc func(content []byte) ([]ExtractedContent, error)

var extractors = map[string]extractFunc{
	".docx": extractDOCX,
	".pdf":  extractPDF,
	".xlsx": extractXLSX,
}

// ExtractKinds returns the document kinds text can be extracted from.
func ExtractKinds() []string {
	kinds := make([]string, 0, len(extractors))
	for ext := range extractors {
		kinds = append(kinds, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(kinds)
	return kinds
}

// IsExtractable reports whether ext (with its dot) names a supported document kind.
func IsExtractable(ext string) bool {
	_, ok := extractors[strings.ToLower(ext)]
	return ok
}

// ExtractText extracts text from supported documents (docx, pdf, xlsx).
func ExtractText(name string, content []byte) ([]ExtractedContent, error) {
	ext := strings.ToLower(filepath.Ext(name))
	extract, ok := extractors[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
	return extract(content)
}

// extractXLSX extracts shared strings and inline sheet text from a workbook.
func extractXLSX(content []byte) ([]ExtractedContent, error) {
	return extractZipParts(content, "xlsx", func(name string) bool {
		if name == "xl/sharedStrings.xml" {
			return true
		}
		return strings.HasPrefix(name, "xl/worksheets/sheet") && path.Ext(name) == ".xml"
	})
}

// extractDOCX extracts the body text of a Word document.
func extractDOCX(content []byte) ([]ExtractedContent, error) {
	return extractZipParts(content, "docx", func(name string) bool {
		return name == "word/document.xml"
	})
}

// extractZipParts collects the text of every XML part of an OOXML package
// accepted by want. Unreadable parts are skipped.
func extractZipParts(content []byte, kind string, want func(name string) bool) ([]ExtractedContent, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s as zip: %w", kind, err)
	}

	var results []ExtractedContent
	for _, file := range zipReader.File {
		if !want(file.Name) {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		if text := extractXMLText(data); len(text) > 0 {
			results = append(results, ExtractedContent{
				Name:    file.Name,
				Content: []byte(text),
			})
		}
	}
	return results, nil
}

// extractPDF extracts the plain text of every page, one page per line group.
func extractPDF(content []byte) ([]ExtractedContent, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	extracted := text.String()
	if strings.TrimSpace(extracted) == "" {
		return nil, nil
	}
	return []ExtractedContent{{Name: "content", Content: []byte(extracted)}}, nil
}

// extractXMLText joins the non-blank text nodes of an XML document with spaces.
func extractXMLText(data []byte) string {
	var text strings.Builder
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if cd, ok := token.(xml.CharData); ok {
			content := string(cd)
			if strings.TrimSpace(content) == "" {
				continue
			}
			if text.Len() > 0 {
				text.WriteString(" ")
			}
			text.WriteString(cleanText(content))
		}
	}

	return text.String()
}

// cleanText collapses whitespace runs and drops non-printable characters.
func cleanText(s string) string {
	var result strings.Builder
	lastSpace := false

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace {
				result.WriteRune(' ')
				lastSpace = true
			}
		case unicode.IsPrint(r):
			result.WriteRune(r)
			lastSpace = false
		}
	}

	return strings.TrimSpace(result.String())
}
