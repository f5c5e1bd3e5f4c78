package sarif

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/what/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version   = "2.1.0"
	ToolName  = "what"
)

// Result levels. Bounded matches stand alone in the input and are reported
// as warnings; boundaryless matches are embedded in longer words.
const (
	LevelBounded      = "warning"
	LevelBoundaryless = "note"
)

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`

	ruleIndex map[string]int
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes one signature
type Rule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription ShortDescription `json:"shortDescription"`
	HelpURI          string           `json:"helpUri,omitempty"`
	Properties       *RuleProperties  `json:"properties,omitempty"`
}

// RuleProperties is the property bag carried by each rule
type RuleProperties struct {
	Tags   []string `json:"tags,omitempty"`
	Rarity float64  `json:"rarity"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result represents a single identified match
type Result struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             Message           `json:"message"`
	Locations           []Location        `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region specifies the line/column range
type Region struct {
	StartLine   int      `json:"startLine"`
	StartColumn int      `json:"startColumn"`
	EndLine     int      `json:"endLine"`
	EndColumn   int      `json:"endColumn"`
	Snippet     *Snippet `json:"snippet,omitempty"`
}

// Snippet contains the matched text
type Snippet struct {
	Text string `json:"text"`
}

// NewReport creates a new SARIF report for the given tool version
func NewReport(toolVersion string) *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: toolVersion,
						Rules:   []Rule{},
					},
				},
				Results: []Result{},
			},
		},
		ruleIndex: make(map[string]int),
	}
}

// RuleID derives a stable rule ID from a signature name,
// e.g. "Email Address" becomes "what/email-address".
func RuleID(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return ToolName + "/" + strings.TrimSuffix(b.String(), "-")
}

// AddRule adds a signature to the report. Adding the same signature twice
// is a no-op. It returns the rule's index.
func (r *Report) AddRule(sig *types.Signature) int {
	if idx, ok := r.ruleIndex[sig.Name]; ok {
		return idx
	}

	text := sig.Description
	if text == "" {
		text = sig.Name
	}
	sarifRule := Rule{
		ID:   RuleID(sig.Name),
		Name: sig.Name,
		ShortDescription: ShortDescription{
			Text: text,
		},
		HelpURI: sig.URL,
		Properties: &RuleProperties{
			Tags:   sig.Tags,
			Rarity: sig.Rarity,
		},
	}

	driver := &r.Runs[0].Tool.Driver
	idx := len(driver.Rules)
	driver.Rules = append(driver.Rules, sarifRule)
	r.ruleIndex[sig.Name] = idx
	return idx
}

// AddResult adds a match to the report, registering its signature first
func (r *Report) AddResult(match *types.Match, filePath string) {
	if match.Signature == nil {
		return
	}
	ruleIdx := r.AddRule(match.Signature)

	region := Region{
		StartLine:   match.Location.Source.Start.Line,
		StartColumn: match.Location.Source.Start.Column,
		EndLine:     match.Location.Source.End.Line,
		EndColumn:   match.Location.Source.End.Column,
	}
	if match.Matched != "" {
		region.Snippet = &Snippet{Text: match.Matched}
	}

	level := LevelBoundaryless
	if match.Bounded {
		level = LevelBounded
	}

	result := Result{
		RuleID:    RuleID(match.Signature.Name),
		RuleIndex: ruleIdx,
		Level:     level,
		Message: Message{
			Text: fmt.Sprintf("%s: %s", match.Signature.Name, match.Matched),
		},
		Locations: []Location{
			{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{
						URI: formatFileURI(filePath),
					},
					Region: region,
				},
			},
		},
	}
	if match.StructuralID != "" {
		result.PartialFingerprints = map[string]string{"structuralId/v1": match.StructuralID}
	}

	r.Runs[0].Results = append(r.Runs[0].Results, result)
}

// FromMatches builds a report holding every match in order. Matches from
// text input are located at the artifact "text".
func FromMatches(matches []*types.Match, toolVersion string) *Report {
	r := NewReport(toolVersion)
	for _, m := range matches {
		r.AddResult(m, m.Origin)
	}
	return r
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		path = filepath.ToSlash(path)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	return filepath.ToSlash(path)
}
