package sarif

import (
	"encoding/json"
	"testing"

	"github.com/praetorian-inc/what/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emailSig = &types.Signature{
	Name:        "Email Address",
	Rarity:      0.5,
	Tags:        []string{"Identifiers", "Email"},
	Description: "An email address",
	URL:         "mailto:",
}

func testMatch(sig *types.Signature, matched string, bounded bool) *types.Match {
	return &types.Match{
		RawMatch: types.RawMatch{
			Origin:       "/path/to/notes.txt",
			StructuralID: "abc123",
			Signature:    sig,
			Matched:      matched,
			Location: types.Location{
				Offset: types.OffsetSpan{Start: 100, End: 100 + len(matched)},
				Source: types.SourceSpan{
					Start: types.SourcePoint{Line: 10, Column: 5},
					End:   types.SourcePoint{Line: 10, Column: 5 + len(matched)},
				},
			},
		},
		Bounded: bounded,
	}
}

func TestNewReport(t *testing.T) {
	report := NewReport("1.2.3")

	assert.Equal(t, SchemaURI, report.Schema)
	assert.Equal(t, Version, report.Version)
	require.Len(t, report.Runs, 1)
	assert.Equal(t, ToolName, report.Runs[0].Tool.Driver.Name)
	assert.Equal(t, "1.2.3", report.Runs[0].Tool.Driver.Version)
}

func TestRuleID(t *testing.T) {
	tests := map[string]string{
		"Email Address":                     "what/email-address",
		"Bitcoin (₿) Wallet Address":        "what/bitcoin-wallet-address",
		"Latitude & Longitude Coordinates":  "what/latitude-longitude-coordinates",
		"Internet Protocol (IP) Address V4": "what/internet-protocol-ip-address-v4",
		"SHA-256 Hash":                      "what/sha-256-hash",
	}
	for name, want := range tests {
		assert.Equal(t, want, RuleID(name), name)
	}
}

func TestAddRule(t *testing.T) {
	report := NewReport("dev")

	assert.Equal(t, 0, report.AddRule(emailSig))
	assert.Equal(t, 0, report.AddRule(emailSig), "duplicate signatures are registered once")

	rules := report.Runs[0].Tool.Driver.Rules
	require.Len(t, rules, 1)
	assert.Equal(t, "what/email-address", rules[0].ID)
	assert.Equal(t, "Email Address", rules[0].Name)
	assert.Equal(t, "An email address", rules[0].ShortDescription.Text)
	assert.Equal(t, "mailto:", rules[0].HelpURI)
	assert.Equal(t, []string{"Identifiers", "Email"}, rules[0].Properties.Tags)
	assert.Equal(t, 0.5, rules[0].Properties.Rarity)
}

func TestAddRule_DescriptionFallsBackToName(t *testing.T) {
	report := NewReport("dev")
	report.AddRule(&types.Signature{Name: "MAC Address"})
	assert.Equal(t, "MAC Address", report.Runs[0].Tool.Driver.Rules[0].ShortDescription.Text)
}

func TestAddResult(t *testing.T) {
	report := NewReport("dev")
	report.AddResult(testMatch(emailSig, "bee@example.com", true), "/path/to/notes.txt")

	require.Len(t, report.Runs[0].Results, 1)
	result := report.Runs[0].Results[0]
	assert.Equal(t, "what/email-address", result.RuleID)
	assert.Equal(t, 0, result.RuleIndex)
	assert.Equal(t, LevelBounded, result.Level)
	assert.Equal(t, "Email Address: bee@example.com", result.Message.Text)
	assert.Equal(t, "abc123", result.PartialFingerprints["structuralId/v1"])

	location := result.Locations[0].PhysicalLocation
	assert.Equal(t, "file:///path/to/notes.txt", location.ArtifactLocation.URI)
	assert.Equal(t, 10, location.Region.StartLine)
	assert.Equal(t, 5, location.Region.StartColumn)
	assert.Equal(t, 20, location.Region.EndColumn)
	require.NotNil(t, location.Region.Snippet)
	assert.Equal(t, "bee@example.com", location.Region.Snippet.Text)

	assert.Len(t, report.Runs[0].Tool.Driver.Rules, 1, "result registers its rule")
}

func TestAddResult_BoundarylessIsNote(t *testing.T) {
	report := NewReport("dev")
	report.AddResult(testMatch(emailSig, "x@y.z", false), "text")
	assert.Equal(t, LevelBoundaryless, report.Runs[0].Results[0].Level)
}

func TestAddResult_NoSignature(t *testing.T) {
	report := NewReport("dev")
	report.AddResult(&types.Match{}, "text")
	assert.Empty(t, report.Runs[0].Results)
}

func TestFromMatches(t *testing.T) {
	ipSig := &types.Signature{Name: "IPv4", Rarity: 0.5}
	matches := []*types.Match{
		testMatch(emailSig, "a@b.co", true),
		testMatch(ipSig, "10.0.0.1", true),
		testMatch(emailSig, "c@d.co", false),
	}

	report := FromMatches(matches, "dev")
	assert.Len(t, report.Runs[0].Tool.Driver.Rules, 2)
	require.Len(t, report.Runs[0].Results, 3)
	assert.Equal(t, []int{0, 1, 0}, []int{
		report.Runs[0].Results[0].RuleIndex,
		report.Runs[0].Results[1].RuleIndex,
		report.Runs[0].Results[2].RuleIndex,
	})
}

func TestToJSON(t *testing.T) {
	report := FromMatches([]*types.Match{testMatch(emailSig, "a@b.co", true)}, "dev")

	jsonBytes, err := report.ToJSON()
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonBytes, &parsed))
	assert.Equal(t, SchemaURI, parsed["$schema"])
	assert.Equal(t, Version, parsed["version"])
}

func TestRelativePathConversion(t *testing.T) {
	report := NewReport("dev")
	m := testMatch(emailSig, "a@b.co", true)

	report.AddResult(m, "/absolute/path/file.txt")
	assert.Equal(t, "file:///absolute/path/file.txt", report.Runs[0].Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)

	report.AddResult(m, "relative/path/file.txt")
	assert.Equal(t, "relative/path/file.txt", report.Runs[0].Results[1].Locations[0].PhysicalLocation.ArtifactLocation.URI)
}
