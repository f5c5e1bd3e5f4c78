package boundary

import (
	"strings"
	"testing"

	"github.com/praetorian-inc/what/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawAt(content, matched string, sig *types.Signature) *types.RawMatch {
	start := strings.Index(content, matched)
	return &types.RawMatch{
		Signature: sig,
		Matched:   matched,
		Location: types.Location{
			Offset: types.OffsetSpan{Start: start, End: start + len(matched)},
		},
	}
}

func TestClassify_EmbeddedVersusStandalone(t *testing.T) {
	c := New()
	sig := &types.Signature{Name: "Toy", Pattern: `1A1`}

	embedded := c.Classify(rawAt("abc1A1xyz", "1A1", sig), "abc1A1xyz")
	assert.False(t, embedded.Bounded)

	standalone := c.Classify(rawAt(" 1A1 ", "1A1", sig), " 1A1 ")
	assert.True(t, standalone.Bounded)
}

func TestIsBounded(t *testing.T) {
	tests := []struct {
		name    string
		content string
		matched string
		extra   string
		want    bool
	}{
		{"whole blob", "1A1", "1A1", "", true},
		{"start of blob", "1A1 rest", "1A1", "", true},
		{"end of blob", "rest 1A1", "1A1", "", true},
		{"letter before", "x1A1 ", "1A1", "", false},
		{"digit after", " 1A12", "1A1", "", false},
		{"punctuation", "(1A1).", "1A1", "", true},
		{"default connector", "_1A1", "1A1", "", false},
		{"dash is a boundary by default", "key-1A1-x", "1A1", "", true},
		{"signature connector", "key-1A1", "1A1", "-", false},
		{"unicode letter", "é1A1", "1A1", "", false},
		{"unicode digit", "1A1٣", "1A1", "", false},
		{"unicode punctuation", "«1A1»", "1A1", "", true},
		{"newline", "a\n1A1\nb", "1A1", "", true},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := strings.Index(tt.content, tt.matched)
			require.GreaterOrEqual(t, start, 0)
			got := c.IsBounded(tt.content, start, start+len(tt.matched), tt.extra)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_SignatureConnectors(t *testing.T) {
	c := New()
	content := "a-123e4567-e89b-42d3-a456-426614174000"
	uuid := "123e4567-e89b-42d3-a456-426614174000"

	plain := c.Classify(rawAt(content, uuid, &types.Signature{Name: "UUID"}), content)
	assert.True(t, plain.Bounded)

	withDash := c.Classify(rawAt(content, uuid, &types.Signature{Name: "UUID", Connectors: "-"}), content)
	assert.False(t, withDash.Bounded)
}

func TestWithConnectors(t *testing.T) {
	c := New(WithConnectors(""))
	assert.Equal(t, "", c.Connectors())
	assert.True(t, c.IsBounded("_1A1_", 1, 4, ""))

	c = New(WithConnectors("_."))
	assert.False(t, c.IsBounded("1.1A1", 2, 5, ""))
	assert.Equal(t, DefaultConnectors, New().Connectors())
}

func TestClassifyAll_PreservesOrderAndFields(t *testing.T) {
	c := New()
	content := "xx1A1 1A1"
	sig := &types.Signature{Name: "Toy"}
	raws := []*types.RawMatch{
		{Signature: sig, Matched: "1A1", Origin: "text", Location: types.Location{Offset: types.OffsetSpan{Start: 2, End: 5}}},
		{Signature: sig, Matched: "1A1", Origin: "text", Location: types.Location{Offset: types.OffsetSpan{Start: 6, End: 9}}},
	}

	got := c.ClassifyAll(raws, content)
	require.Len(t, got, 2)
	assert.False(t, got[0].Bounded)
	assert.True(t, got[1].Bounded)
	assert.Equal(t, raws[1].Location, got[1].Location)
	assert.Equal(t, "text", got[1].Origin)
}
