package catalog

import (
	"errors"
	"testing"

	"github.com/praetorian-inc/what/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSignatures() []*types.Signature {
	return []*types.Signature{
		{Name: "Alpha", Pattern: `a+`, Rarity: 0.5, Tags: []string{"Letters", "Credentials"}},
		{Name: "Digits", Pattern: `\d+`, Rarity: 0.1, Tags: []string{"numbers"}},
		{Name: "Beta", Pattern: `b+`, Rarity: 1, Tags: []string{"letters"}},
	}
}

func TestNew_AssignsIndexesInOrder(t *testing.T) {
	c, err := New(testSignatures())
	require.NoError(t, err)

	sigs := c.Signatures()
	require.Len(t, sigs, 3)
	for i, sig := range sigs {
		assert.Equal(t, i, sig.Index)
		assert.NotEmpty(t, sig.StructuralID)
	}
	assert.Equal(t, "Alpha", sigs[0].Name)
	assert.Equal(t, "Beta", sigs[2].Name)
	assert.Equal(t, 3, c.Len())
}

func TestNew_SignaturesReturnsCopy(t *testing.T) {
	c, err := New(testSignatures())
	require.NoError(t, err)

	sigs := c.Signatures()
	sigs[0] = nil
	assert.NotNil(t, c.Signatures()[0])
}

func TestNew_Empty(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestNew_DuplicateName(t *testing.T) {
	sigs := testSignatures()
	sigs = append(sigs, &types.Signature{Name: "Alpha", Pattern: `x`, Rarity: 0.5})

	_, err := New(sigs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "Alpha", le.Signature)
}

func TestNew_InvalidSignatures(t *testing.T) {
	tests := []struct {
		name string
		sig  *types.Signature
		want error
	}{
		{"nil", nil, ErrMalformed},
		{"missing name", &types.Signature{Pattern: `x`, Rarity: 0.5}, ErrMissingField},
		{"missing pattern", &types.Signature{Name: "x", Rarity: 0.5}, ErrMissingField},
		{"rarity above one", &types.Signature{Name: "x", Pattern: `x`, Rarity: 1.5}, ErrInvalidRarity},
		{"negative rarity", &types.Signature{Name: "x", Pattern: `x`, Rarity: -0.1}, ErrInvalidRarity},
		{"bad pattern", &types.Signature{Name: "x", Pattern: `(unclosed`, Rarity: 0.5}, ErrInvalidPattern},
		{"empty tag", &types.Signature{Name: "x", Pattern: `x`, Rarity: 0.5, Tags: []string{" "}}, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]*types.Signature{tt.sig})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCatalog_Tags(t *testing.T) {
	c, err := New(testSignatures())
	require.NoError(t, err)

	// "letters" collapses into the first spelling seen.
	assert.Equal(t, []string{"Credentials", "Letters", "numbers"}, c.Tags())
}

func TestCatalog_HasTag_CaseInsensitive(t *testing.T) {
	c, err := New(testSignatures())
	require.NoError(t, err)

	assert.True(t, c.HasTag("credentials"))
	assert.True(t, c.HasTag("NUMBERS"))
	assert.False(t, c.HasTag("aws"))
}

func TestCatalog_Lookup(t *testing.T) {
	c, err := New(testSignatures())
	require.NoError(t, err)

	sig, ok := c.Lookup("Digits")
	require.True(t, ok)
	assert.Equal(t, 1, sig.Index)

	_, ok = c.Lookup("digits")
	assert.False(t, ok)
}

func TestLoadError_Error(t *testing.T) {
	tests := []struct {
		err  *LoadError
		want string
	}{
		{&LoadError{Err: ErrEmpty}, "loading catalog: catalog has no signatures"},
		{&LoadError{Source: "a.yml", Err: ErrEmpty}, "loading catalog: a.yml: catalog has no signatures"},
		{&LoadError{Signature: "X", Err: ErrDuplicateName}, `loading catalog: signature "X": duplicate signature name`},
		{&LoadError{Source: "a.yml", Signature: "X", Err: ErrDuplicateName}, `loading catalog: a.yml: signature "X": duplicate signature name`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestNew_DoesNotModifyInput(t *testing.T) {
	src, err := New(testSignatures())
	require.NoError(t, err)

	sigs := src.Signatures()
	reversed := make([]*types.Signature, len(sigs))
	for i, sig := range sigs {
		reversed[len(sigs)-1-i] = sig
	}

	c, err := New(reversed)
	require.NoError(t, err)

	for i, sig := range src.Signatures() {
		assert.Equal(t, i, sig.Index, sig.Name)
	}
	for i, sig := range c.Signatures() {
		assert.Equal(t, i, sig.Index, sig.Name)
		assert.Equal(t, reversed[i].Name, sig.Name)
	}

	alpha, ok := c.Lookup("Alpha")
	require.True(t, ok)
	assert.Equal(t, 2, alpha.Index)
	alpha, ok = src.Lookup("Alpha")
	require.True(t, ok)
	assert.Equal(t, 0, alpha.Index)
}
