package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature_ComputeStructuralID(t *testing.T) {
	sig := Signature{Name: "AWS Access Key", Pattern: `AKIA[0-9A-Z]{16}`}
	id := sig.ComputeStructuralID()
	assert.Len(t, id, 40)

	same := Signature{Name: "Other Name", Pattern: `AKIA[0-9A-Z]{16}`}
	assert.Equal(t, id, same.ComputeStructuralID())

	different := Signature{Name: "AWS Access Key", Pattern: `AKIA[0-9A-Z]{17}`}
	assert.NotEqual(t, id, different.ComputeStructuralID())
}

func TestSignature_Compile(t *testing.T) {
	sig := Signature{Name: "Flag", Pattern: `HTB\{[^}]+\}`}
	re, err := sig.Compile()
	require.NoError(t, err)

	m, err := re.FindStringMatch("found HTB{flag} here")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "HTB{flag}", m.String())

	lookbehind := Signature{Name: "Lookbehind", Pattern: `(?<=key=)[a-z]+`}
	_, err = lookbehind.Compile()
	assert.NoError(t, err)

	broken := Signature{Name: "Broken", Pattern: `(unclosed`}
	_, err = broken.Compile()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"Broken"`)
}

func TestSignature_HasTag(t *testing.T) {
	sig := Signature{Tags: []string{"Credentials", "AWS"}}
	assert.True(t, sig.HasTag("credentials"))
	assert.True(t, sig.HasTag("aws"))
	assert.False(t, sig.HasTag("crypto"))
}

func TestSignature_LookupURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"", ""},
		{"https://www.blockchain.com/btc/address/", "https://www.blockchain.com/btc/address/abc"},
		{"https://search.example/?q=", "https://search.example/?q=abc"},
		{"https://docs.example/token", "https://docs.example/token"},
	}

	for _, tt := range tests {
		sig := Signature{URL: tt.url}
		assert.Equal(t, tt.expected, sig.LookupURL("abc"))
	}
}
