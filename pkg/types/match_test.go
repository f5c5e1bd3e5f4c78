package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawMatch_ComputeStructuralID(t *testing.T) {
	sig := &Signature{Name: "Email", Pattern: `\S+@\S+`}
	sig.StructuralID = sig.ComputeStructuralID()

	m := RawMatch{
		BlobID:    ComputeBlobID([]byte("a@b.c")),
		Signature: sig,
		Location:  Location{Offset: OffsetSpan{Start: 0, End: 5}},
	}
	id := m.ComputeStructuralID()
	assert.Len(t, id, 40)
	assert.Equal(t, id, m.ComputeStructuralID())

	moved := m
	moved.Location.Offset = OffsetSpan{Start: 1, End: 5}
	assert.NotEqual(t, id, moved.ComputeStructuralID())
}

func TestRawMatch_SignatureAccessors(t *testing.T) {
	var empty RawMatch
	assert.Equal(t, "", empty.SignatureName())
	assert.Equal(t, 0.0, empty.Rarity())
	assert.Nil(t, empty.Tags())

	m := Match{
		RawMatch: RawMatch{Signature: &Signature{Name: "IPv4", Rarity: 0.5, Tags: []string{"Networking"}}},
		Bounded:  true,
	}
	assert.Equal(t, "IPv4", m.SignatureName())
	assert.Equal(t, 0.5, m.Rarity())
	assert.Equal(t, []string{"Networking"}, m.Tags())
}
