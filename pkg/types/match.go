package types

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// RawMatch is a single pattern hit inside a blob, before boundary
// classification.
type RawMatch struct {
	BlobID       BlobID     `json:"blob_id"`
	Origin       string     `json:"origin"`
	StructuralID string     `json:"structural_id"` // SHA-1(signature_structural_id + '\0' + blob_id + '\0' + start + '\0' + end)
	Signature    *Signature `json:"signature"`
	Matched      string     `json:"matched"`
	Location     Location   `json:"location"`
}

// Match is a RawMatch plus its boundary classification.
// Bounded is true when the span is delimited by boundary runes (or the blob
// edges) on both sides.
type Match struct {
	RawMatch
	Bounded bool `json:"bounded"`
}

// ComputeStructuralID computes a location-based unique ID.
func (m *RawMatch) ComputeStructuralID() string {
	h := sha1.New()

	if m.Signature != nil {
		h.Write([]byte(m.Signature.StructuralID))
	}
	h.Write([]byte{0})

	h.Write(m.BlobID[:])
	h.Write([]byte{0})

	h.Write([]byte(strconv.Itoa(m.Location.Offset.Start)))
	h.Write([]byte{0})

	h.Write([]byte(strconv.Itoa(m.Location.Offset.End)))

	return hex.EncodeToString(h.Sum(nil))
}

// SignatureName returns the producing signature's name, or "" when unset.
func (m *RawMatch) SignatureName() string {
	if m.Signature == nil {
		return ""
	}
	return m.Signature.Name
}

// Rarity returns the producing signature's rarity.
func (m *RawMatch) Rarity() float64 {
	if m.Signature == nil {
		return 0
	}
	return m.Signature.Rarity
}

// Tags returns the producing signature's tags.
func (m *RawMatch) Tags() []string {
	if m.Signature == nil {
		return nil
	}
	return m.Signature.Tags
}
