package types

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
)

// BlobID identifies blob content. It is the Git blob hash of the content,
// so identical input always gets the same ID.
type BlobID [sha1.Size]byte

// ComputeBlobID hashes content as SHA-1("blob {len}\0{content}").
func ComputeBlobID(content []byte) BlobID {
	return computeBlobID(len(content), func(w io.Writer) { w.Write(content) })
}

// ComputeTextBlobID is ComputeBlobID for string content, without copying it.
func ComputeTextBlobID(content string) BlobID {
	return computeBlobID(len(content), func(w io.Writer) { io.WriteString(w, content) })
}

func computeBlobID(n int, write func(io.Writer)) BlobID {
	h := sha1.New()
	io.WriteString(h, "blob "+strconv.Itoa(n)+"\x00")
	write(h)

	var id BlobID
	h.Sum(id[:0])
	return id
}

// Hex returns the 40-character lowercase hex form.
func (id BlobID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id BlobID) String() string {
	return id.Hex()
}

// IsZero reports whether id is unset.
func (id BlobID) IsZero() bool {
	return id == BlobID{}
}

// ParseBlobID parses the hex form produced by Hex. Case is ignored.
func ParseBlobID(s string) (BlobID, error) {
	var id BlobID
	if len(s) != hex.EncodedLen(len(id)) {
		return BlobID{}, fmt.Errorf("invalid blob ID length: expected %d, got %d", hex.EncodedLen(len(id)), len(s))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return BlobID{}, fmt.Errorf("invalid blob ID %q: %w", s, err)
	}
	return id, nil
}

// MarshalText encodes the ID as hex, so it appears as a string in JSON.
func (id BlobID) MarshalText() ([]byte, error) {
	return []byte(id.Hex()), nil
}

// UnmarshalText decodes the hex form.
func (id *BlobID) UnmarshalText(text []byte) error {
	parsed, err := ParseBlobID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
