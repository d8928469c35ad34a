package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher produces content fingerprints
type Hasher struct {
	length int // hex characters kept; 0 keeps the full digest
}

// NewHasher creates a hasher that truncates digests to length hex characters
func NewHasher(length int) *Hasher {
	return &Hasher{length: length}
}

// DefaultHasher returns a hasher producing 16-character fingerprints
func DefaultHasher() *Hasher {
	return NewHasher(16)
}

// Hash computes the SHA-256 fingerprint of data
func (h *Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	if h.length > 0 && h.length < len(digest) {
		return digest[:h.length]
	}
	return digest
}

// ETag returns a strong HTTP entity tag for data
func (h *Hasher) ETag(data []byte) string {
	return `"` + h.Hash(data) + `"`
}
