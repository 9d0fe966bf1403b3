package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// DeriveSeed maps (runID, stream name, base seed) to a stable int64 seed.
// Worker goroutines draw from per-event streams derived this way, so batch
// results do not depend on scheduling order.
func DeriveSeed(runID RunID, stream string, baseSeed int64) int64 {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", runID, stream, baseSeed)))
	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	if seed < 0 {
		seed = -seed
	}
	return seed
}
