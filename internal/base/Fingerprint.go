package base

import (
	"encoding/hex"

	"github.com/minio/sha256-simd"
)

// Fingerprint identifies the shape of the persisted node-graph schema, grounded
// on the teacher's internal/base/Fingerprint.go (same sha256-simd package, same
// fixed-size array type) but narrowed to a single use: detecting when the cache
// file format described by spec.md §6 ("Format is versioned; a mismatch
// discards the cache") no longer matches what this binary can load.
type Fingerprint [sha256.Size]byte

func ComputeFingerprint(parts ...string) Fingerprint {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	var result Fingerprint
	copy(result[:], h.Sum(nil))
	return result
}

func (x Fingerprint) String() string {
	return hex.EncodeToString(x[:])
}
func (x Fingerprint) Equals(o Fingerprint) bool {
	return x == o
}
