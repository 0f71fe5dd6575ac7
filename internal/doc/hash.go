package doc

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefix for content-addressed snapshot identity.
// Version suffix enables future algorithm migration.
const DomainSnapshot = "flatkey/snapshot/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SnapshotHash computes the content-addressed identity of a resolved run.
// The value is conventionally a Sequence of [key, value] pairs in emission
// order, so both content and ordering participate in the identity.
// The hash is stable across restarts given the same resolved output.
func SnapshotHash(v Value) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("SnapshotHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// MustSnapshotHash is like SnapshotHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSnapshotHash(v Value) string {
	h, err := SnapshotHash(v)
	if err != nil {
		panic(err)
	}
	return h
}
