package project

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Hex renders the digest in lowercase hex.
func (d Digest) Hex() string { return hex.EncodeToString(d[:]) }

// PathKey hashes the absolute, cleaned form of path. The parse cache uses it
// as the entry key.
func PathKey(path string) Digest {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return sha256.Sum256([]byte(filepath.Clean(path)))
}

// Combine hashes a sequence of digests in order: H(d1 || d2 || ...).
func Combine(parts ...Digest) Digest {
	h := sha256.New()
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
