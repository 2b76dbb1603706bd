package cover

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ContentHash fingerprints raw cover bytes for the cache's hash axis.
// blake2b is a repurposed teacher dependency (golang.org/x/crypto,
// originally used for bcrypt password hashing) — collision-resistant
// content addressing, not password storage.
func ContentHash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
