package object

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

const hashMultiplier = 31

// CommitID derives a commit id from its parent id, timestamp and message.
// The three inputs are folded into one 64-bit value by polynomial
// accumulation, and the SHA-256 of that value's decimal text is the id.
//
// File content is not an input: two commits sharing parent, timestamp and
// message share an id.
func CommitID(parent Hash, timestamp int64, message string) Hash {
	var acc int64 = 1
	acc = hashMultiplier*acc + stringHash(string(parent))
	acc = hashMultiplier*acc + timestamp
	acc = hashMultiplier*acc + stringHash(message)
	return HashBytes([]byte(strconv.FormatInt(acc, 10)))
}

// HashBytes computes the raw SHA-256 hash of data and returns it as a
// lowercase hex-encoded Hash.
func HashBytes(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// stringHash is s[0]*31^(n-1) + ... + s[n-1] with wrapping arithmetic.
// The empty string hashes to 0.
func stringHash(s string) int64 {
	var h int64
	for i := 0; i < len(s); i++ {
		h = hashMultiplier*h + int64(s[i])
	}
	return h
}
