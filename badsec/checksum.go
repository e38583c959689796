package badsec

import (
	"crypto/sha256"
	"encoding/hex"
)

// ChecksumPath is the path segment the checksum is always computed over.
const ChecksumPath = "users"

// Checksum returns the lowercase hex SHA-256 of token + "/users".
func Checksum(token string) string {
	sum := sha256.Sum256([]byte(token + "/" + ChecksumPath))
	return hex.EncodeToString(sum[:])
}
