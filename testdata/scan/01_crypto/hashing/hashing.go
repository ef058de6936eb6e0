package hashing

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
)

// Legacy returns the MD5 digest used by the old cache layout.
func Legacy(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
