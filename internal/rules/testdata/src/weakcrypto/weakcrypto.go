package weakcrypto

import (
	"crypto/des"
	"crypto/md5"
	"crypto/rc4"
	"crypto/sha1"
	"crypto/sha256"
)

func Sum(data []byte) []byte { return data }

func digests(data, key []byte) {
	_ = md5.Sum(data) // want `md5.Sum uses a broken cryptographic primitive`
	h := sha1.New()   // want `sha1.New uses a broken cryptographic primitive`
	h.Write(data)
	_ = sha256.Sum256(data)
	_ = Sum(data)
	_, _ = des.NewCipher(key[:8]) // want `des.NewCipher uses a broken cryptographic primitive`
	_, _ = rc4.NewCipher(key)     // want `rc4.NewCipher uses a broken cryptographic primitive`
}
