package utils

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// PasswordEncoder turns a plain password into the byte string stored in
// users.password.  The encoding is deterministic: the same input always
// yields the same bytes, so logins can match by equality and the store
// can keep passwords unique.
type PasswordEncoder struct {
	Iterations int    // pbkdf2 rounds; 0 stores the raw bytes
	Pepper     []byte // application-wide salt
	KeyLen     int    // derived key length in bytes
}

// NewPasswordEncoder returns an encoder deriving 16-byte keys.
func NewPasswordEncoder(iterations int, pepper string) PasswordEncoder {
	return PasswordEncoder{Iterations: iterations, Pepper: []byte(pepper), KeyLen: 16}
}

// Encode returns the stored form of plain.
func (e PasswordEncoder) Encode(plain string) []byte {
	if e.Iterations <= 0 {
		return []byte(plain)
	}
	keyLen := e.KeyLen
	if keyLen <= 0 {
		keyLen = 16
	}
	return pbkdf2.Key([]byte(plain), e.Pepper, e.Iterations, keyLen, sha256.New)
}
