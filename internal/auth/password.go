package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// PasswordDigester computes the one-way credential digest stored in the
// users table. The digest is deterministic per deployment (PBKDF2-SHA256
// with an application-wide pepper) so authentication stays a single
// parameterized (code, digest) lookup.
type PasswordDigester struct {
	pepper     []byte
	iterations int
}

const digestKeyLen = 32

func NewPasswordDigester(pepper string, iterations int) *PasswordDigester {
	if iterations <= 0 {
		iterations = 60000
	}
	return &PasswordDigester{
		pepper:     []byte(pepper),
		iterations: iterations,
	}
}

// Digest returns the hex-encoded digest of rawPassword. The same function is
// used at user creation, password change, and login.
func (d *PasswordDigester) Digest(rawPassword string) string {
	key := pbkdf2.Key([]byte(rawPassword), d.pepper, d.iterations, digestKeyLen, sha256.New)
	return hex.EncodeToString(key)
}
