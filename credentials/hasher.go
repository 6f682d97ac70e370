package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength = 16
	iterations = 100_000
	keyLength  = 32
	separator  = ":"
)

// Hasher turns plaintext passwords into storable salted digests of the form
// "salt_hex:hash_hex" and verifies plaintexts against them. The digest is a
// PBKDF2-SHA256 derivation of the password with a fresh per-call salt, so the
// same password hashed twice never yields the same digest.
type Hasher struct{}

func NewHasher() Hasher {
	return Hasher{}
}

// Hash returns the salted digest for password. It fails only if the entropy
// source does; empty-password policy is left to the caller.
func (Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "[Hasher.Hash] rand.Read")
	}

	hash := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
	return hex.EncodeToString(salt) + separator + hex.EncodeToString(hash), nil
}

// Verify reports whether password matches digest. A malformed digest verifies
// false rather than failing; a broken stored record must never read as
// "password accepted". The comparison is constant-time.
func (Hasher) Verify(password, digest string) bool {
	saltHex, hashHex, found := strings.Cut(digest, separator)
	if !found {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	stored, err := hex.DecodeString(hashHex)
	if err != nil || len(stored) == 0 {
		return false
	}

	computed := pbkdf2.Key([]byte(password), salt, iterations, len(stored), sha256.New)
	return subtle.ConstantTimeCompare(computed, stored) == 1
}
