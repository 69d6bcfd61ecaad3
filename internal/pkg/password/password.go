package password

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// cost is the bcrypt work factor. Every call site (account creation, reset,
// login) must hash with the same cost so no code path is distinguishable by
// timing.
const cost = bcrypt.DefaultCost

// Hash produces a salted bcrypt hash of plaintext. Empty input is rejected
// before any hashing happens.
func Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("password must not be empty: %w", domain.ErrInvalidInput)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plaintext matches the stored hash. It never returns
// an error; any failure (including a malformed hash) is a non-match. bcrypt's
// comparison is constant-time over the digest.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// tempAlphabet deliberately omits look-alike characters (0/O, 1/l/I) since
// temporary passwords are transcribed from an email.
const tempAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Temporary generates a random temporary password of length n.
func Temporary(n int) (string, error) {
	if n < 8 {
		n = 8
	}
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate temporary password: %w", err)
		}
		b[i] = tempAlphabet[idx.Int64()]
	}
	return string(b), nil
}
