package passwords

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcryptSHA256 = "bcrypt_sha256"

	defaultBcryptCost = 12
)

// BcryptSHA256 runs bcrypt over the hex SHA-256 digest of the password, which
// lifts bcrypt's 72-byte input limit. Encoded as "bcrypt_sha256$<bcrypt hash>".
type BcryptSHA256 struct {
	cost int
}

// NewBcryptSHA256 returns a hasher with the given cost; cost <= 0 uses the default.
func NewBcryptSHA256(cost int) *BcryptSHA256 {
	if cost <= 0 {
		cost = defaultBcryptCost
	}
	return &BcryptSHA256{cost: cost}
}

func (b *BcryptSHA256) Algorithm() string { return AlgorithmBcryptSHA256 }

func (b *BcryptSHA256) Encode(password string) (string, error) {
	data, err := bcrypt.GenerateFromPassword(prehash(password), b.cost)
	if err != nil {
		return "", err
	}
	return AlgorithmBcryptSHA256 + "$" + string(data), nil
}

func (b *BcryptSHA256) Verify(password, encoded string) (bool, error) {
	data, ok := strings.CutPrefix(encoded, AlgorithmBcryptSHA256+"$")
	if !ok || data == "" {
		return false, ErrInvalidHash
	}
	err := bcrypt.CompareHashAndPassword([]byte(data), prehash(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}

// Outdated reports whether encoded used a lower cost than configured.
func (b *BcryptSHA256) Outdated(encoded string) bool {
	data, _ := strings.CutPrefix(encoded, AlgorithmBcryptSHA256+"$")
	cost, err := bcrypt.Cost([]byte(data))
	if err != nil {
		return true
	}
	return cost < b.cost
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}
