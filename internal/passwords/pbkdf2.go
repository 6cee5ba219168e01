package passwords

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	AlgorithmPBKDF2SHA256 = "pbkdf2_sha256"
	AlgorithmPBKDF2SHA1   = "pbkdf2_sha1"

	defaultPBKDF2Iterations = 1_000_000

	// Upper bound accepted during Verify.
	maxPBKDF2Iterations = 10_000_000
)

// PBKDF2 encodes hashes as "<algorithm>$<iterations>$<salt>$<base64 key>".
type PBKDF2 struct {
	algorithm  string
	iterations int
	digest     func() hash.Hash
	keyLen     int
}

// NewPBKDF2SHA256 returns a PBKDF2-HMAC-SHA256 hasher; iterations <= 0 uses the default.
func NewPBKDF2SHA256(iterations int) *PBKDF2 {
	return newPBKDF2(AlgorithmPBKDF2SHA256, iterations, sha256.New, sha256.Size)
}

// NewPBKDF2SHA1 returns a PBKDF2-HMAC-SHA1 hasher; iterations <= 0 uses the default.
func NewPBKDF2SHA1(iterations int) *PBKDF2 {
	return newPBKDF2(AlgorithmPBKDF2SHA1, iterations, sha1.New, sha1.Size)
}

func newPBKDF2(alg string, iterations int, digest func() hash.Hash, keyLen int) *PBKDF2 {
	if iterations <= 0 {
		iterations = defaultPBKDF2Iterations
	}
	return &PBKDF2{algorithm: alg, iterations: iterations, digest: digest, keyLen: keyLen}
}

func (p *PBKDF2) Algorithm() string { return p.algorithm }

func (p *PBKDF2) Encode(password string) (string, error) {
	salt, err := randomSalt()
	if err != nil {
		return "", err
	}
	return p.encode(password, salt, p.iterations), nil
}

func (p *PBKDF2) encode(password, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, p.keyLen, p.digest)
	return fmt.Sprintf("%s$%d$%s$%s", p.algorithm, iterations, salt, base64.StdEncoding.EncodeToString(key))
}

func (p *PBKDF2) Verify(password, encoded string) (bool, error) {
	iterations, salt, _, err := p.decode(encoded)
	if err != nil {
		return false, err
	}
	candidate := p.encode(password, salt, iterations)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(encoded)) == 1, nil
}

// Outdated reports whether encoded used fewer iterations than configured.
func (p *PBKDF2) Outdated(encoded string) bool {
	iterations, _, _, err := p.decode(encoded)
	if err != nil {
		return true
	}
	return iterations < p.iterations
}

func (p *PBKDF2) decode(encoded string) (int, string, string, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != p.algorithm || parts[2] == "" {
		return 0, "", "", ErrInvalidHash
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 || iterations > maxPBKDF2Iterations {
		return 0, "", "", ErrInvalidHash
	}
	return iterations, parts[2], parts[3], nil
}
