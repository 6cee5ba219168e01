package passwords

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	AlgorithmScrypt = "scrypt"

	scryptKeyLength = 64
	maxScryptN      = 1 << 20
)

// ScryptParams tunes the scrypt hasher. Zero fields take the defaults.
type ScryptParams struct {
	N int
	R int
	P int
}

func (p ScryptParams) withDefaults() ScryptParams {
	if p.N == 0 {
		p.N = 1 << 14
	}
	if p.R == 0 {
		p.R = 8
	}
	if p.P == 0 {
		p.P = 1
	}
	return p
}

// Scrypt encodes hashes as "scrypt$<salt>$<N>$<r>$<p>$<base64 key>".
type Scrypt struct {
	params ScryptParams
}

// NewScrypt returns a scrypt hasher.
func NewScrypt(params ScryptParams) *Scrypt {
	return &Scrypt{params: params.withDefaults()}
}

func (s *Scrypt) Algorithm() string { return AlgorithmScrypt }

func (s *Scrypt) Encode(password string) (string, error) {
	salt, err := randomSalt()
	if err != nil {
		return "", err
	}
	return s.encode(password, salt, s.params)
}

func (s *Scrypt) encode(password, salt string, p ScryptParams) (string, error) {
	key, err := scrypt.Key([]byte(password), []byte(salt), p.N, p.R, p.P, scryptKeyLength)
	if err != nil {
		return "", fmt.Errorf("scrypt: %w", err)
	}
	return fmt.Sprintf("%s$%s$%d$%d$%d$%s",
		AlgorithmScrypt, salt, p.N, p.R, p.P, base64.StdEncoding.EncodeToString(key)), nil
}

func (s *Scrypt) Verify(password, encoded string) (bool, error) {
	salt, params, err := decodeScrypt(encoded)
	if err != nil {
		return false, err
	}
	if params.N > maxScryptN {
		return false, ErrInvalidHash
	}
	candidate, err := s.encode(password, salt, params)
	if err != nil {
		return false, ErrInvalidHash
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(encoded)) == 1, nil
}

// Outdated reports whether encoded used weaker parameters than configured.
func (s *Scrypt) Outdated(encoded string) bool {
	_, params, err := decodeScrypt(encoded)
	if err != nil {
		return true
	}
	return params.N < s.params.N || params.R < s.params.R || params.P < s.params.P
}

func decodeScrypt(encoded string) (string, ScryptParams, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != AlgorithmScrypt || parts[1] == "" {
		return "", ScryptParams{}, ErrInvalidHash
	}
	var p ScryptParams
	for i, dst := range []*int{&p.N, &p.R, &p.P} {
		v, err := strconv.Atoi(parts[2+i])
		if err != nil || v <= 0 {
			return "", ScryptParams{}, ErrInvalidHash
		}
		*dst = v
	}
	return parts[1], p, nil
}
