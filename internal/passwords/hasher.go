package passwords

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	saltLength = 22
	saltChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Hasher produces and checks encoded hashes for one algorithm.
type Hasher interface {
	Algorithm() string
	Encode(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// outdated is implemented by hashers whose work factor can be raised.
type outdated interface {
	Outdated(encoded string) bool
}

// Registry holds hashers in preference order. The first one encodes new
// passwords; all of them can verify.
type Registry struct {
	hashers []Hasher
	byAlg   map[string]Hasher
}

// NewRegistry builds a Registry from hashers in preference order.
func NewRegistry(hashers ...Hasher) (*Registry, error) {
	if len(hashers) == 0 {
		return nil, ErrNoHashers
	}
	r := &Registry{byAlg: make(map[string]Hasher, len(hashers))}
	for _, h := range hashers {
		alg := h.Algorithm()
		if _, dup := r.byAlg[alg]; dup {
			return nil, fmt.Errorf("duplicate password hasher %q", alg)
		}
		r.byAlg[alg] = h
		r.hashers = append(r.hashers, h)
	}
	return r, nil
}

// NewRegistryFromNames builds a Registry of default-tuned hashers by algorithm name.
func NewRegistryFromNames(names []string) (*Registry, error) {
	hashers := make([]Hasher, 0, len(names))
	for _, name := range names {
		h, err := defaultHasher(name)
		if err != nil {
			return nil, err
		}
		hashers = append(hashers, h)
	}
	return NewRegistry(hashers...)
}

func defaultHasher(name string) (Hasher, error) {
	switch name {
	case AlgorithmBcryptSHA256:
		return NewBcryptSHA256(0), nil
	case AlgorithmPBKDF2SHA256:
		return NewPBKDF2SHA256(0), nil
	case AlgorithmPBKDF2SHA1:
		return NewPBKDF2SHA1(0), nil
	case AlgorithmArgon2:
		return NewArgon2(Argon2Params{}), nil
	case AlgorithmScrypt:
		return NewScrypt(ScryptParams{}), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
}

// Preferred returns the hasher used for new passwords.
func (r *Registry) Preferred() Hasher {
	return r.hashers[0]
}

// Encode hashes password with the preferred hasher.
func (r *Registry) Encode(password string) (string, error) {
	return r.Preferred().Encode(password)
}

// Verify checks password against encoded using the hasher named in its prefix.
func (r *Registry) Verify(password, encoded string) (bool, error) {
	h, err := r.identify(encoded)
	if err != nil {
		return false, err
	}
	return h.Verify(password, encoded)
}

// MustUpdate reports whether encoded should be re-hashed, because it was not
// produced by the preferred hasher or uses a weaker work factor.
func (r *Registry) MustUpdate(encoded string) bool {
	h, err := r.identify(encoded)
	if err != nil {
		return true
	}
	if h.Algorithm() != r.Preferred().Algorithm() {
		return true
	}
	if o, ok := h.(outdated); ok {
		return o.Outdated(encoded)
	}
	return false
}

func (r *Registry) identify(encoded string) (Hasher, error) {
	alg, _, ok := strings.Cut(encoded, "$")
	if !ok {
		return nil, ErrInvalidHash
	}
	h, found := r.byAlg[alg]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
	}
	return h, nil
}

func randomSalt() (string, error) {
	var b strings.Builder
	b.Grow(saltLength)
	limit := big.NewInt(int64(len(saltChars)))
	for range saltLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("salt: %w", err)
		}
		b.WriteByte(saltChars[n.Int64()])
	}
	return b.String(), nil
}
