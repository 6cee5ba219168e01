package passwords

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	AlgorithmArgon2 = "argon2"

	argon2Variant = "argon2id"
	argon2Version = argon2.Version

	// Upper bounds accepted during Verify so an attacker-supplied hash
	// cannot force pathological memory or CPU use.
	maxArgon2MemoryKiB = 1 << 20
	maxArgon2Time      = 16
)

// Argon2Params tunes the Argon2id hasher. Zero fields take the defaults.
type Argon2Params struct {
	MemoryKiB   uint32
	Time        uint32
	Parallelism uint8
	KeyLength   uint32
}

func (p Argon2Params) withDefaults() Argon2Params {
	if p.MemoryKiB == 0 {
		p.MemoryKiB = 102400
	}
	if p.Time == 0 {
		p.Time = 2
	}
	if p.Parallelism == 0 {
		p.Parallelism = 8
	}
	if p.KeyLength == 0 {
		p.KeyLength = 32
	}
	return p
}

// Argon2 encodes hashes as
// "argon2$argon2id$v=19$m=<mem>,t=<time>,p=<par>$<salt_b64>$<hash_b64>".
type Argon2 struct {
	params Argon2Params
}

// NewArgon2 returns an Argon2id hasher.
func NewArgon2(params Argon2Params) *Argon2 {
	return &Argon2{params: params.withDefaults()}
}

func (a *Argon2) Algorithm() string { return AlgorithmArgon2 }

func (a *Argon2) Encode(password string) (string, error) {
	salt, err := randomSalt()
	if err != nil {
		return "", err
	}
	return a.encode(password, []byte(salt), a.params), nil
}

func (a *Argon2) encode(password string, salt []byte, p Argon2Params) string {
	key := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Parallelism, p.KeyLength)
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%s$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		AlgorithmArgon2, argon2Variant, argon2Version,
		p.MemoryKiB, p.Time, p.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key),
	)
}

func (a *Argon2) Verify(password, encoded string) (bool, error) {
	params, salt, expected, err := decodeArgon2(encoded)
	if err != nil {
		return false, err
	}
	if params.MemoryKiB > maxArgon2MemoryKiB || params.Time > maxArgon2Time {
		return false, ErrInvalidHash
	}
	key := argon2.IDKey([]byte(password), salt, params.Time, params.MemoryKiB, params.Parallelism, params.KeyLength)
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// Outdated reports whether encoded used weaker parameters than configured.
func (a *Argon2) Outdated(encoded string) bool {
	params, _, _, err := decodeArgon2(encoded)
	if err != nil {
		return true
	}
	return params.MemoryKiB < a.params.MemoryKiB ||
		params.Time < a.params.Time ||
		params.Parallelism < a.params.Parallelism
}

func decodeArgon2(encoded string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != AlgorithmArgon2 || parts[1] != argon2Variant {
		return Argon2Params{}, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2Version {
		return Argon2Params{}, nil, nil, ErrInvalidHash
	}

	var p Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &p.Parallelism); err != nil {
		return Argon2Params{}, nil, nil, ErrInvalidHash
	}
	if p.MemoryKiB == 0 || p.Time == 0 || p.Parallelism == 0 {
		return Argon2Params{}, nil, nil, ErrInvalidHash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return Argon2Params{}, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > 1024 {
		return Argon2Params{}, nil, nil, ErrInvalidHash
	}
	p.KeyLength = uint32(len(key)) // #nosec G115 -- bounded above.

	return p, salt, key, nil
}
