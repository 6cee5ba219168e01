package passwords

import "errors"

var (
	// ErrUnknownAlgorithm is returned when no registered hasher matches an encoded hash.
	ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")
	// ErrInvalidHash is returned for malformed encoded hashes.
	ErrInvalidHash = errors.New("invalid encoded password hash")
	// ErrNoHashers is returned when a registry is built without hashers.
	ErrNoHashers = errors.New("at least one password hasher is required")

	ErrPasswordTooShort        = errors.New("password is too short")
	ErrPasswordTooCommon       = errors.New("password is too common")
	ErrPasswordEntirelyNumeric = errors.New("password is entirely numeric")
	ErrPasswordTooSimilar      = errors.New("password is too similar to a user attribute")
)
