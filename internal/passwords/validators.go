package passwords

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Validator names, in the order they are configured.
const (
	ValidatorUserAttributeSimilarity = "user_attribute_similarity"
	ValidatorMinimumLength           = "minimum_length"
	ValidatorCommonPassword          = "common_password"
	ValidatorNumeric                 = "numeric"
)

//go:embed common_passwords.txt
var commonPasswordsFile string

var nonWord = regexp.MustCompile(`\W+`)

// UserAttributes are the user fields a password must not resemble.
type UserAttributes map[string]string

// Validator rejects unacceptable passwords.
type Validator interface {
	Validate(password string, user UserAttributes) error
}

// Validate runs every validator and joins all failures.
func Validate(password string, user UserAttributes, validators ...Validator) error {
	var errs []error
	for _, v := range validators {
		if err := v.Validate(password, user); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidatorsFromNames builds default-tuned validators by name.
func ValidatorsFromNames(names []string) ([]Validator, error) {
	out := make([]Validator, 0, len(names))
	for _, name := range names {
		switch name {
		case ValidatorUserAttributeSimilarity:
			out = append(out, UserAttributeSimilarity{})
		case ValidatorMinimumLength:
			out = append(out, MinimumLength{})
		case ValidatorCommonPassword:
			out = append(out, NewCommonPassword(nil))
		case ValidatorNumeric:
			out = append(out, Numeric{})
		default:
			return nil, fmt.Errorf("unknown password validator %q", name)
		}
	}
	return out, nil
}

// MinimumLength rejects passwords shorter than Min characters (default 8).
type MinimumLength struct {
	Min int
}

func (m MinimumLength) Validate(password string, _ UserAttributes) error {
	minLen := m.Min
	if minLen <= 0 {
		minLen = 8
	}
	if n := len([]rune(password)); n < minLen {
		return fmt.Errorf("%w: %d characters, need at least %d", ErrPasswordTooShort, n, minLen)
	}
	return nil
}

// Numeric rejects passwords made only of digits.
type Numeric struct{}

func (Numeric) Validate(password string, _ UserAttributes) error {
	if password == "" {
		return nil
	}
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return nil
		}
	}
	return ErrPasswordEntirelyNumeric
}

// CommonPassword rejects passwords found in a list of common passwords.
type CommonPassword struct {
	passwords map[string]struct{}
}

// NewCommonPassword uses list, or the bundled list when list is nil.
func NewCommonPassword(list []string) CommonPassword {
	if list == nil {
		list = bundledCommonPasswords()
	}
	set := make(map[string]struct{}, len(list))
	for _, p := range list {
		set[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	return CommonPassword{passwords: set}
}

func (c CommonPassword) Validate(password string, _ UserAttributes) error {
	if _, ok := c.passwords[strings.ToLower(strings.TrimSpace(password))]; ok {
		return ErrPasswordTooCommon
	}
	return nil
}

func bundledCommonPasswords() []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(commonPasswordsFile))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// UserAttributeSimilarity rejects passwords too similar to the user's
// username, names or email.
type UserAttributeSimilarity struct {
	Attributes    []string
	MaxSimilarity float64
}

var defaultSimilarityAttributes = []string{"username", "first_name", "last_name", "email"}

func (u UserAttributeSimilarity) Validate(password string, user UserAttributes) error {
	if len(user) == 0 {
		return nil
	}
	attrs := u.Attributes
	if len(attrs) == 0 {
		attrs = defaultSimilarityAttributes
	}
	maxSim := u.MaxSimilarity
	if maxSim <= 0 {
		maxSim = 0.7
	}

	pw := strings.ToLower(password)
	for _, attr := range attrs {
		value := strings.ToLower(user[attr])
		if value == "" {
			continue
		}
		parts := append(nonWord.Split(value, -1), value)
		for _, part := range parts {
			if part == "" || exceedsLengthRatio(pw, maxSim, part) {
				continue
			}
			if quickRatio(pw, part) >= maxSim {
				return fmt.Errorf("%w: %s", ErrPasswordTooSimilar, attr)
			}
		}
	}
	return nil
}

// exceedsLengthRatio skips attribute parts so short relative to the password
// that they could never reach the similarity threshold.
func exceedsLengthRatio(password string, maxSim float64, value string) bool {
	pwLen := float64(len([]rune(password)))
	valLen := float64(len([]rune(value)))
	return pwLen >= 10*valLen && valLen < maxSim/2*pwLen
}

// quickRatio is 2*M/T where M counts characters common to both strings as
// multisets and T is the combined length.
func quickRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	avail := make(map[rune]int, len(rb))
	for _, r := range rb {
		avail[r]++
	}
	matches := 0
	for _, r := range ra {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}
