// Package security generates the one-off secrets used by the login gate and
// the calendar OAuth flow.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
)

const (
	// Ambiguous glyphs (0/O, 1/l/I) are left out so printed passwords can
	// be typed back.
	passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	stateAlphabet    = "abcdefghijklmnopqrstuvwxyz0123456789"

	MinTemporaryPasswordLength = 8
	stateLength                = 32
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString returns a uniformly distributed string drawn from alphabet
// using crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}
	return string(value), nil
}

func TemporaryPassword(length int) (string, error) {
	if length < MinTemporaryPasswordLength {
		length = MinTemporaryPasswordLength
	}
	return RandomString(length, passwordAlphabet)
}

// NewState returns an opaque value for the OAuth state parameter.
func NewState() (string, error) {
	return RandomString(stateLength, stateAlphabet)
}

func SameState(expected string, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
