package auth

import (
	"crypto/rand"
	"math/big"

	goerrors "github.com/goliatone/go-errors"
)

// GeneratedPasswordLength is the length of admin-generated passwords
const GeneratedPasswordLength = 16

const (
	passwordLower   = "abcdefghijkmnopqrstuvwxyz"
	passwordUpper   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	passwordDigits  = "23456789"
	passwordSymbols = "!@#$%^&*-_+="
)

// GeneratePassword draws a password from a mixed alphabet using a
// cryptographically strong source. At least one character from each
// class is guaranteed.
func GeneratePassword(length int) (string, error) {
	if length < GeneratedPasswordLength {
		length = GeneratedPasswordLength
	}

	classes := []string{passwordLower, passwordUpper, passwordDigits, passwordSymbols}
	full := passwordLower + passwordUpper + passwordDigits + passwordSymbols

	out := make([]byte, length)
	for i, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		out[i] = c
	}

	for i := len(classes); i < length; i++ {
		c, err := randomChar(full)
		if err != nil {
			return "", err
		}
		out[i] = c
	}

	// Fisher-Yates so the guaranteed class characters are not positional.
	for i := len(out) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to shuffle generated password")
		}
		j := n.Int64()
		out[i], out[j] = out[j], out[i]
	}

	return string(out), nil
}

func randomChar(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read random source")
	}
	return alphabet[n.Int64()], nil
}
