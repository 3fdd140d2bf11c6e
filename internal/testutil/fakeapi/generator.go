package fakeapi

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"github.com/passguardian/passguardian-go/internal/model"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"
	symbolChars    = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

var errLengthOutOfRange = errors.New("length must be between 8 and 32")

// generate produces a password honouring settings. Lowercase letters are
// always part of the pool, and every selected class appears at least once.
func generate(settings model.GeneratorSettings) (string, error) {
	if settings.Length < model.MinGenerateLength || settings.Length > model.MaxGenerateLength {
		return "", errLengthOutOfRange
	}

	requiredSets := []string{lowercaseChars}
	if settings.UseUppercase {
		requiredSets = append(requiredSets, uppercaseChars)
	}
	if settings.UseNumbers {
		requiredSets = append(requiredSets, numberChars)
	}
	if settings.UseSymbols {
		requiredSets = append(requiredSets, symbolChars)
	}
	pool := strings.Join(requiredSets, "")

	result := make([]byte, settings.Length)
	for i, charset := range requiredSets {
		ch, err := randChar(charset)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}
	for i := len(requiredSets); i < settings.Length; i++ {
		ch, err := randChar(pool)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	if err := secureShuffle(result); err != nil {
		return "", err
	}
	return string(result), nil
}

func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}

// secureShuffle performs a Fisher-Yates shuffle using crypto/rand.
func secureShuffle(data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		data[i], data[j.Int64()] = data[j.Int64()], data[i]
	}
	return nil
}
