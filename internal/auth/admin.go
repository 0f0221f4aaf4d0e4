package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAdminKeyTooShort = errors.New("admin key must be at least 8 characters")
)

const (
	bcryptCost     = 12
	minAdminKeyLen = 8
)

// HashAdminKey hashes the operator key guarding the prefetch endpoint
func HashAdminKey(key string) (string, error) {
	if len(key) < minAdminKeyLen {
		return "", ErrAdminKeyTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckAdminKey compares a presented key with its hash
func CheckAdminKey(key, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
	return err == nil
}
