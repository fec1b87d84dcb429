// Package auth stores the API bearer token in the system keyring.
package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	service = "pitchplay"
	user    = "api-token"
)

// SetToken persists the API token to the system keyring.
func SetToken(token string) error {
	return keyring.Set(service, user, token)
}

// GetToken retrieves the API token from the system keyring.
func GetToken() (string, error) {
	return keyring.Get(service, user)
}

// DeleteToken removes the API token from the system keyring.
func DeleteToken() error {
	return keyring.Delete(service, user)
}

// Credentials returns the stored token, or "" when none was saved.
// Public streams play without one.
func Credentials() (string, error) {
	token, err := GetToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return token, err
}
