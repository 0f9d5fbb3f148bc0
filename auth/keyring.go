// Package auth keeps portal credentials in the system keyring.
package auth

import (
	"errors"

	"github.com/etldl/etldl/constant"
	"github.com/zalando/go-keyring"
)

var service = constant.App

// ErrNotFound is returned when no password is stored for the user.
var ErrNotFound = keyring.ErrNotFound

// SetPassword stores the portal password for username.
func SetPassword(username, password string) error {
	if username == "" {
		return errors.New("username is empty")
	}
	return keyring.Set(service, username, password)
}

// GetPassword loads the stored password for username.
func GetPassword(username string) (string, error) {
	return keyring.Get(service, username)
}

func DeletePassword(username string) error {
	return keyring.Delete(service, username)
}
