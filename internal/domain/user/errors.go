package user

import "errors"

var (
	// ErrUserNotFound indicates the user profile doesn't exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken indicates an API token that matches no key.
	ErrInvalidToken = errors.New("invalid api token")
)
