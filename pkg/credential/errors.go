package credential

import "errors"

var (
	// ErrCredentialNotFound is returned when a user has no local credential record
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrExternalLoginNotFound is returned when a (provider, key) pair is not linked
	ErrExternalLoginNotFound = errors.New("external login not found")

	// ErrExternalLoginExists is returned when linking a (provider, key) pair
	// that is already recorded
	ErrExternalLoginExists = errors.New("external login already exists")

	// ErrTokenNotFound is returned when a confirmation token is not found
	ErrTokenNotFound = errors.New("confirmation token not found")

	// ErrTokenExpired is returned when a confirmation token has expired
	ErrTokenExpired = errors.New("confirmation token has expired")

	// ErrTokenAlreadyUsed is returned when a confirmation token has already been used
	ErrTokenAlreadyUsed = errors.New("confirmation token has already been used")

	// ErrInvalidPassword is returned when password verification fails
	ErrInvalidPassword = errors.New("invalid password")
)
