package signin

import "errors"

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike, so callers cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled is returned when the account has been deactivated.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrNoLinkedAccount is returned when an external sign-in succeeds at
	// the provider but no local account is linked to it.
	ErrNoLinkedAccount = errors.New("no account linked to this external login")
)
