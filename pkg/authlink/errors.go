package authlink

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicatePassword is returned when a local password add is
	// attempted for a user that already has one
	ErrDuplicatePassword = errors.New("user already has a local password")

	// ErrCannotRemoveLastAuthMethod is returned when an unlink would leave
	// the user with zero authentication methods
	ErrCannotRemoveLastAuthMethod = errors.New("cannot remove the last authentication method, add a password or another external account first")

	// ErrNotConfirmed is returned when a local-primary user attempts a
	// protected action before confirming their initial email
	ErrNotConfirmed = errors.New("email address not confirmed")
)

// ErrExternalAccountAlreadyLinked is returned when an external identity is
// already bound to a different user account
type ErrExternalAccountAlreadyLinked struct {
	Provider string
}

func (e ErrExternalAccountAlreadyLinked) Error() string {
	return fmt.Sprintf("this %s account is already linked to another user", e.Provider)
}
