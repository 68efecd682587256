package credential

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordComplexity marks a password rejected by the complexity
// policy. Callers match it with errors.Is to distinguish policy
// violations from storage failures.
var ErrPasswordComplexity = errors.New("password does not meet complexity requirements")

// PasswordPolicy defines the requirements for password complexity
type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigit     bool
	RequireSpecial   bool
}

// DefaultPasswordPolicy returns the platform default password policy
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        8,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigit:     true,
		RequireSpecial:   true,
	}
}

// CheckComplexity verifies that a password meets the policy requirements
func (p PasswordPolicy) CheckComplexity(password string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrPasswordComplexity, p.MinLength)
	}
	if p.RequireUppercase && !regexp.MustCompile(`[A-Z]`).MatchString(password) {
		return fmt.Errorf("%w: must contain at least one uppercase letter", ErrPasswordComplexity)
	}
	if p.RequireLowercase && !regexp.MustCompile(`[a-z]`).MatchString(password) {
		return fmt.Errorf("%w: must contain at least one lowercase letter", ErrPasswordComplexity)
	}
	if p.RequireDigit && !regexp.MustCompile(`[0-9]`).MatchString(password) {
		return fmt.Errorf("%w: must contain at least one digit", ErrPasswordComplexity)
	}
	if p.RequireSpecial && !regexp.MustCompile(`[^a-zA-Z0-9]`).MatchString(password) {
		return fmt.Errorf("%w: must contain at least one special character", ErrPasswordComplexity)
	}
	return nil
}

// HashPassword hashes the plain-text password using bcrypt.
func HashPassword(password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return hashedPassword, nil
}

// CheckPasswordHash compares the plain-text password with the stored hashed password.
func CheckPasswordHash(password string, hashedPassword []byte) (bool, error) {
	if password == "" || len(hashedPassword) == 0 {
		return false, fmt.Errorf("password and hashed password cannot be empty")
	}

	err := bcrypt.CompareHashAndPassword(hashedPassword, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
