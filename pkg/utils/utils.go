// Package utils provides small, stateless helpers shared across the
// platform: privacy-preserving masking for log output and secure random
// string generation.
package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const randomCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomString returns a cryptographically secure random string
// of the given length, drawn from an alphanumeric charset.
func GenerateRandomString(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	max := big.NewInt(int64(len(randomCharset)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		sb.WriteByte(randomCharset[n.Int64()])
	}
	return sb.String()
}

// MaskEmail hides the middle of the local part for log output.
// "john@example.com" becomes "j***n@example.com"; a single-character
// local part is left as is.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return email
	}
	local, domain := email[:at], email[at:]
	if len(local) == 2 {
		return local[:1] + "*" + local[1:] + domain
	}
	return local[:1] + "***" + local[len(local)-1:] + domain
}

// StringPtr returns a pointer to the given string, for optional fields.
func StringPtr(s string) *string {
	return &s
}
