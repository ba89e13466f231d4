// Package auth holds the credential validation policy: phone shape and
// password strength checks applied before any user record is written.
package auth

import (
	"errors" // Policy violation errors
	"regexp" // Pattern checks
)

var (
	phonePattern   = regexp.MustCompile(`^[0-9]{10,15}$`)                        // 10-15 digits
	letterPattern  = regexp.MustCompile(`[a-zA-Z]`)                              // At least one letter
	digitPattern   = regexp.MustCompile(`\d`)                                    // At least one digit
	specialPattern = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`) // Accepted symbols
)

// Policy violation errors surfaced to callers as 400s
var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordTooWeak  = errors.New("password must include letters, numbers, and at least one special character")
	ErrInvalidPhone     = errors.New("phone must be 10 to 15 digits")
)

// ValidatePhone checks the phone number shape used as the login identity
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidatePassword enforces the password strength policy: at least 6
// characters with a letter, a digit and a symbol from the accepted set.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) || !specialPattern.MatchString(password) {
		return ErrPasswordTooWeak
	}
	return nil
}
