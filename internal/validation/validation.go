package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	// MinPasswordLength applies to signup and password reset.
	MinPasswordLength = 6
	// MaxPasswordLength is the most bcrypt will hash.
	MaxPasswordLength = 72
	MaxNameLength     = 100
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NormalizeEmail trims and lowercases an address. Every email lookup and
// insert goes through it so the same mailbox always maps to one account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "Email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "Invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "Password is required"}
	}
	if len(password) < MinPasswordLength {
		return ValidationError{Field: "password", Message: fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)}
	}
	if len(password) > MaxPasswordLength {
		return ValidationError{Field: "password", Message: fmt.Sprintf("Password must be at most %d bytes", MaxPasswordLength)}
	}
	return nil
}

// ValidateName checks if a display name is valid
func ValidateName(name string) error {
	return ValidateText("name", "Name", name, MaxNameLength)
}

// ValidateRequired checks that a free-text field is present.
func ValidateRequired(field, label, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: label + " is required"}
	}
	return nil
}

// ValidateText checks that a field is present and at most maxLen characters.
func ValidateText(field, label, value string, maxLen int) error {
	if err := ValidateRequired(field, label, value); err != nil {
		return err
	}
	if len([]rune(strings.TrimSpace(value))) > maxLen {
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", label, maxLen)}
	}
	return nil
}
