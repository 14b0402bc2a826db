// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

const (
	minPasswordLength = 6
	maxPasswordLength = 128
	maxNameLength     = 100
	maxSizeLength     = 10
)

// ValidatePassword checks the password length bounds.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	if n > maxPasswordLength {
		return fmt.Errorf("password must not exceed %d characters", maxPasswordLength)
	}
	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(username) > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateName requires a non-blank first or last name.
func ValidateName(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > maxNameLength {
		return fmt.Errorf("%s must not exceed %d characters", field, maxNameLength)
	}
	return nil
}

// ValidateImageURL accepts an empty value, a site-relative path or an
// absolute http(s) URL.
func ValidateImageURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "/") {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("image URL must be an http(s) URL")
	}
	return nil
}

// ValidateSneakerSize accepts an empty value or a short free-form size.
func ValidateSneakerSize(size string) error {
	if len(strings.TrimSpace(size)) > maxSizeLength {
		return fmt.Errorf("sneaker size must not exceed %d characters", maxSizeLength)
	}
	return nil
}

// Signup runs every registration check and returns the first failure.
func Signup(username, firstName, lastName, email, password, imageURL string) error {
	checks := []func() error{
		func() error { return ValidateUsername(username) },
		func() error { return ValidateName("first name", firstName) },
		func() error { return ValidateName("last name", lastName) },
		func() error { return ValidateEmail(email) },
		func() error { return ValidatePassword(password) },
		func() error { return ValidateImageURL(imageURL) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
