package utils

import (
	"regexp"
	"strings"
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	htmlTags     = regexp.MustCompile(`<[^>]*>`)
	hasUpper     = regexp.MustCompile(`[A-Z]`)
	hasLower     = regexp.MustCompile(`[a-z]`)
	hasNumber    = regexp.MustCompile(`\d`)
)

// SanitizeString strips control characters and markup from user input
func SanitizeString(input string) string {
	sanitized := controlChars.ReplaceAllString(input, "")
	sanitized = htmlTags.ReplaceAllString(sanitized, "")
	return strings.TrimSpace(sanitized)
}

// ValidatePassword returns a list of rule violations; an empty list means
// the password is acceptable
func ValidatePassword(password string) []string {
	var errors []string

	if len(password) < 8 {
		errors = append(errors, "Password must be at least 8 characters long")
	}
	if len(password) > 128 {
		errors = append(errors, "Password must be at most 128 characters long")
	}
	if !hasUpper.MatchString(password) {
		errors = append(errors, "Password must contain at least one uppercase letter")
	}
	if !hasLower.MatchString(password) {
		errors = append(errors, "Password must contain at least one lowercase letter")
	}
	if !hasNumber.MatchString(password) {
		errors = append(errors, "Password must contain at least one number")
	}

	return errors
}
