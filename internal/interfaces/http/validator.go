package http

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Input validation constants
const (
	MaxUsernameLength = 64
	MaxPreviewText    = 4096
	MaxWebMessage     = 4096
	MaxContactLength  = 128
)

var (
	usernameRe   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	businessIDRe = regexp.MustCompile(`^tenant_[0-9]+$`)
)

// ValidUsername checks if a username is safe (alphanumeric + underscore + hyphen)
func ValidUsername(s string) bool {
	return s != "" && len(s) <= MaxUsernameLength && usernameRe.MatchString(s)
}

// ValidBusinessID accepts the schema names handed out at registration.
func ValidBusinessID(s string) bool {
	return businessIDRe.MatchString(s)
}

// ValidID checks a path id before it reaches a UUID column.
func ValidID(s string) bool {
	return uuid.Validate(s) == nil
}

// SanitizeString removes null bytes and invalid UTF-8
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return s
}

// ValidateLength checks if string is within bounds
func ValidateLength(s string, min, max int) bool {
	l := len(s)
	return l >= min && l <= max
}
