// Package validation holds input rules shared by account creation paths.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 30
	MinPasswordLen = 8
	MaxPasswordLen = 128
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_.]+$`)

// Usernames that would shadow a route segment or read as staff accounts.
var reservedUsernames = map[string]struct{}{
	"admin":   {},
	"api":     {},
	"me":      {},
	"health":  {},
	"metrics": {},
	"swagger": {},
	"media":   {},
	"support": {},
	"vidtube": {},
}

// ValidateUsername checks an already-normalized (lowercase, trimmed) username.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) < MinUsernameLen || len(username) > MaxUsernameLen {
		return fmt.Errorf("username must be %d-%d characters", MinUsernameLen, MaxUsernameLen)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may contain only lowercase letters, numbers, underscores and dots")
	}
	if strings.HasPrefix(username, ".") || strings.HasSuffix(username, ".") {
		return fmt.Errorf("username cannot start or end with a dot")
	}
	if _, reserved := reservedUsernames[username]; reserved {
		return fmt.Errorf("username %q is reserved", username)
	}
	return nil
}

// ValidateEmail checks that email is a bare address.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword enforces length bounds only; bcrypt ignores bytes past 72.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLen)
	}
	return nil
}
