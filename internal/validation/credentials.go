package validation

import (
	"strings"
	"unicode/utf8"

	domainerrors "github.com/secondbrain/brain-server/internal/errors"
)

// Credential length limits.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 10
	PasswordMinLength = 8
	PasswordMaxLength = 20
)

// MsgMissingCredentials is returned when username or password is absent.
const MsgMissingCredentials = "Error in inputs"

// rule is one credential check and the message reported when it fails.
type rule struct {
	check   func(string) bool
	message string
}

var usernameRules = []rule{
	{func(s string) bool { return utf8.RuneCountInString(s) >= UsernameMinLength }, "Username must be at least 3 characters long"},
	{func(s string) bool { return utf8.RuneCountInString(s) <= UsernameMaxLength }, "Username must be at most 10 characters long"},
	{func(s string) bool { return all(s, isASCIILetter) }, "Username must contain only letters"},
}

var passwordRules = []rule{
	{func(s string) bool { return utf8.RuneCountInString(s) >= PasswordMinLength }, "Password must be at least 8 characters long"},
	{func(s string) bool { return utf8.RuneCountInString(s) <= PasswordMaxLength }, "Password must be at most 20 characters long"},
	{func(s string) bool { return contains(s, isASCIIUpper) }, "Password must contain at least one uppercase letter"},
	{func(s string) bool { return contains(s, isASCIILower) }, "Password must contain at least one lowercase letter"},
	{func(s string) bool { return contains(s, isASCIIDigit) }, "Password must contain at least one number"},
	{func(s string) bool { return contains(s, isSpecial) }, "Password must contain at least one special character"},
}

// CheckCredentials validates a username and password pair.
// Every rule is evaluated; the returned VALIDATION error lists all failures
// in rule order as its details. Returns nil when the pair is acceptable.
func CheckCredentials(username, password string) error {
	if username == "" || password == "" {
		return domainerrors.Validation(MsgMissingCredentials)
	}

	var failures []string
	failures = apply(failures, usernameRules, username)
	failures = apply(failures, passwordRules, password)

	if len(failures) == 0 {
		return nil
	}
	return domainerrors.ValidationWithDetails(strings.Join(failures, "; "), failures)
}

func apply(failures []string, rules []rule, value string) []string {
	for _, r := range rules {
		if !r.check(value) {
			failures = append(failures, r.message)
		}
	}
	return failures
}

func all(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

func contains(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if pred(r) {
			return true
		}
	}
	return false
}

func isASCIIUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isASCIIDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isASCIILetter(r rune) bool { return isASCIIUpper(r) || isASCIILower(r) }

// isSpecial matches anything outside [A-Za-z0-9], including non-ASCII runes.
func isSpecial(r rune) bool { return !isASCIILetter(r) && !isASCIIDigit(r) }
