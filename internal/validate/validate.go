// Package validate holds the pure input checks shared by the board and
// account services. Functions here have no side effects; they trim, bound
// and normalize user-supplied strings.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxCategoryNameLen bounds category and display names.
	MaxCategoryNameLen = 64
	// MaxTaskTextLen bounds task text.
	MaxTaskTextLen = 500
	// MinPasswordLen is the weakest accepted password length.
	MinPasswordLen = 6
)

var (
	ErrEmptyName      = errors.New("category name is required")
	ErrNameTooLong    = errors.New("category name too long")
	ErrEmptyText      = errors.New("task description is required")
	ErrTextTooLong    = errors.New("task description too long")
	ErrInvalidEmail   = errors.New("invalid email")
	ErrWeakPassword   = errors.New("password too short")
	ErrEmptyDisplay   = errors.New("name is required")
	ErrDisplayTooLong = errors.New("name too long")
)

// emailRe accepts a simple local@domain.tld shape. Deliverability checks
// belong to the identity provider, not here.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CategoryName trims name and checks its bounds. On success it returns the
// trimmed display value and the lowercased normalized form used for
// per-owner uniqueness comparison.
func CategoryName(name string) (value, normalized string, err error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", "", ErrEmptyName
	}
	if utf8.RuneCountInString(trimmed) > MaxCategoryNameLen {
		return "", "", ErrNameTooLong
	}
	return trimmed, strings.ToLower(trimmed), nil
}

// TaskText trims text and checks its bounds, returning the trimmed value.
func TaskText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyText
	}
	if utf8.RuneCountInString(trimmed) > MaxTaskTextLen {
		return "", ErrTextTooLong
	}
	return trimmed, nil
}

// Credentials checks a signup or login payload. The display name is only
// validated when requireName is set (registration); it follows the same
// rules as category names.
func Credentials(name, email, password string, requireName bool) error {
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	if len(password) < MinPasswordLen {
		return ErrWeakPassword
	}
	if requireName {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return ErrEmptyDisplay
		}
		if utf8.RuneCountInString(trimmed) > MaxCategoryNameLen {
			return ErrDisplayTooLong
		}
	}
	return nil
}
