package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  error
		value    string
		normal   string
	}{
		{name: "simple", input: "Work", value: "Work", normal: "work"},
		{name: "trims whitespace", input: "  Groceries  ", value: "Groceries", normal: "groceries"},
		{name: "already lowercase", input: "chores", value: "chores", normal: "chores"},
		{name: "empty", input: "", wantErr: ErrEmptyName},
		{name: "only whitespace", input: "   \t ", wantErr: ErrEmptyName},
		{name: "64 chars ok", input: strings.Repeat("a", 64), value: strings.Repeat("a", 64), normal: strings.Repeat("a", 64)},
		{name: "65 chars too long", input: strings.Repeat("a", 65), wantErr: ErrNameTooLong},
		{name: "whitespace padding does not count", input: "  " + strings.Repeat("b", 64) + "  ", value: strings.Repeat("b", 64), normal: strings.Repeat("b", 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, normalized, err := CategoryName(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.normal, normalized)
		})
	}
}

func TestTaskText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		value   string
	}{
		{name: "simple", input: "buy milk", value: "buy milk"},
		{name: "trims", input: "  call mom  ", value: "call mom"},
		{name: "empty", input: "", wantErr: ErrEmptyText},
		{name: "whitespace only", input: " \n ", wantErr: ErrEmptyText},
		{name: "500 chars ok", input: strings.Repeat("x", 500), value: strings.Repeat("x", 500)},
		{name: "501 chars too long", input: strings.Repeat("x", 501), wantErr: ErrTextTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := TaskText(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestCredentials(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		email       string
		password    string
		requireName bool
		wantErr     error
	}{
		{name: "valid login", email: "a@b.com", password: "123456"},
		{name: "valid signup", displayName: "Ada", email: "ada@example.org", password: "hunter22", requireName: true},
		{name: "missing at", email: "nope.com", password: "123456", wantErr: ErrInvalidEmail},
		{name: "missing tld", email: "a@b", password: "123456", wantErr: ErrInvalidEmail},
		{name: "spaces in email", email: "a b@c.com", password: "123456", wantErr: ErrInvalidEmail},
		{name: "empty email", email: "", password: "123456", wantErr: ErrInvalidEmail},
		{name: "short password", email: "a@b.com", password: "12345", wantErr: ErrWeakPassword},
		{name: "exactly six chars", email: "a@b.com", password: "abcdef"},
		{name: "signup without name", email: "a@b.com", password: "123456", requireName: true, wantErr: ErrEmptyDisplay},
		{name: "signup blank name", displayName: "   ", email: "a@b.com", password: "123456", requireName: true, wantErr: ErrEmptyDisplay},
		{name: "signup long name", displayName: strings.Repeat("n", 65), email: "a@b.com", password: "123456", requireName: true, wantErr: ErrDisplayTooLong},
		{name: "name ignored for login", displayName: "", email: "a@b.com", password: "123456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Credentials(tt.displayName, tt.email, tt.password, tt.requireName)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
