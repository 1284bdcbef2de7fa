package domain

import "time"

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"displayName,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
