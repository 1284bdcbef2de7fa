package domain

import "time"

// Category is a named, user-owned column grouping tasks.
// NormalizedName is the lowercase trimmed form used only for per-owner
// uniqueness checks, never for display.
type Category struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Name           string     `json:"name"`
	NormalizedName string     `json:"-"`
	Hidden         bool       `json:"hidden"`
	Highlighted    bool       `json:"highlighted"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}
