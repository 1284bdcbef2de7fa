package domain

import "time"

// Task is a user-owned work item belonging to exactly one category.
// Completed and Highlighted are independent flags; either may be toggled at
// any time regardless of the other.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	CategoryID  string     `json:"categoryId"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Highlighted bool       `json:"highlighted"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}
