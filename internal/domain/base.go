package domain

import "time"

// Base carries the identity and timestamps shared by every stored record.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new record.
func (b *Base) InitTimestamps() {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
}
