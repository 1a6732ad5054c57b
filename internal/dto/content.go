// Package dto holds the client-facing views of domain records.
// Views carry display data resolved from related records and never
// include credential material.
package dto

import (
	"time"

	"github.com/secondbrain/brain-server/internal/domain"
)

// Tag is a tag as shown to clients.
type Tag struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Owner identifies the user who owns a content record.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Content is a content record with its tags and owner resolved.
type Content struct {
	ID        string             `json:"id"`
	Link      string             `json:"link"`
	Type      domain.ContentType `json:"type" enum:"image,video,article,audio"`
	Title     string             `json:"title"`
	Tags      []Tag              `json:"tags"`
	Owner     Owner              `json:"owner"`
	CreatedAt time.Time          `json:"created_at"`
}

// User is the public view of an account.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser builds the public view of u.
func NewUser(u *domain.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

// NewTag builds the client view of t.
func NewTag(t *domain.Tag) Tag {
	return Tag{ID: t.ID, Title: t.Title}
}

// NewTags converts a slice of tags.
func NewTags(tags []*domain.Tag) []Tag {
	out := make([]Tag, len(tags))
	for i, t := range tags {
		out[i] = NewTag(t)
	}
	return out
}
