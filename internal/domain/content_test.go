package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"image", true},
		{"video", true},
		{"article", true},
		{"audio", true},
		{"document", false},
		{"Article", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseContentType(tt.input)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.want, got.Valid())
		})
	}
}

func TestContent_OwnedBy(t *testing.T) {
	c := &Content{OwnerID: "user-1"}

	assert.True(t, c.OwnedBy("user-1"))
	assert.False(t, c.OwnedBy("user-2"))
	assert.False(t, c.OwnedBy(""))
}

func TestContent_IsShared(t *testing.T) {
	c := &Content{}
	assert.False(t, c.IsShared())

	c.ShareToken = "0123456789abcdef01234567"
	assert.True(t, c.IsShared())
}
