package validation_test

import (
	"testing"

	domainerrors "github.com/secondbrain/brain-server/internal/errors"
	"github.com/secondbrain/brain-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testContentRequest struct {
	Link  string   `json:"link" validate:"required"`
	Type  string   `json:"type" validate:"required,contenttype"`
	Title string   `json:"title" validate:"required,max=256"`
	Tags  []string `json:"tags" validate:"dive,required"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(testContentRequest{
		Link:  "http://x",
		Type:  "article",
		Title: "t1",
		Tags:  []string{"go"},
	})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       testContentRequest
		wantMsg   string
		wantField string
	}{
		{
			name:      "missing link",
			req:       testContentRequest{Type: "article", Title: "t1"},
			wantMsg:   validation.MsgMissingFields,
			wantField: "link",
		},
		{
			name:      "missing type",
			req:       testContentRequest{Link: "http://x", Title: "t1"},
			wantMsg:   validation.MsgMissingFields,
			wantField: "type",
		},
		{
			name:      "unknown type",
			req:       testContentRequest{Link: "http://x", Type: "document", Title: "t1"},
			wantMsg:   validation.MsgInvalidContentType,
			wantField: "type",
		},
		{
			name:      "missing field wins over bad type",
			req:       testContentRequest{Type: "document", Title: "t1"},
			wantMsg:   validation.MsgMissingFields,
			wantField: "link",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeInvalidInput, domainErr.Code)
			assert.Equal(t, tt.wantMsg, domainErr.Message)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}
