package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusLengthRequired},
		{CodeInvalidInput, http.StatusForbidden},
		{CodeUnauthorized, http.StatusForbidden},
		{CodeInvalidCredentials, http.StatusForbidden},
		{CodeAlreadyExists, http.StatusForbidden},
		{CodeNotFound, http.StatusForbidden},
		{CodeForbidden, http.StatusForbidden},
		{CodeConflict, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFound("content not found or not owned")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrUnauthorized))
}

func TestError_WithCauseHidesCauseFromMessage(t *testing.T) {
	cause := stderrors.New("badger: disk full")
	err := Internal("failed to store content").WithCause(cause)

	assert.Equal(t, "failed to store content", err.Message)
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)
}

func TestError_WithDetailsKeepsCode(t *testing.T) {
	details := []string{"Username must be at least 3 characters long"}
	err := ErrValidation.WithDetails(details)

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, details, err.Details)
	assert.Nil(t, ErrValidation.Details, "sentinel must not be mutated")
}

func TestError_GetStatusMatchesCode(t *testing.T) {
	assert.Equal(t, http.StatusLengthRequired, Validation("Error in inputs").GetStatus())
	assert.Equal(t, http.StatusForbidden, NotFound("Invalid share link").GetStatus())
	assert.Equal(t, http.StatusInternalServerError, Internal("Server error").GetStatus())
}
