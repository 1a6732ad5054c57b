// Package validation checks client input before it reaches storage.
//
// Credentials go through CheckCredentials, an ordered rule list that reports
// every failure. Request structs go through Validator, a go-playground
// validator that returns INVALID_INPUT domain errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/secondbrain/brain-server/internal/domain"
	domainerrors "github.com/secondbrain/brain-server/internal/errors"
)

// Summary messages for request validation failures.
const (
	MsgMissingFields      = "Missing required fields"
	MsgInvalidContentType = "Invalid content type"
	msgInvalidRequest     = "Invalid request"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	//nolint:errcheck // Registration only fails for an empty tag name
	_ = v.RegisterValidation("contenttype", func(fl validator.FieldLevel) bool {
		return domain.ContentType(fl.Field().String()).Valid()
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to INVALID_INPUT domain errors.
// Missing fields take precedence over format problems in the summary.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	summary := ""
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)

		switch {
		case e.Tag() == "required":
			summary = MsgMissingFields
		case e.Tag() == "contenttype" && summary == "":
			summary = MsgInvalidContentType
		}
	}
	if summary == "" {
		summary = msgInvalidRequest
	}

	return domainerrors.InvalidInputWithDetails(summary, fieldErrors)
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "contenttype":
		return "must be one of: " + contentTypeList()
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "dive":
		return "contains an invalid item"
	default:
		return "is invalid"
	}
}

func contentTypeList() string {
	names := make([]string, len(domain.ContentTypes))
	for i, t := range domain.ContentTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
