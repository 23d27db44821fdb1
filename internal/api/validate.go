package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// fieldError is one failed struct-tag validation, in the style of
// auth-service's FormatValidationErrors.
type fieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func formatValidationErrors(err error) []fieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]fieldError, len(ve))
	for i, fe := range ve {
		msg := fmt.Sprintf("validation failed on field %q for tag %q", fe.Field(), fe.Tag())
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
		}
		out[i] = fieldError{Field: fe.Field(), Tag: fe.Tag(), Message: msg}
	}
	return out
}
