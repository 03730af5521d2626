package exceptions

import (
	"allergy-register-service/internal/pkg/constvars"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FormatFirstValidationError turns the first validator violation into a
// client-safe message. Anything that is not a validator error falls back to
// the generic cannot-process message.
func FormatFirstValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return constvars.ErrClientCannotProcessRequest
	}

	fieldError := validationErrors[0]
	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", fieldError.Field())
	case "oneof":
		return fmt.Sprintf("Field '%s' must be one of: %s", fieldError.Field(), fieldError.Param())
	default:
		return fmt.Sprintf("Field '%s' is invalid", fieldError.Field())
	}
}
