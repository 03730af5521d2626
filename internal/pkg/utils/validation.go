package utils

import (
	"allergy-register-service/internal/pkg/exceptions"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func ValidateStruct(value interface{}) error {
	if err := validate.Struct(value); err != nil {
		return exceptions.ErrInputValidation(err)
	}
	return nil
}
