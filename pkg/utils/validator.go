package utils

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"ebench-backend/pkg/apperrors"
)

// CustomValidator adapts go-playground/validator to the echo.Validator
// interface and rewrites tag failures into the field-scoped taxonomy.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			fields := make(map[string]string, len(ve))
			for _, fe := range ve {
				fields[fe.Field()] = "failed rule: " + fe.Tag()
			}
			return apperrors.NewHttpError(http.StatusBadRequest, "request validation failed", err, fields)
		}
		return err
	}
	return nil
}
