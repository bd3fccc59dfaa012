package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ebench-backend/pkg/apperrors"
)

type HttpResponse struct {
	Status  bool              `json:"status"`
	Body    interface{}       `json:"body,omitempty"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

// ErrorResponse maps the error taxonomy onto HTTP codes. Validation and
// not-found errors carry field-level detail; everything unclassified is a 500.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	message := "internal server error"
	var details map[string]string

	var ve *apperrors.ValidationError
	var he *apperrors.HttpError
	var ehe *echo.HTTPError

	switch {
	case errors.As(err, &ve):
		code = http.StatusUnprocessableEntity
		message = "payload validation failed"
		details = ve.Fields
	case errors.As(err, &he):
		code = he.Code
		message = he.Message
		details = he.Details
	case errors.As(err, &ehe):
		code = ehe.Code
		if msg, ok := ehe.Message.(string); ok {
			message = msg
		}
	default:
		logger.Error("unclassified error surfaced to the HTTP layer", zap.Error(err))
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Message: message,
		Details: details,
	})
}
