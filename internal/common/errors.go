package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Error taxonomy shared across services and storage backends. Handlers map
// these onto HTTP status codes; no other error values cross the HTTP boundary.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrStorage            = errors.New("storage error")
	ErrStorageTimeout     = errors.New("storage timeout")
)

// ErrorResponse is the JSON error body returned on every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendError writes a JSON error body with the given status code.
func SendError(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Error: message})
}

// SendValidationError sends a 400 with the validation message.
func SendValidationError(c echo.Context, message string) error {
	return SendError(c, http.StatusBadRequest, message)
}

// SendServerError sends a generic 500. Internal details stay in the logs.
func SendServerError(c echo.Context, message string) error {
	return SendError(c, http.StatusInternalServerError, message)
}

// ValidateRequiredString rejects empty or whitespace-only required fields.
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, fieldName)
	}
	return nil
}
