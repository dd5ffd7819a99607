package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gridbill/pkg/apperr"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = apperr.Unauthorized("unauthorized")
	ErrForbidden      = apperr.Forbidden("forbidden")
	ErrInvalidRequest = apperr.Validation("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	code := apperr.CodeOf(err)
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	case apperr.KindNotFound:
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: "not found", Code: code}
	case apperr.KindConflict:
		return http.StatusConflict, errorPayload{Type: "conflict", Message: conflictMessage(code), Code: code}
	case apperr.KindConfiguration:
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "configuration_error",
			Message: "billing reference data is incomplete",
			Code:    code,
		}
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized, errorPayload{Type: "unauthorized", Message: "unauthorized"}
	case apperr.KindForbidden:
		return http.StatusForbidden, errorPayload{Type: "forbidden", Message: "forbidden"}
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests, errorPayload{Type: "rate_limited", Message: "too many requests"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: "not found"}
	}
	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}

// classifyErrorForLog feeds the request logger the same type and code the
// client sees.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Code
	if code == "" && len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "reading_locked":
		return "the bill for this reading is already paid"
	default:
		return "invalid value"
	}
}

func conflictMessage(code string) string {
	switch code {
	case "bill_already_paid":
		return "bill is already paid"
	case "amount_mismatch":
		return "amount does not match the payable total"
	case "fine_mismatch":
		return "fine does not match the current fine"
	case "duplicate_payment":
		return "payment was already processed"
	default:
		return "conflict"
	}
}
