package response

import (
	"net/http"

	deliverycontext "taskhub/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// Response unified API response structure
type Response struct {
	Success   bool       `json:"success"`
	Code      int        `json:"code"`    // HTTP status code
	Message   string     `json:"message"` // User-friendly message
	Data      any        `json:"data,omitempty"`
	Error     *ErrorInfo `json:"error,omitempty"`
	Errors    []string   `json:"errors,omitempty"`
	RequestID string     `json:"requestId,omitempty"`
}

// ErrorInfo carries the machine-readable error kind.
type ErrorInfo struct {
	Code string `json:"code"` // Business error code, e.g., "NOT_FOUND"
}

// Success successful response
func Success(c echo.Context, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, Response{
		Success:   true,
		Code:      statusCode,
		Message:   message,
		Data:      data,
		RequestID: deliverycontext.GetRequestID(c),
	})
}

// Error error response. Server errors and auth failures never carry detail lines.
func Error(c echo.Context, statusCode int, errorCode string, message string, errs []string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	if statusCode >= http.StatusInternalServerError ||
		statusCode == http.StatusUnauthorized ||
		statusCode == http.StatusForbidden {
		errs = nil
	}

	return c.JSON(statusCode, Response{
		Success:   false,
		Code:      statusCode,
		Message:   message,
		Error:     &ErrorInfo{Code: errorCode},
		Errors:    errs,
		RequestID: deliverycontext.GetRequestID(c),
	})
}

// InternalServerError 500 error
func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, nil)
}
