package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fileapi/internal/http/middleware"
	"fileapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	Mensaje   string `json:"mensaje"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		Mensaje:   message,
		Code:      code,
		RequestID: requestIDFromCtx(c),
	})
}

// writeServiceError translates a service error into its HTTP status and the
// kind's message. notFound is the message used for a missing file, which
// varies by operation.
func writeServiceError(c *fiber.Ctx, err error, msgs messages, notFound string) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", msgs.incomplete)
	case errors.Is(err, service.ErrAlreadyExists):
		return writeError(c, fiber.StatusConflict, "ALREADY_EXISTS", msgs.exists)
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", notFound)
	case errors.Is(err, service.ErrUnsupportedContent):
		return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_CONTENT", msgs.unsupported)
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "payload too large")
		default:
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}
