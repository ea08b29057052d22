package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"repoapi/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
// code is machine-readable (INVALID_ID, NOT_FOUND, ...); message is safe for clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

// statusCodes maps statuses the router or handlers raise to their client-facing envelope.
// Anything else is reported as an internal error.
var statusCodes = map[int]errorEnvelope{
	fiber.StatusBadRequest:         {Code: "BAD_REQUEST", Message: "bad request"},
	fiber.StatusNotFound:           {Code: "NOT_FOUND", Message: "resource not found"},
	fiber.StatusMethodNotAllowed:   {Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"},
	fiber.StatusServiceUnavailable: {Code: "SERVICE_UNAVAILABLE", Message: "service unavailable"},
}

var internalError = errorEnvelope{Code: "INTERNAL_ERROR", Message: "internal server error"}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// Errors that are not *fiber.Error are unexpected and logged before becoming a 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			log.Error("unhandled error",
				zap.String("request_id", requestIDFromCtx(c)),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return writeError(c, fiber.StatusInternalServerError, internalError.Code, internalError.Message)
		}

		env, ok := statusCodes[fe.Code]
		if !ok {
			env = internalError
		}
		return writeError(c, fe.Code, env.Code, env.Message)
	}
}
