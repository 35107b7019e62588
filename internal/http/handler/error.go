package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recordgate/internal/http/middleware"
	"recordgate/internal/ledger"
	"recordgate/internal/service"
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
// - code: machine-readable short error code (e.g., "INVALID_INPUT", "UNAUTHORIZED", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates service and ledger errors into responses.
// Only input errors echo their reason; everything unexpected is logged and
// answered generically.
func writeServiceError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var inErr *service.InputError
	switch {
	case errors.As(err, &inErr):
		return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", inErr.Error())
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", "invalid input")
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "access to this record has not been granted")
	case errors.Is(err, service.ErrContentNotFound):
		return writeError(c, fiber.StatusNotFound, "CONTENT_NOT_FOUND", "record content not found")
	case errors.Is(err, ledger.ErrUnknownRecord):
		return writeError(c, fiber.StatusNotFound, "UNKNOWN_RECORD", "record is not registered")
	case errors.Is(err, ledger.ErrNotOwner):
		return writeError(c, fiber.StatusForbidden, "NOT_OWNER", "only the record owner can change access")
	case errors.Is(err, ledger.ErrDuplicateRecord):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_RECORD", "record already registered to another owner")
	case errors.Is(err, ledger.ErrUnknownTransaction):
		return writeError(c, fiber.StatusNotFound, "UNKNOWN_TRANSACTION", "transaction not found")
	case errors.Is(err, service.ErrUserExists):
		return writeError(c, fiber.StatusConflict, "USER_EXISTS", "user already exists")
	case errors.Is(err, service.ErrUserNotFound):
		return writeError(c, fiber.StatusNotFound, "USER_NOT_FOUND", "user not found")
	case errors.Is(err, service.ErrTransient):
		log.Warn("transient_failure",
			zap.String("request_id", requestIDFromCtx(c)),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return writeError(c, fiber.StatusInternalServerError, "TEMPORARY_FAILURE", "temporary failure, retry later")
	default:
		log.Error("request_failed",
			zap.String("request_id", requestIDFromCtx(c)),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
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
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
