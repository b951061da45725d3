package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lapor-warga/internal/domain"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler translates domain error kinds and fiber errors into one JSON
// shape. Internal details never leak to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	errorCode := "INTERNAL_ERROR"

	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
		switch de.Kind {
		case domain.KindValidation:
			code = fiber.StatusBadRequest
			errorCode = "VALIDATION_ERROR"
		case domain.KindNotFound:
			code = fiber.StatusNotFound
			errorCode = "NOT_FOUND"
		case domain.KindForbidden:
			code = fiber.StatusForbidden
			errorCode = "FORBIDDEN"
		case domain.KindConflict:
			code = fiber.StatusConflict
			errorCode = "CONFLICT"
		case domain.KindDependency:
			code = fiber.StatusBadGateway
			errorCode = "DEPENDENCY_ERROR"
		default:
			message = "Internal server error"
		}
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message

		switch code {
		case fiber.StatusBadRequest:
			errorCode = "BAD_REQUEST"
		case fiber.StatusUnauthorized:
			errorCode = "UNAUTHORIZED"
		case fiber.StatusForbidden:
			errorCode = "FORBIDDEN"
		case fiber.StatusNotFound:
			errorCode = "NOT_FOUND"
		case fiber.StatusConflict:
			errorCode = "CONFLICT"
		case fiber.StatusUnprocessableEntity:
			errorCode = "VALIDATION_ERROR"
		}
	}

	traceID := uuid.New().String()[:8]

	return c.Status(code).JSON(ErrorResponse{
		Code:    errorCode,
		Message: message,
		TraceID: traceID,
	})
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}
