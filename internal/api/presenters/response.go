package presenters

import (
	"PantryPal/domain"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Error   any    `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes the failure envelope. When err belongs to the domain
// taxonomy its status wins over statusCode. Upstream and unclassified errors
// are logged and replaced by a generic message.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	status := StatusFor(err, statusCode)

	var detail any
	switch {
	case err == nil:
	case status == fiber.StatusBadGateway:
		log.Errorw("upstream failure", "method", c.Method(), "path", c.Path(), "error", err)
		detail = domain.MessageUpstreamError
	case status >= fiber.StatusInternalServerError:
		log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		detail = domain.MessageInternalError
	default:
		detail = validationDetail(err)
	}

	return c.Status(status).JSON(Response{
		Status:  false,
		Message: message,
		Error:   detail,
	})
}

// StatusFor maps an error to its HTTP status, using fallback for errors outside the taxonomy.
func StatusFor(err error, fallback int) int {
	var fe *fiber.Error
	var ve validator.ValidationErrors
	switch {
	case err == nil:
		return fallback
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.As(err, &ve):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrUpstream):
		return fiber.StatusBadGateway
	case errors.As(err, &fe):
		return fe.Code
	default:
		return fallback
	}
}

func validationDetail(err error) any {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
