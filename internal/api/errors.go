package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

// writeError maps the error taxonomy (§7) onto an HTTP status and a
// uniform {error} JSON body, the way message-service handlers translate
// sentinel errors into status codes.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidContent):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAuthRequired):
		status = fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrAuthInvalid):
		status = fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrDependencyUnavailable):
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
