package httpapi

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/rocket-sim-console/internal/rocket"
	"github.com/i474232898/rocket-sim-console/internal/store"
)

// StatusFor maps an error class to the HTTP status returned to clients.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, rocket.ErrInputRange):
		return fiber.StatusBadRequest
	case errors.Is(err, rocket.ErrConstruction):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, rocket.ErrResourceNotFound):
		return fiber.StatusFailedDependency
	case errors.Is(err, rocket.ErrDataUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the centralized JSON error response. Classified errors
// expose their user message; the full cause only goes to the log.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": fe.Message,
		})
	}

	log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)

	message := rocket.UserMessage(err)
	if errors.Is(err, store.ErrNotFound) {
		message = err.Error()
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"kind":    rocket.KindName(err),
		"message": message,
	})
}
