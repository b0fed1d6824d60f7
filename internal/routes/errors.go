package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// JSONErrorHandler renders every handler error as a {"message": ...}
// JSON body. fiber.Error statuses pass through; anything else is a 500
// with a generic message so internals never leak to clients.
func JSONErrorHandler(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}
	return c.Status(status).JSON(fiber.Map{"message": message})
}
