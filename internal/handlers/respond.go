package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexus/zapcampaign/internal/whatsapp"
)

// fail answers with the route's failure status and the error message.
// Input problems are 400, everything else 500.
func fail(c *fiber.Ctx, status string, err error) error {
	code := fiber.StatusInternalServerError
	if whatsapp.IsValidation(err) {
		code = fiber.StatusBadRequest
	}
	return c.Status(code).JSON(fiber.Map{"status": status, "error": err.Error()})
}

func badRequest(c *fiber.Ctx, status, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": status, "error": msg})
}
