package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/llante/llante_site/internal/submission"
)

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

// accepted is the single answer for every submission the visitor should
// consider delivered, honeypot drops included.
func accepted(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

func invalid(c fiber.Ctx, fields []submission.FieldError) error {
	body := fiber.Map{"error": "Invalid"}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func serverError(c fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
}
