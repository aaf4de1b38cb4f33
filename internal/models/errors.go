package models

import (
	"log/slog"

	"devconnector/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// FieldError is one failed validation rule, serialized as {"msg": ..., "param": ...}.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// RespondValidationErrors writes the 400 envelope used for all input
// validation failures: {"errors":[{"msg":...},...]}.
func RespondValidationErrors(c *fiber.Ctx, errs []FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
}

// RespondMsg writes a single human-readable message body: {"msg":...}.
// Used for not-found and unauthorized outcomes.
func RespondMsg(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"msg": msg})
}

// RespondServerError logs the original cause server-side and degrades to the
// generic 500 body so internals never leak to clients.
func RespondServerError(c *fiber.Ctx, err error) error {
	observability.Logger.Error("request failed with server error",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return c.Status(fiber.StatusInternalServerError).SendString("Server error.")
}
