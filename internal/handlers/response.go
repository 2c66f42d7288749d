package handlers

import (
	"log/slog"

	"menusvc/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Response is the envelope of every menu API reply. Exactly one of Err and Data is set.
type Response struct {
	Err  *string     `json:"err"`
	Data interface{} `json:"data"`
}

func respondData(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(Response{Data: data})
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Err: &message})
}

// respondInternalError logs the cause and replies 500.
func respondInternalError(c *fiber.Ctx, err error) error {
	slog.Error("menu request failed",
		"request_id", middleware.GetRequestID(c),
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return respondError(c, fiber.StatusInternalServerError, "Internal Server Error: "+err.Error())
}

// NotFoundPage serves the static 404 page.
func NotFoundPage(page []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Status(fiber.StatusNotFound).Send(page)
	}
}
