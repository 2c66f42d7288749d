package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests once limiter runs out of tokens.
// Rejections use the menu API envelope so clients can parse them.
func RateLimit(limiter *rate.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !limiter.Allow() {
			rateLimitRejects.Inc()
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"err":  "Rate limit exceeded",
				"data": nil,
			})
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(int(limiter.Limit())))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))
		return c.Next()
	}
}
