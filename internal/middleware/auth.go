package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// APIKey guards routes with a shared key. An empty key disables the guard.
func APIKey(key string, log *zap.Logger) fiber.Handler {
	want := []byte(key)

	return func(c *fiber.Ctx) error {
		if len(want) == 0 {
			return c.Next()
		}

		if subtle.ConstantTimeCompare([]byte(presentedKey(c)), want) != 1 {
			log.Warn("rejected request", zap.String("path", c.Path()), zap.String("ip", c.IP()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid API Key"})
		}
		return c.Next()
	}
}

// presentedKey looks at the apikey header, then X-API-Key, then ?apikey=.
func presentedKey(c *fiber.Ctx) string {
	for _, h := range []string{"apikey", "X-API-Key"} {
		if v := c.Get(h); v != "" {
			return v
		}
	}
	return c.Query("apikey")
}
