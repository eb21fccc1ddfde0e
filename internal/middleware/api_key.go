package middleware

import (
	"crypto/subtle"
	"strings"

	"vibejobs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const apiKeyHeader = "x-api-key"

// RequireAPIKey accepts the key from the x-api-key header or the apiKey query
// parameter. expected may be a bcrypt hash. An empty expected key rejects
// every request.
func RequireAPIKey(expected string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(apiKeyHeader)
		if got == "" {
			got = c.Query("apiKey")
		}
		if !apiKeyMatches(expected, got) {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

func apiKeyMatches(expected, got string) bool {
	if expected == "" || got == "" {
		return false
	}
	if strings.HasPrefix(expected, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(expected), []byte(got)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
