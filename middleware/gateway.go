// middleware/gateway.go
package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GatewayAuthMiddleware rejects any request that does not carry the shared
// service token the Gateway injects. Applied globally, before CORS and routes.
func GatewayAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("HANSEI_SERVICE_TOKEN")
	if expectedToken == "" {
		log.Fatal("❌ HANSEI_SERVICE_TOKEN is not set — service cannot authenticate Gateway")
	}

	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get("Authorization"))
		if token == "" {
			log.Printf("🚫 [GATEWAY_AUTH] Missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "gateway authentication token missing",
			})
		}

		if token != expectedToken {
			log.Printf("❌ [GATEWAY_AUTH] Invalid token for %s (prefix %.8s...)", c.Path(), token)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid gateway authentication token",
			})
		}

		return c.Next()
	}
}

// bearerToken strips the "Bearer " scheme. The Gateway may also send the raw
// token value without a scheme; both forms are accepted.
func bearerToken(header string) string {
	if token := strings.TrimPrefix(header, "Bearer "); token != header {
		return token
	}
	return header
}
