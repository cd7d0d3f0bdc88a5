// handlers/verification_routes.go
package handlers

import (
	"time"

	"hansei-os/middleware"
	"hansei-os/services"

	"github.com/gofiber/fiber/v2"
)

func SetupVerificationRoutes(app *fiber.App, tokenService *services.MasteryTokenService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/user/tokens", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		token, err := tokenService.Issue(userID, time.Now().UTC())
		if err != nil {
			return fail(c, "failed to issue mastery token", err)
		}
		return c.JSON(fiber.Map{"token": token})
	})

	// Public verification: no user context. Anyone holding a token can check
	// it. An invalid token is a normal 200 response with is_valid=false.
	app.Post("/verify", func(c *fiber.Ctx) error {
		var body struct {
			Token string `json:"token"`
		}
		if err := c.BodyParser(&body); err != nil || body.Token == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "token is required",
			})
		}

		return c.JSON(tokenService.Verify(body.Token))
	})
}
