// handlers/progression_routes.go
package handlers

import (
	"time"

	"hansei-os/middleware"
	"hansei-os/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(app *fiber.App, progressService *services.ProgressService) {
	// 🔐 Secured routes: require user context from the gateway.
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/user/onboarding/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		progress, err := progressService.CompleteOnboarding(userID, time.Now().UTC())
		if err != nil {
			return fail(c, "failed to complete onboarding", err)
		}
		return c.JSON(progress)
	})

	securedGroup.Get("/user/belt", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		now := time.Now().UTC()

		evaluated, signals, err := progressService.Evaluate(userID, now)
		if err != nil {
			return fail(c, "failed to evaluate belt progress", err)
		}

		response := fiber.Map{
			"progress":            evaluated,
			"belt_display_name":   evaluated.CurrentBelt.DisplayName(),
			"progress_percentage": services.ProgressPercentage(evaluated, signals, now),
		}
		if estimated := services.EstimateEligibleDate(evaluated, now); estimated != nil {
			response["estimated_eligible_date"] = estimated
		}
		return c.JSON(response)
	})

	securedGroup.Post("/user/belt/award", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		progress, err := progressService.AwardNextBelt(userID, time.Now().UTC())
		if err != nil {
			return fail(c, "belt award failed", err)
		}
		return c.JSON(fiber.Map{
			"message":           "belt awarded",
			"belt_display_name": progress.CurrentBelt.DisplayName(),
			"progress":          progress,
		})
	})
}
