// handlers/horizon_routes.go
package handlers

import (
	"time"

	"hansei-os/middleware"
	"hansei-os/models"
	"hansei-os/services"

	"github.com/gofiber/fiber/v2"
)

func SetupHorizonRoutes(app *fiber.App, horizonService *services.HorizonService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/user/horizons", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var horizon models.Horizon
		if err := c.BodyParser(&horizon); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		created, err := horizonService.Create(userID, &horizon)
		if err != nil {
			return fail(c, "failed to create horizon", err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	securedGroup.Get("/user/horizons", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if level := c.Query("level"); level != "" {
			horizons, err := horizonService.ByLevel(userID, models.HorizonLevel(level))
			if err != nil {
				return fail(c, "failed to fetch horizons", err)
			}
			return c.JSON(horizons)
		}

		horizons, err := horizonService.List(userID)
		if err != nil {
			return fail(c, "failed to fetch horizons", err)
		}
		return c.JSON(horizons)
	})

	securedGroup.Patch("/user/horizons/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var body struct {
			Title       string          `json:"title"`
			Description string          `json:"description"`
			Quadrant    models.Quadrant `json:"quadrant"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		horizon, err := horizonService.Update(userID, c.Params("id"), body.Title, body.Description, body.Quadrant)
		if err != nil {
			return fail(c, "failed to update horizon", err)
		}
		return c.JSON(horizon)
	})

	securedGroup.Post("/user/horizons/:id/achieve", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		horizon, err := horizonService.Achieve(userID, c.Params("id"), time.Now().UTC())
		if err != nil {
			return fail(c, "failed to mark horizon achieved", err)
		}
		return c.JSON(horizon)
	})

	securedGroup.Post("/user/horizons/:id/archive", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		horizon, err := horizonService.Archive(userID, c.Params("id"))
		if err != nil {
			return fail(c, "failed to archive horizon", err)
		}
		return c.JSON(horizon)
	})
}
