// handlers/daily_routes.go
package handlers

import (
	"strconv"
	"time"

	"hansei-os/middleware"
	"hansei-os/models"
	"hansei-os/services"

	"github.com/gofiber/fiber/v2"
)

func SetupDailyLogRoutes(app *fiber.App, logService *services.DailyLogService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// Upsert: a calendar date has exactly one log or none.
	securedGroup.Put("/user/logs", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var log models.DailyLog
		if err := c.BodyParser(&log); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		saved, progress, err := logService.Save(userID, &log, time.Now().UTC())
		if err != nil {
			return fail(c, "failed to save daily log", err)
		}

		response := fiber.Map{"log": saved}
		if progress != nil {
			response["progress"] = progress
		}
		return c.JSON(response)
	})

	securedGroup.Get("/user/logs/today", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		log, err := logService.ForDate(userID, models.DateOf(time.Now().UTC()))
		if err != nil {
			return fail(c, "failed to fetch today's log", err)
		}
		if log == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "no log for today",
			})
		}
		return c.JSON(log)
	})

	securedGroup.Get("/user/logs/recent", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		days, _ := strconv.Atoi(c.Query("days", "7"))

		logs, err := logService.Recent(userID, days, time.Now().UTC())
		if err != nil {
			return fail(c, "failed to fetch recent logs", err)
		}
		return c.JSON(logs)
	})

	securedGroup.Get("/user/logs/range", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		start := c.Query("start")
		end := c.Query("end")
		if start == "" || end == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "start and end query params are required (YYYY-MM-DD)",
			})
		}

		logs, err := logService.Range(userID, start, end)
		if err != nil {
			return fail(c, "failed to fetch logs", err)
		}
		return c.JSON(logs)
	})

	securedGroup.Get("/user/logs/:date", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		date := c.Params("date")
		if _, err := time.Parse(models.DateLayout, date); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "date must be YYYY-MM-DD",
			})
		}

		log, err := logService.ForDate(userID, date)
		if err != nil {
			return fail(c, "failed to fetch log", err)
		}
		if log == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "no log for this date",
			})
		}
		return c.JSON(log)
	})
}
