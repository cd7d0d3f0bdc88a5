// handlers/proof_routes.go
package handlers

import (
	"time"

	"hansei-os/middleware"
	"hansei-os/models"
	"hansei-os/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGoalProofRoutes(app *fiber.App, proofService *services.GoalProofService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/user/proofs", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var proof models.GoalProof
		if err := c.BodyParser(&proof); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		created, err := proofService.Create(userID, &proof)
		if err != nil {
			return fail(c, "failed to create goal proof", err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	securedGroup.Get("/user/proofs", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if horizonID := c.Query("horizon_id"); horizonID != "" {
			proofs, err := proofService.ForHorizon(userID, horizonID)
			if err != nil {
				return fail(c, "failed to fetch proofs", err)
			}
			return c.JSON(proofs)
		}

		proofs, err := proofService.List(userID)
		if err != nil {
			return fail(c, "failed to fetch proofs", err)
		}
		return c.JSON(proofs)
	})

	// Multipart upload: field "file" + optional "description".
	securedGroup.Post("/user/proofs/:id/evidence", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		file, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "evidence file is required",
				"cause": err.Error(),
			})
		}

		proof, err := proofService.AttachEvidence(userID, c.Params("id"), file, c.FormValue("description"))
		if err != nil {
			return fail(c, "failed to attach evidence", err)
		}
		return c.JSON(proof)
	})

	securedGroup.Post("/user/proofs/:id/verify", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		proof, err := proofService.MarkVerified(userID, c.Params("id"), time.Now().UTC())
		if err != nil {
			return fail(c, "failed to mark proof verified", err)
		}
		return c.JSON(proof)
	})
}
