package handlers

import (
	"errors"

	"hansei-os/services"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps engine errors onto HTTP statuses. Anything unrecognized is a
// storage-layer failure and surfaces as 500 with the cause attached.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrProgressNotFound),
		errors.Is(err, services.ErrHorizonNotFound),
		errors.Is(err, services.ErrProofNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrProgressConflict):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrNotOnboarded),
		errors.Is(err, services.ErrTerminalBelt),
		errors.Is(err, services.ErrNotEligible),
		errors.Is(err, services.ErrInvalidPEI),
		errors.Is(err, services.ErrInvalidHorizonLevel),
		errors.Is(err, services.ErrInvalidParentHorizon),
		errors.Is(err, services.ErrProofVerified):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, msg string, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}
