package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Evictor drops cached responses after a write.
type Evictor interface {
	Evict()
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid topic ID")
	}
	return uint(id), nil
}
