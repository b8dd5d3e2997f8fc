// handlers/users.go - Public user lookup
package handlers

import (
	"scoutlink/utils"

	"github.com/gofiber/fiber/v2"
)

// GetUser returns the public summary of a user; email is never exposed here.
func GetUser(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	user, err := userStore.GetUser(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "User not found")
	}
	return c.JSON(user.PublicSummary())
}
