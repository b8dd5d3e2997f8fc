// handlers/profiles.go - Player, scout and academy profiles
package handlers

import (
	"scoutlink/middleware"
	"scoutlink/models"
	"scoutlink/services"
	"scoutlink/utils"
	"scoutlink/validation"

	"github.com/gofiber/fiber/v2"
)

func profileRole(c *fiber.Ctx) (models.Role, error) {
	role, ok := models.ParseRole(c.Params("role"))
	if !ok {
		return "", fiber.NewError(fiber.StatusNotFound, "Unknown profile type")
	}
	return role, nil
}

// decodeProfile picks the payload type for role, then decodes and validates the body into it.
func decodeProfile(c *fiber.Ctx, role models.Role) (services.ProfileInput, error) {
	in, err := services.NewProfileInput(role)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Unknown profile type")
	}
	if err := c.BodyParser(in); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		return nil, verr
	}
	return in, nil
}

// GetProfile is public.
func GetProfile(c *fiber.Ctx) error {
	role, err := profileRole(c)
	if err != nil {
		return err
	}
	userID, err := utils.ParamID(c, "userId")
	if err != nil {
		return err
	}

	profile, user, err := profileService.Get(c.UserContext(), role, userID)
	if err != nil {
		return fail(c, err, "Profile not found")
	}
	return c.JSON(fiber.Map{"profile": profile, "user": user})
}

func CreateProfile(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	role, err := profileRole(c)
	if err != nil {
		return err
	}
	if p.Role != role {
		return fiber.NewError(fiber.StatusForbidden, "Forbidden")
	}
	in, err := decodeProfile(c, role)
	if err != nil {
		return fail(c, err)
	}

	profile, err := profileService.Create(c.UserContext(), p, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"profile": profile})
}

// UpdateProfile only ever touches the caller's own profile.
func UpdateProfile(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	role, err := profileRole(c)
	if err != nil {
		return err
	}
	if p.Role != role {
		return fiber.NewError(fiber.StatusForbidden, "Forbidden")
	}
	in, err := decodeProfile(c, role)
	if err != nil {
		return fail(c, err)
	}

	profile, err := profileService.Update(c.UserContext(), p, in)
	if err != nil {
		return fail(c, err, "Profile not found")
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// ListPlayers backs the discover page.
func ListPlayers(c *fiber.Ctx) error {
	players, err := profileService.ListPlayers(c.UserContext(), services.PlayerFilter{
		Position:  c.Query("position"),
		Location:  c.Query("location"),
		EliteOnly: utils.QueryBool(c, "elite"),
		Limit:     utils.QueryInt(c, "limit", 20),
		Offset:    utils.QueryInt(c, "offset", 0),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(players)
}
