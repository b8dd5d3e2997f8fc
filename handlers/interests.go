// handlers/interests.go - Scout interest log
package handlers

import (
	"scoutlink/metrics"
	"scoutlink/middleware"
	"scoutlink/models"
	"scoutlink/services"
	"scoutlink/utils"

	"github.com/gofiber/fiber/v2"
)

// RecordInterest is restricted to scouts by the route.
func RecordInterest(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	var req services.InterestInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	interest, err := interestService.Record(c.UserContext(), p, req)
	if err != nil {
		return fail(c, err, "Player not found")
	}
	metrics.ScoutInterests.WithLabelValues(string(interest.Type)).Inc()
	return c.Status(fiber.StatusCreated).JSON(interest)
}

// ListInterests returns a scout's own log, or the interest shown in a player.
func ListInterests(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}

	switch p.Role {
	case models.RoleScout:
		rows, err := interestService.ForScout(c.UserContext(), p, p.UserID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(rows)
	case models.RolePlayer:
		rows, err := interestService.ForPlayer(c.UserContext(), p.UserID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(rows)
	}
	return fiber.NewError(fiber.StatusForbidden, "Forbidden")
}

// PlayerInterests is public.
func PlayerInterests(c *fiber.Ctx) error {
	playerID, err := utils.ParamID(c, "playerId")
	if err != nil {
		return err
	}
	rows, err := interestService.ForPlayer(c.UserContext(), playerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

func ScoutInterests(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	scoutID, err := utils.ParamID(c, "scoutId")
	if err != nil {
		return err
	}
	rows, err := interestService.ForScout(c.UserContext(), p, scoutID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}
