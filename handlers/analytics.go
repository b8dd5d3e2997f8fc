// handlers/analytics.go - Dashboard numbers
package handlers

import (
	"scoutlink/middleware"

	"github.com/gofiber/fiber/v2"
)

func PlayerAnalytics(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	stats, err := analyticsService.Player(c.UserContext(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

func AcademyAnalytics(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	stats, err := analyticsService.Academy(c.UserContext(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}
