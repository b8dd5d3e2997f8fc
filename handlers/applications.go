// handlers/applications.go - Trial applications
package handlers

import (
	"scoutlink/metrics"
	"scoutlink/middleware"
	"scoutlink/models"
	"scoutlink/utils"

	"github.com/gofiber/fiber/v2"
)

type ApplyRequest struct {
	TrialID uint    `json:"trialId" validate:"required"`
	Message *string `json:"message" validate:"omitempty,max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListApplications returns the player's own applications, or for an academy
// the applicants of the trial named by ?trialId=.
func ListApplications(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}

	switch p.Role {
	case models.RolePlayer:
		return PlayerApplications(c)
	case models.RoleAcademy:
		trialID := uint(utils.QueryInt(c, "trialId", 0))
		if trialID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "trialId query parameter is required")
		}
		apps, err := applicationService.ForTrial(c.UserContext(), p, trialID)
		if err != nil {
			return fail(c, err, "Trial not found")
		}
		return c.JSON(apps)
	}
	return fiber.NewError(fiber.StatusForbidden, "Forbidden")
}

func PlayerApplications(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	apps, err := applicationService.ForPlayer(c.UserContext(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(apps)
}

func TrialApplications(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	trialID, err := utils.ParamID(c, "trialId")
	if err != nil {
		return err
	}
	apps, err := applicationService.ForTrial(c.UserContext(), p, trialID)
	if err != nil {
		return fail(c, err, "Trial not found")
	}
	return c.JSON(apps)
}

func Apply(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	var req ApplyRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	app, err := applicationService.Apply(c.UserContext(), p, req.TrialID, req.Message)
	if err != nil {
		return fail(c, err, "Trial not found")
	}
	metrics.ApplicationsSubmitted.Inc()
	return c.Status(fiber.StatusCreated).JSON(app)
}

// UpdateApplicationStatus lets the trial's creator accept or reject a pending application.
func UpdateApplicationStatus(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	app, err := applicationService.UpdateStatus(c.UserContext(), p, id, req.Status)
	if err != nil {
		return fail(c, err, "Application not found")
	}
	metrics.ApplicationDecisions.WithLabelValues(string(app.Status)).Inc()
	return c.JSON(app)
}
