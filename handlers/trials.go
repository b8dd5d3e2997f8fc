// handlers/trials.go - Trial postings
package handlers

import (
	"scoutlink/middleware"
	"scoutlink/services"
	"scoutlink/utils"
	"scoutlink/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateTrialRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Organization string  `json:"organization" validate:"required,max=200"`
	Location     string  `json:"location" validate:"required,max=255"`
	Date         string  `json:"date" validate:"required"`
	Position     *string `json:"position" validate:"omitempty,max=50"`
	AgeGroup     *string `json:"ageGroup" validate:"omitempty,max=50"`
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	Requirements *string `json:"requirements" validate:"omitempty,max=5000"`
	ImageURL     *string `json:"imageUrl" validate:"omitempty,max=500"`
}

func ListTrials(c *fiber.Ctx) error {
	trials, err := trialService.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(trials)
}

func GetTrial(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	trial, err := trialService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "Trial not found")
	}
	return c.JSON(trial)
}

func GetCreatorTrials(c *fiber.Ctx) error {
	creatorID, err := utils.ParamID(c, "creatorId")
	if err != nil {
		return err
	}
	trials, err := trialService.ByCreator(c.UserContext(), creatorID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(trials)
}

// CreateTrial is restricted to academies by the route.
func CreateTrial(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	var req CreateTrialRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	date, ok := utils.ParseDate(req.Date)
	if !ok {
		return fail(c, validation.NewFieldError("date", "date must be a valid date"))
	}

	trial, err := trialService.Create(c.UserContext(), p, services.TrialInput{
		Title:        req.Title,
		Organization: req.Organization,
		Location:     req.Location,
		Date:         date,
		Position:     req.Position,
		AgeGroup:     req.AgeGroup,
		Description:  req.Description,
		Requirements: req.Requirements,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(trial)
}
