// services/trials.go - Trial postings
package services

import (
	"context"
	"strings"
	"time"

	"scoutlink/models"
	"scoutlink/validation"
)

// TrialInput describes a new trial posting.
type TrialInput struct {
	Title        string
	Organization string
	Location     string
	Date         time.Time
	Position     *string
	AgeGroup     *string
	Description  *string
	Requirements *string
	ImageURL     *string
}

type TrialService struct {
	store Store
}

func NewTrialService(store Store) *TrialService {
	return &TrialService{store: store}
}

// Create posts a trial owned by the calling academy.
func (s *TrialService) Create(ctx context.Context, p Principal, in TrialInput) (*models.Trial, error) {
	if p.Role != models.RoleAcademy {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, validation.NewFieldError("title", "title is required")
	}

	trial := &models.Trial{
		CreatorID:    p.UserID,
		Title:        strings.TrimSpace(in.Title),
		Organization: strings.TrimSpace(in.Organization),
		Location:     strings.TrimSpace(in.Location),
		Date:         in.Date.UTC(),
		Position:     in.Position,
		AgeGroup:     in.AgeGroup,
		Description:  in.Description,
		Requirements: in.Requirements,
		ImageURL:     in.ImageURL,
	}
	if err := s.store.CreateTrial(ctx, trial); err != nil {
		return nil, err
	}
	return trial, nil
}

func (s *TrialService) Get(ctx context.Context, id uint) (*models.Trial, error) {
	return s.store.GetTrial(ctx, id)
}

// List returns every trial, soonest first.
func (s *TrialService) List(ctx context.Context) ([]models.Trial, error) {
	return s.store.ListTrials(ctx)
}

func (s *TrialService) ByCreator(ctx context.Context, creatorID uint) ([]models.Trial, error) {
	return s.store.ListTrialsByCreator(ctx, creatorID)
}
