// services/applications.go - Trial applications and their decision workflow
package services

import (
	"context"
	"errors"
	"fmt"

	"scoutlink/models"
)

// ApplicationWithTrial is a player's view of one of their applications.
type ApplicationWithTrial struct {
	models.TrialApplication
	Trial *models.Trial `json:"trial"`
}

// ApplicationWithPlayer is a trial creator's view of an applicant.
type ApplicationWithPlayer struct {
	models.TrialApplication
	Player        *models.UserSummary   `json:"player"`
	PlayerProfile *models.PlayerProfile `json:"playerProfile"`
}

type ApplicationService struct {
	store Store
}

func NewApplicationService(store Store) *ApplicationService {
	return &ApplicationService{store: store}
}

// Apply files a pending application from the player. Applying twice to the
// same trial returns ErrDuplicateApplication.
func (s *ApplicationService) Apply(ctx context.Context, p Principal, trialID uint, message *string) (*models.TrialApplication, error) {
	if p.Role != models.RolePlayer {
		return nil, ErrForbidden
	}
	if _, err := s.store.GetTrial(ctx, trialID); err != nil {
		return nil, err
	}

	app := &models.TrialApplication{
		TrialID:  trialID,
		PlayerID: p.UserID,
		Status:   models.ApplicationPending,
		Message:  message,
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// UpdateStatus decides an application. Only the creator of the trial may
// decide, and only while the application is pending. Setting a pending
// application to pending changes nothing.
func (s *ApplicationService) UpdateStatus(ctx context.Context, p Principal, applicationID uint, status string) (*models.TrialApplication, error) {
	target, ok := models.ParseApplicationStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	var result *models.TrialApplication
	err := s.store.WithTx(ctx, func(tx Store) error {
		app, err := tx.GetApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		trial, err := tx.GetTrial(ctx, app.TrialID)
		if err != nil {
			return err
		}
		if trial.CreatorID != p.UserID {
			return ErrForbidden
		}
		if app.Status.IsTerminal() {
			return ErrApplicationFinalized
		}
		if target == app.Status {
			result = app
			return nil
		}

		changed, err := tx.TransitionApplication(ctx, app.ID, models.ApplicationPending, target)
		if err != nil {
			return err
		}
		if !changed {
			return ErrApplicationFinalized
		}
		result, err = tx.GetApplication(ctx, app.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ForPlayer lists the player's own applications with their trials.
func (s *ApplicationService) ForPlayer(ctx context.Context, p Principal) ([]ApplicationWithTrial, error) {
	if p.Role != models.RolePlayer {
		return nil, ErrForbidden
	}
	apps, err := s.store.ListApplicationsByPlayer(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	ids := make([]uint, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.TrialID)
	}
	trials, err := s.store.GetTrialsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ApplicationWithTrial, 0, len(apps))
	for _, a := range apps {
		out = append(out, ApplicationWithTrial{TrialApplication: a, Trial: trials[a.TrialID]})
	}
	return out, nil
}

// ForTrial lists applicants of a trial. Only the trial's creator may see them.
func (s *ApplicationService) ForTrial(ctx context.Context, p Principal, trialID uint) ([]ApplicationWithPlayer, error) {
	trial, err := s.store.GetTrial(ctx, trialID)
	if err != nil {
		return nil, err
	}
	if trial.CreatorID != p.UserID {
		return nil, ErrForbidden
	}

	apps, err := s.store.ListApplicationsByTrial(ctx, trialID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	ids := make([]uint, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.PlayerID)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ApplicationWithPlayer, 0, len(apps))
	for _, a := range apps {
		row := ApplicationWithPlayer{TrialApplication: a}
		if u, ok := users[a.PlayerID]; ok {
			summary := u.Summary()
			row.Player = &summary
		}
		profile, err := s.store.GetProfile(ctx, models.RolePlayer, a.PlayerID)
		switch {
		case err == nil:
			row.PlayerProfile = profile.(*models.PlayerProfile)
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}
