// services/interests.go - Scout interest log
package services

import (
	"context"
	"errors"
	"fmt"

	"scoutlink/models"
	"scoutlink/validation"
)

// InterestInput records one scout action on a player.
type InterestInput struct {
	PlayerID   uint   `json:"playerId" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=viewed_profile watched_video added_to_watchlist"`
	ResourceID *uint  `json:"resourceId"`
}

// InterestWithScout is a player's view of who showed interest.
type InterestWithScout struct {
	models.ScoutInterest
	Scout        *models.UserSummary  `json:"scout"`
	ScoutProfile *models.ScoutProfile `json:"scoutProfile"`
	Video        *models.Video        `json:"video,omitempty"`
}

// InterestWithPlayer is a scout's view of their own log.
type InterestWithPlayer struct {
	models.ScoutInterest
	Player *models.UserSummary `json:"player"`
}

type InterestService struct {
	store Store
}

func NewInterestService(store Store) *InterestService {
	return &InterestService{store: store}
}

// Record appends an interest entry. A watched_video entry must reference a
// video uploaded by the player.
func (s *InterestService) Record(ctx context.Context, p Principal, in InterestInput) (*models.ScoutInterest, error) {
	if p.Role != models.RoleScout {
		return nil, ErrForbidden
	}

	player, err := s.store.GetUser(ctx, in.PlayerID)
	if err != nil {
		return nil, err
	}
	if player.Role != models.RolePlayer {
		return nil, validation.NewFieldError("playerId", "playerId must reference a player")
	}

	kind := models.InterestType(in.Type)
	switch kind {
	case models.InterestViewedProfile, models.InterestAddedToWatchlist:
	case models.InterestWatchedVideo:
		if in.ResourceID == nil {
			return nil, validation.NewFieldError("resourceId", "resourceId is required for watched_video")
		}
		video, err := s.store.GetVideo(ctx, *in.ResourceID)
		if errors.Is(err, ErrNotFound) || (err == nil && video.UserID != in.PlayerID) {
			return nil, validation.NewFieldError("resourceId", "resourceId must be a video of the player")
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, validation.NewFieldError("type", "type must be one of: viewed_profile watched_video added_to_watchlist")
	}

	interest := &models.ScoutInterest{
		ScoutID:    p.UserID,
		PlayerID:   in.PlayerID,
		Type:       kind,
		ResourceID: in.ResourceID,
	}
	if err := s.store.CreateInterest(ctx, interest); err != nil {
		return nil, fmt.Errorf("create interest: %w", err)
	}
	return interest, nil
}

// ForPlayer lists interest shown in playerID with scout details.
func (s *InterestService) ForPlayer(ctx context.Context, playerID uint) ([]InterestWithScout, error) {
	interests, err := s.store.ListInterestsByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(interests))
	for _, i := range interests {
		ids = append(ids, i.ScoutID)
	}
	scouts, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	profiles := make(map[uint]*models.ScoutProfile)
	out := make([]InterestWithScout, 0, len(interests))
	for _, interest := range interests {
		row := InterestWithScout{ScoutInterest: interest}
		if u, ok := scouts[interest.ScoutID]; ok {
			summary := u.PublicSummary()
			row.Scout = &summary
		}

		profile, seen := profiles[interest.ScoutID]
		if !seen {
			p, err := s.store.GetProfile(ctx, models.RoleScout, interest.ScoutID)
			switch {
			case err == nil:
				profile = p.(*models.ScoutProfile)
			case !errors.Is(err, ErrNotFound):
				return nil, err
			}
			profiles[interest.ScoutID] = profile
		}
		row.ScoutProfile = profile

		if interest.Type == models.InterestWatchedVideo && interest.ResourceID != nil {
			video, err := s.store.GetVideo(ctx, *interest.ResourceID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			row.Video = video
		}
		out = append(out, row)
	}
	return out, nil
}

// ForScout lists the scout's own log. Only that scout may read it.
func (s *InterestService) ForScout(ctx context.Context, p Principal, scoutID uint) ([]InterestWithPlayer, error) {
	if p.UserID != scoutID || p.Role != models.RoleScout {
		return nil, ErrForbidden
	}
	interests, err := s.store.ListInterestsByScout(ctx, scoutID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(interests))
	for _, i := range interests {
		ids = append(ids, i.PlayerID)
	}
	players, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]InterestWithPlayer, 0, len(interests))
	for _, interest := range interests {
		row := InterestWithPlayer{ScoutInterest: interest}
		if u, ok := players[interest.PlayerID]; ok {
			summary := u.PublicSummary()
			row.Player = &summary
		}
		out = append(out, row)
	}
	return out, nil
}
