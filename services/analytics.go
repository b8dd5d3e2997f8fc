// services/analytics.go - Dashboard statistics
package services

import (
	"context"

	"scoutlink/models"
)

type PlayerAnalytics struct {
	VideoCount        int64                              `json:"videoCount"`
	TotalViews        int64                              `json:"totalViews"`
	TotalLikes        int64                              `json:"totalLikes"`
	ProfileViews      int64                              `json:"profileViews"`
	VideoWatches      int64                              `json:"videoWatches"`
	WatchlistAdds     int64                              `json:"watchlistAdds"`
	InterestedScouts  int64                              `json:"interestedScouts"`
	ApplicationCounts map[models.ApplicationStatus]int64 `json:"applications"`
}

type AcademyAnalytics struct {
	TrialCount        int                                `json:"trialCount"`
	ApplicationCounts map[models.ApplicationStatus]int64 `json:"applications"`
}

type AnalyticsService struct {
	store Store
}

func NewAnalyticsService(store Store) *AnalyticsService {
	return &AnalyticsService{store: store}
}

func (s *AnalyticsService) Player(ctx context.Context, p Principal) (*PlayerAnalytics, error) {
	if p.Role != models.RolePlayer {
		return nil, ErrForbidden
	}

	totals, err := s.store.VideoTotals(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	interests, err := s.store.CountInterestsByType(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	scouts, err := s.store.CountDistinctScouts(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.CountApplicationsByStatus(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	return &PlayerAnalytics{
		VideoCount:        totals.Count,
		TotalViews:        totals.Views,
		TotalLikes:        totals.Likes,
		ProfileViews:      interests[models.InterestViewedProfile],
		VideoWatches:      interests[models.InterestWatchedVideo],
		WatchlistAdds:     interests[models.InterestAddedToWatchlist],
		InterestedScouts:  scouts,
		ApplicationCounts: apps,
	}, nil
}

func (s *AnalyticsService) Academy(ctx context.Context, p Principal) (*AcademyAnalytics, error) {
	if p.Role != models.RoleAcademy {
		return nil, ErrForbidden
	}

	trials, err := s.store.ListTrialsByCreator(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.CountApplicationsForCreator(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return &AcademyAnalytics{TrialCount: len(trials), ApplicationCounts: apps}, nil
}
