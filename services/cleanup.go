package services

import (
	"context"
	"time"

	"scoutlink/logging"
)

// CleanupService removes stale rows. It runs on demand; there is no background worker.
type CleanupService struct {
	store Store
	now   func() time.Time
}

func NewCleanupService(store Store) *CleanupService {
	return &CleanupService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// PurgeExpiredSessions deletes every session whose expiry has passed.
func (s *CleanupService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	log := logging.WithComponent("cleanup")

	n, err := s.store.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to purge expired sessions")
		return 0, err
	}

	if n == 0 {
		log.Debug().Msg("no expired sessions to clean up")
		return 0, nil
	}

	log.Info().Int64("count", n).Msg("cleaned up expired sessions")
	return n, nil
}
