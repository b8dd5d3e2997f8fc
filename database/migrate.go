// database/migrate.go - Database Migration Runner
package database

import (
	"fmt"

	"scoutlink/logging"
	"scoutlink/models"

	"gorm.io/gorm"
)

// RunMigrations creates or updates every table and index.
func RunMigrations(db *gorm.DB) error {
	logging.Info().Msg("running database migrations")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.PlayerProfile{},
		&models.ScoutProfile{},
		&models.AcademyProfile{},
		&models.Video{},
		&models.Trial{},
		&models.TrialApplication{},
		&models.Message{},
		&models.ScoutInterest{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return err
	}

	logging.Info().Msg("migrations completed")
	return nil
}

// createIndexes adds the composite indexes the struct tags do not express.
func createIndexes(db *gorm.DB) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(sender_id, receiver_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_scout_interests_player_type ON scout_interests(player_id, type)",
		"CREATE INDEX IF NOT EXISTS idx_videos_user_created ON videos(user_id, created_at DESC)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
