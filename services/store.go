// services/store.go - Storage abstraction over the relational database
package services

import (
	"context"
	"time"

	"scoutlink/models"
)

// PlayerFilter narrows the discover listing of player profiles.
type PlayerFilter struct {
	Position  string
	Location  string
	EliteOnly bool
	Limit     int
	Offset    int
}

// VideoTotals aggregates a user's uploads.
type VideoTotals struct {
	Count int64
	Views int64
	Likes int64
}

// Store exposes typed persistence operations per entity. Every method that
// enforces a uniqueness rule relies on a database index, never on a pre-check.
type Store interface {
	// WithTx runs fn against a Store bound to a single transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*models.User, error)
	UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error)

	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	GetProfile(ctx context.Context, role models.Role, userID uint) (models.Profile, error)
	CreateProfile(ctx context.Context, profile models.Profile) error
	SaveProfile(ctx context.Context, profile models.Profile) error
	ListPlayerProfiles(ctx context.Context, filter PlayerFilter) ([]models.PlayerProfile, error)

	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideo(ctx context.Context, id uint) (*models.Video, error)
	ListVideosByUser(ctx context.Context, userID uint) ([]models.Video, error)
	ListRecentVideos(ctx context.Context, limit, offset int) ([]models.Video, error)
	IncrementVideoViews(ctx context.Context, id uint) (*models.Video, error)
	IncrementVideoLikes(ctx context.Context, id uint) (*models.Video, error)
	VideoTotals(ctx context.Context, userID uint) (VideoTotals, error)

	CreateTrial(ctx context.Context, trial *models.Trial) error
	GetTrial(ctx context.Context, id uint) (*models.Trial, error)
	ListTrials(ctx context.Context) ([]models.Trial, error)
	ListTrialsByCreator(ctx context.Context, creatorID uint) ([]models.Trial, error)
	GetTrialsByIDs(ctx context.Context, ids []uint) (map[uint]*models.Trial, error)

	CreateApplication(ctx context.Context, app *models.TrialApplication) error
	GetApplication(ctx context.Context, id uint) (*models.TrialApplication, error)
	ListApplicationsByPlayer(ctx context.Context, playerID uint) ([]models.TrialApplication, error)
	ListApplicationsByTrial(ctx context.Context, trialID uint) ([]models.TrialApplication, error)
	// TransitionApplication sets the status only if the current status is from.
	// It reports whether a row changed.
	TransitionApplication(ctx context.Context, id uint, from, to models.ApplicationStatus) (bool, error)
	CountApplicationsByStatus(ctx context.Context, playerID uint) (map[models.ApplicationStatus]int64, error)
	CountApplicationsForCreator(ctx context.Context, creatorID uint) (map[models.ApplicationStatus]int64, error)

	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessagesForUser(ctx context.Context, userID uint) ([]models.Message, error)
	ListMessagesBetween(ctx context.Context, userID, partnerID uint) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, receiverID uint, ids []uint) (int64, error)
	CountUnread(ctx context.Context, receiverID uint) (int64, error)

	CreateInterest(ctx context.Context, interest *models.ScoutInterest) error
	ListInterestsByPlayer(ctx context.Context, playerID uint) ([]models.ScoutInterest, error)
	ListInterestsByScout(ctx context.Context, scoutID uint) ([]models.ScoutInterest, error)
	CountInterestsByType(ctx context.Context, playerID uint) (map[models.InterestType]int64, error)
	CountDistinctScouts(ctx context.Context, playerID uint) (int64, error)
}
