// services/store_gorm.go - GORM implementation of Store
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"scoutlink/models"

	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// ================== USERS & SESSIONS ==================

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.conn(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *GormStore) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*models.User, error) {
	result := make(map[uint]*models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []models.User
	if err := s.conn(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for i := range users {
		result[users[i].ID] = &users[i]
	}
	return result, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := s.conn(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.GetUser(ctx, id)
}

func (s *GormStore) CreateSession(ctx context.Context, session *models.Session) error {
	return s.conn(ctx).Create(session).Error
}

func (s *GormStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := s.conn(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

func (s *GormStore) DeleteSession(ctx context.Context, id string) error {
	return s.conn(ctx).Where("id = ?", id).Delete(&models.Session{}).Error
}

func (s *GormStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := s.conn(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

// ================== PROFILES ==================

func (s *GormStore) GetProfile(ctx context.Context, role models.Role, userID uint) (models.Profile, error) {
	var profile models.Profile
	switch role {
	case models.RolePlayer:
		profile = &models.PlayerProfile{}
	case models.RoleScout:
		profile = &models.ScoutProfile{}
	case models.RoleAcademy:
		profile = &models.AcademyProfile{}
	default:
		return nil, ErrNotFound
	}
	if err := s.conn(ctx).Where("user_id = ?", userID).First(profile).Error; err != nil {
		return nil, notFound(err)
	}
	return profile, nil
}

func (s *GormStore) CreateProfile(ctx context.Context, profile models.Profile) error {
	if err := s.conn(ctx).Create(profile).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrProfileExists
		}
		return fmt.Errorf("create %s profile: %w", profile.ProfileRole(), err)
	}
	return nil
}

func (s *GormStore) SaveProfile(ctx context.Context, profile models.Profile) error {
	if err := s.conn(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("save %s profile: %w", profile.ProfileRole(), err)
	}
	return nil
}

func (s *GormStore) ListPlayerProfiles(ctx context.Context, filter PlayerFilter) ([]models.PlayerProfile, error) {
	query := s.conn(ctx).Model(&models.PlayerProfile{})
	if filter.Position != "" {
		query = query.Where("LOWER(position) = ?", strings.ToLower(filter.Position))
	}
	if filter.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(filter.Location)+"%")
	}
	if filter.EliteOnly {
		query = query.Where("is_elite_prospect = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	profiles := []models.PlayerProfile{}
	if err := query.Order("id DESC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("list player profiles: %w", err)
	}
	return profiles, nil
}

// ================== VIDEOS ==================

func (s *GormStore) CreateVideo(ctx context.Context, video *models.Video) error {
	return s.conn(ctx).Create(video).Error
}

func (s *GormStore) GetVideo(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	if err := s.conn(ctx).First(&video, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &video, nil
}

func (s *GormStore) ListVideosByUser(ctx context.Context, userID uint) ([]models.Video, error) {
	videos := []models.Video{}
	err := s.conn(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&videos).Error
	return videos, err
}

func (s *GormStore) ListRecentVideos(ctx context.Context, limit, offset int) ([]models.Video, error) {
	videos := []models.Video{}
	err := s.conn(ctx).Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&videos).Error
	return videos, err
}

func (s *GormStore) IncrementVideoViews(ctx context.Context, id uint) (*models.Video, error) {
	return s.incrementVideo(ctx, id, "views")
}

func (s *GormStore) IncrementVideoLikes(ctx context.Context, id uint) (*models.Video, error) {
	return s.incrementVideo(ctx, id, "likes")
}

// incrementVideo bumps a counter column in SQL so concurrent requests never lose an update.
func (s *GormStore) incrementVideo(ctx context.Context, id uint, column string) (*models.Video, error) {
	res := s.conn(ctx).Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("increment video %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetVideo(ctx, id)
}

func (s *GormStore) VideoTotals(ctx context.Context, userID uint) (VideoTotals, error) {
	var totals VideoTotals
	err := s.conn(ctx).Model(&models.Video{}).
		Select("COUNT(*) AS count, COALESCE(SUM(views), 0) AS views, COALESCE(SUM(likes), 0) AS likes").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	return totals, err
}

// ================== TRIALS & APPLICATIONS ==================

func (s *GormStore) CreateTrial(ctx context.Context, trial *models.Trial) error {
	return s.conn(ctx).Create(trial).Error
}

func (s *GormStore) GetTrial(ctx context.Context, id uint) (*models.Trial, error) {
	var trial models.Trial
	if err := s.conn(ctx).First(&trial, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &trial, nil
}

func (s *GormStore) ListTrials(ctx context.Context) ([]models.Trial, error) {
	trials := []models.Trial{}
	err := s.conn(ctx).Order("date ASC, id ASC").Find(&trials).Error
	return trials, err
}

func (s *GormStore) ListTrialsByCreator(ctx context.Context, creatorID uint) ([]models.Trial, error) {
	trials := []models.Trial{}
	err := s.conn(ctx).Where("creator_id = ?", creatorID).Order("date ASC, id ASC").Find(&trials).Error
	return trials, err
}

func (s *GormStore) GetTrialsByIDs(ctx context.Context, ids []uint) (map[uint]*models.Trial, error) {
	result := make(map[uint]*models.Trial, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var trials []models.Trial
	if err := s.conn(ctx).Where("id IN ?", ids).Find(&trials).Error; err != nil {
		return nil, fmt.Errorf("load trials: %w", err)
	}
	for i := range trials {
		result[trials[i].ID] = &trials[i]
	}
	return result, nil
}

func (s *GormStore) CreateApplication(ctx context.Context, app *models.TrialApplication) error {
	if err := s.conn(ctx).Create(app).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateApplication
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (s *GormStore) GetApplication(ctx context.Context, id uint) (*models.TrialApplication, error) {
	var app models.TrialApplication
	if err := s.conn(ctx).First(&app, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &app, nil
}

func (s *GormStore) ListApplicationsByPlayer(ctx context.Context, playerID uint) ([]models.TrialApplication, error) {
	apps := []models.TrialApplication{}
	err := s.conn(ctx).Where("player_id = ?", playerID).Order("created_at DESC, id DESC").Find(&apps).Error
	return apps, err
}

func (s *GormStore) ListApplicationsByTrial(ctx context.Context, trialID uint) ([]models.TrialApplication, error) {
	apps := []models.TrialApplication{}
	err := s.conn(ctx).Where("trial_id = ?", trialID).Order("created_at ASC, id ASC").Find(&apps).Error
	return apps, err
}

func (s *GormStore) TransitionApplication(ctx context.Context, id uint, from, to models.ApplicationStatus) (bool, error) {
	res := s.conn(ctx).Model(&models.TrialApplication{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, fmt.Errorf("update application status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

type statusCount struct {
	Status models.ApplicationStatus
	Count  int64
}

func (s *GormStore) CountApplicationsByStatus(ctx context.Context, playerID uint) (map[models.ApplicationStatus]int64, error) {
	var rows []statusCount
	err := s.conn(ctx).Model(&models.TrialApplication{}).
		Select("status, COUNT(*) AS count").
		Where("player_id = ?", playerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return statusCounts(rows), nil
}

func (s *GormStore) CountApplicationsForCreator(ctx context.Context, creatorID uint) (map[models.ApplicationStatus]int64, error) {
	var rows []statusCount
	err := s.conn(ctx).Table("trial_applications").
		Select("trial_applications.status AS status, COUNT(*) AS count").
		Joins("JOIN trials ON trials.id = trial_applications.trial_id").
		Where("trials.creator_id = ?", creatorID).
		Group("trial_applications.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return statusCounts(rows), nil
}

func statusCounts(rows []statusCount) map[models.ApplicationStatus]int64 {
	counts := map[models.ApplicationStatus]int64{
		models.ApplicationPending:  0,
		models.ApplicationAccepted: 0,
		models.ApplicationRejected: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts
}

// ================== MESSAGES ==================

func (s *GormStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	return s.conn(ctx).Create(msg).Error
}

func (s *GormStore) ListMessagesForUser(ctx context.Context, userID uint) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.conn(ctx).Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (s *GormStore) ListMessagesBetween(ctx context.Context, userID, partnerID uint) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.conn(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, partnerID, partnerID, userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (s *GormStore) MarkMessagesRead(ctx context.Context, receiverID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.conn(ctx).Model(&models.Message{}).
		Where("id IN ? AND receiver_id = ? AND is_read = ?", ids, receiverID, false).
		UpdateColumn("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *GormStore) CountUnread(ctx context.Context, receiverID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&n).Error
	return n, err
}

// ================== SCOUT INTERESTS ==================

func (s *GormStore) CreateInterest(ctx context.Context, interest *models.ScoutInterest) error {
	return s.conn(ctx).Create(interest).Error
}

func (s *GormStore) ListInterestsByPlayer(ctx context.Context, playerID uint) ([]models.ScoutInterest, error) {
	interests := []models.ScoutInterest{}
	err := s.conn(ctx).Where("player_id = ?", playerID).Order("created_at DESC, id DESC").Find(&interests).Error
	return interests, err
}

func (s *GormStore) ListInterestsByScout(ctx context.Context, scoutID uint) ([]models.ScoutInterest, error) {
	interests := []models.ScoutInterest{}
	err := s.conn(ctx).Where("scout_id = ?", scoutID).Order("created_at DESC, id DESC").Find(&interests).Error
	return interests, err
}

func (s *GormStore) CountInterestsByType(ctx context.Context, playerID uint) (map[models.InterestType]int64, error) {
	var rows []struct {
		Type  models.InterestType
		Count int64
	}
	err := s.conn(ctx).Model(&models.ScoutInterest{}).
		Select("type, COUNT(*) AS count").
		Where("player_id = ?", playerID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := map[models.InterestType]int64{
		models.InterestViewedProfile:    0,
		models.InterestWatchedVideo:     0,
		models.InterestAddedToWatchlist: 0,
	}
	for _, r := range rows {
		counts[r.Type] = r.Count
	}
	return counts, nil
}

func (s *GormStore) CountDistinctScouts(ctx context.Context, playerID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.ScoutInterest{}).
		Where("player_id = ?", playerID).
		Distinct("scout_id").
		Count(&n).Error
	return n, err
}
