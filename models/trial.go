// models/trial.go - Trials and trial applications
package models

import "time"

type Trial struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatorID    uint      `gorm:"not null;index" json:"creatorId"`
	Title        string    `gorm:"not null;size:200" json:"title"`
	Organization string    `gorm:"not null;size:200" json:"organization"`
	Position     *string   `gorm:"size:50" json:"position"`
	AgeGroup     *string   `gorm:"size:50" json:"ageGroup"`
	Location     string    `gorm:"not null;size:255" json:"location"`
	Date         time.Time `gorm:"not null;index" json:"date"`
	Description  *string   `gorm:"type:text" json:"description"`
	Requirements *string   `gorm:"type:text" json:"requirements"`
	ImageURL     *string   `gorm:"size:500" json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Trial) TableName() string {
	return "trials"
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ParseApplicationStatus returns false for anything other than pending, accepted or rejected.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch ApplicationStatus(s) {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return ApplicationStatus(s), true
	}
	return "", false
}

// IsTerminal reports whether no further transition is allowed.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

// TrialApplication links a player to a trial. (trial_id, player_id) is unique.
type TrialApplication struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	TrialID   uint              `gorm:"not null;uniqueIndex:idx_trial_applications_trial_player" json:"trialId"`
	PlayerID  uint              `gorm:"not null;uniqueIndex:idx_trial_applications_trial_player;index" json:"playerId"`
	Status    ApplicationStatus `gorm:"not null;size:20;default:'pending';index" json:"status"`
	Message   *string           `gorm:"type:text" json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (TrialApplication) TableName() string {
	return "trial_applications"
}
