// models/message.go - Direct messages and scout interest log
package models

import "time"

type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"senderId"`
	ReceiverID uint      `gorm:"not null;index:idx_messages_receiver_read" json:"receiverId"`
	Content    string    `gorm:"not null;type:text" json:"content"`
	IsRead     bool      `gorm:"not null;default:false;index:idx_messages_receiver_read" json:"isRead"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}

// PartnerID returns the other participant of m from userID's point of view.
func (m *Message) PartnerID(userID uint) uint {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

type InterestType string

const (
	InterestViewedProfile    InterestType = "viewed_profile"
	InterestWatchedVideo     InterestType = "watched_video"
	InterestAddedToWatchlist InterestType = "added_to_watchlist"
)

// ScoutInterest is append-only.
type ScoutInterest struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	ScoutID    uint         `gorm:"not null;index" json:"scoutId"`
	PlayerID   uint         `gorm:"not null;index" json:"playerId"`
	Type       InterestType `gorm:"not null;size:30" json:"type"`
	ResourceID *uint        `json:"resourceId"`
	CreatedAt  time.Time    `json:"createdAt"`
}

func (ScoutInterest) TableName() string {
	return "scout_interests"
}
