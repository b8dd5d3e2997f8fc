// models/video.go
package models

import "time"

type Video struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	Title       string    `gorm:"not null;size:200" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	URL         string    `gorm:"not null;size:500" json:"url"`
	Thumbnail   *string   `gorm:"size:500" json:"thumbnail"`
	Duration    *int      `json:"duration"`
	Views       int       `gorm:"not null;default:0" json:"views"`
	Likes       int       `gorm:"not null;default:0" json:"likes"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}

func (Video) TableName() string {
	return "videos"
}
