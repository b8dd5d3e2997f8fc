// models/profile.go - Role-specific profiles
package models

import (
	"gorm.io/datatypes"
)

// Profile is one of *PlayerProfile, *ScoutProfile or *AcademyProfile.
type Profile interface {
	ProfileRole() Role
	OwnerID() uint
}

// PlayerStats is stored as a JSON column. Every attribute is rated 0-100.
type PlayerStats struct {
	Pace      *int `json:"pace,omitempty" validate:"omitempty,min=0,max=100"`
	Shooting  *int `json:"shooting,omitempty" validate:"omitempty,min=0,max=100"`
	Passing   *int `json:"passing,omitempty" validate:"omitempty,min=0,max=100"`
	Dribbling *int `json:"dribbling,omitempty" validate:"omitempty,min=0,max=100"`
	Defense   *int `json:"defense,omitempty" validate:"omitempty,min=0,max=100"`
	Physical  *int `json:"physical,omitempty" validate:"omitempty,min=0,max=100"`
}

type PlayerProfile struct {
	ID              uint                            `gorm:"primaryKey" json:"id"`
	UserID          uint                            `gorm:"uniqueIndex;not null" json:"userId"`
	Position        *string                         `gorm:"size:50;index" json:"position"`
	Age             *int                            `json:"age"`
	Location        *string                         `gorm:"size:255" json:"location"`
	Bio             *string                         `gorm:"type:text" json:"bio"`
	Achievements    *string                         `gorm:"type:text" json:"achievements"`
	OverallRating   *int                            `json:"overallRating"`
	Appearances     *int                            `json:"appearances"`
	Goals           *int                            `json:"goals"`
	IsEliteProspect bool                            `gorm:"default:false" json:"isEliteProspect"`
	IsVerified      bool                            `gorm:"default:false" json:"isVerified"`
	Stats           datatypes.JSONType[PlayerStats] `json:"stats"`
}

func (PlayerProfile) TableName() string {
	return "player_profiles"
}

func (p *PlayerProfile) ProfileRole() Role { return RolePlayer }
func (p *PlayerProfile) OwnerID() uint     { return p.UserID }

type ScoutProfile struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	UserID            uint    `gorm:"uniqueIndex;not null" json:"userId"`
	Organization      *string `gorm:"size:255" json:"organization"`
	Position          *string `gorm:"size:100" json:"position"`
	Bio               *string `gorm:"type:text" json:"bio"`
	YearsOfExperience *int    `json:"yearsOfExperience"`
	IsVerified        bool    `gorm:"default:false" json:"isVerified"`
}

func (ScoutProfile) TableName() string {
	return "scout_profiles"
}

func (p *ScoutProfile) ProfileRole() Role { return RoleScout }
func (p *ScoutProfile) OwnerID() uint     { return p.UserID }

type AcademyProfile struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UserID      uint    `gorm:"uniqueIndex;not null" json:"userId"`
	Name        string  `gorm:"not null;size:255" json:"name"`
	Location    *string `gorm:"size:255" json:"location"`
	Description *string `gorm:"type:text" json:"description"`
	FoundedYear *int    `json:"foundedYear"`
	Website     *string `gorm:"size:255" json:"website"`
	IsVerified  bool    `gorm:"default:false" json:"isVerified"`
}

func (AcademyProfile) TableName() string {
	return "academy_profiles"
}

func (p *AcademyProfile) ProfileRole() Role { return RoleAcademy }
func (p *AcademyProfile) OwnerID() uint     { return p.UserID }
