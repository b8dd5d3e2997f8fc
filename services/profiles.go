// services/profiles.go - Role-specific profiles
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scoutlink/models"
	"scoutlink/validation"

	"gorm.io/datatypes"
)

// ProfileInput is the request payload for one of the three profile kinds.
// Only this package implements it.
type ProfileInput interface {
	Role() models.Role
	check(creating bool) error
	newProfile(userID uint) models.Profile
	applyTo(profile models.Profile)
}

// NewProfileInput returns an empty payload to decode a request for role into.
func NewProfileInput(role models.Role) (ProfileInput, error) {
	switch role {
	case models.RolePlayer:
		return &PlayerProfileInput{}, nil
	case models.RoleScout:
		return &ScoutProfileInput{}, nil
	case models.RoleAcademy:
		return &AcademyProfileInput{}, nil
	}
	return nil, ErrNotFound
}

type PlayerProfileInput struct {
	Position        *string             `json:"position" validate:"omitempty,max=50"`
	Age             *int                `json:"age" validate:"omitempty,min=10,max=60"`
	Location        *string             `json:"location" validate:"omitempty,max=255"`
	Bio             *string             `json:"bio" validate:"omitempty,max=5000"`
	Achievements    *string             `json:"achievements" validate:"omitempty,max=5000"`
	OverallRating   *int                `json:"overallRating" validate:"omitempty,min=0,max=100"`
	Appearances     *int                `json:"appearances" validate:"omitempty,min=0"`
	Goals           *int                `json:"goals" validate:"omitempty,min=0"`
	IsEliteProspect *bool               `json:"isEliteProspect"`
	Stats           *models.PlayerStats `json:"stats"`
}

func (in *PlayerProfileInput) Role() models.Role { return models.RolePlayer }

func (in *PlayerProfileInput) check(bool) error { return nil }

func (in *PlayerProfileInput) newProfile(userID uint) models.Profile {
	p := &models.PlayerProfile{UserID: userID}
	in.applyTo(p)
	return p
}

func (in *PlayerProfileInput) applyTo(profile models.Profile) {
	p := profile.(*models.PlayerProfile)
	setIfPresent(&p.Position, in.Position)
	setIfPresent(&p.Age, in.Age)
	setIfPresent(&p.Location, in.Location)
	setIfPresent(&p.Bio, in.Bio)
	setIfPresent(&p.Achievements, in.Achievements)
	setIfPresent(&p.OverallRating, in.OverallRating)
	setIfPresent(&p.Appearances, in.Appearances)
	setIfPresent(&p.Goals, in.Goals)
	if in.IsEliteProspect != nil {
		p.IsEliteProspect = *in.IsEliteProspect
	}
	if in.Stats != nil {
		stats := p.Stats.Data()
		setIfPresent(&stats.Pace, in.Stats.Pace)
		setIfPresent(&stats.Shooting, in.Stats.Shooting)
		setIfPresent(&stats.Passing, in.Stats.Passing)
		setIfPresent(&stats.Dribbling, in.Stats.Dribbling)
		setIfPresent(&stats.Defense, in.Stats.Defense)
		setIfPresent(&stats.Physical, in.Stats.Physical)
		p.Stats = datatypes.NewJSONType(stats)
	}
}

type ScoutProfileInput struct {
	Organization      *string `json:"organization" validate:"omitempty,max=255"`
	Position          *string `json:"position" validate:"omitempty,max=100"`
	Bio               *string `json:"bio" validate:"omitempty,max=5000"`
	YearsOfExperience *int    `json:"yearsOfExperience" validate:"omitempty,min=0,max=80"`
}

func (in *ScoutProfileInput) Role() models.Role { return models.RoleScout }

func (in *ScoutProfileInput) check(bool) error { return nil }

func (in *ScoutProfileInput) newProfile(userID uint) models.Profile {
	p := &models.ScoutProfile{UserID: userID}
	in.applyTo(p)
	return p
}

func (in *ScoutProfileInput) applyTo(profile models.Profile) {
	p := profile.(*models.ScoutProfile)
	setIfPresent(&p.Organization, in.Organization)
	setIfPresent(&p.Position, in.Position)
	setIfPresent(&p.Bio, in.Bio)
	setIfPresent(&p.YearsOfExperience, in.YearsOfExperience)
}

type AcademyProfileInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	FoundedYear *int    `json:"foundedYear" validate:"omitempty,min=1800"`
	Website     *string `json:"website" validate:"omitempty,url"`
}

func (in *AcademyProfileInput) Role() models.Role { return models.RoleAcademy }

func (in *AcademyProfileInput) check(creating bool) error {
	if creating && (in.Name == nil || strings.TrimSpace(*in.Name) == "") {
		return validation.NewFieldError("name", "name is required")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return validation.NewFieldError("name", "name cannot be empty")
	}
	if in.FoundedYear != nil && *in.FoundedYear > time.Now().Year() {
		return validation.NewFieldError("foundedYear", fmt.Sprintf("foundedYear must be at most %d", time.Now().Year()))
	}
	return nil
}

func (in *AcademyProfileInput) newProfile(userID uint) models.Profile {
	p := &models.AcademyProfile{UserID: userID}
	in.applyTo(p)
	return p
}

func (in *AcademyProfileInput) applyTo(profile models.Profile) {
	p := profile.(*models.AcademyProfile)
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	setIfPresent(&p.Location, in.Location)
	setIfPresent(&p.Description, in.Description)
	setIfPresent(&p.FoundedYear, in.FoundedYear)
	setIfPresent(&p.Website, in.Website)
}

func setIfPresent[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// PlayerListing is one entry of the player discover list.
type PlayerListing struct {
	Profile models.PlayerProfile `json:"profile"`
	User    *models.UserSummary  `json:"user"`
}

type ProfileService struct {
	store Store
}

func NewProfileService(store Store) *ProfileService {
	return &ProfileService{store: store}
}

// Get returns the role's profile for userID together with the owner's public summary.
func (s *ProfileService) Get(ctx context.Context, role models.Role, userID uint) (models.Profile, models.UserSummary, error) {
	profile, err := s.store.GetProfile(ctx, role, userID)
	if err != nil {
		return nil, models.UserSummary{}, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, models.UserSummary{}, err
	}
	return profile, user.PublicSummary(), nil
}

// Create adds the caller's profile. The caller's role must match the payload;
// a second profile returns ErrProfileExists.
func (s *ProfileService) Create(ctx context.Context, p Principal, in ProfileInput) (models.Profile, error) {
	if p.Role != in.Role() {
		return nil, ErrForbidden
	}
	if err := in.check(true); err != nil {
		return nil, err
	}

	profile := in.newProfile(p.UserID)
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update changes the supplied fields of the caller's own profile.
func (s *ProfileService) Update(ctx context.Context, p Principal, in ProfileInput) (models.Profile, error) {
	if p.Role != in.Role() {
		return nil, ErrForbidden
	}
	if err := in.check(false); err != nil {
		return nil, err
	}

	var profile models.Profile
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		profile, err = tx.GetProfile(ctx, in.Role(), p.UserID)
		if err != nil {
			return err
		}
		in.applyTo(profile)
		return tx.SaveProfile(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ListPlayers returns player profiles for the discover page.
func (s *ProfileService) ListPlayers(ctx context.Context, filter PlayerFilter) ([]PlayerListing, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	profiles, err := s.store.ListPlayerProfiles(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PlayerListing, 0, len(profiles))
	for _, p := range profiles {
		listing := PlayerListing{Profile: p}
		if u, ok := users[p.UserID]; ok {
			summary := u.PublicSummary()
			listing.User = &summary
		}
		out = append(out, listing)
	}
	return out, nil
}

// HasProfile reports whether userID has created a profile for role.
func (s *ProfileService) HasProfile(ctx context.Context, role models.Role, userID uint) (bool, error) {
	_, err := s.store.GetProfile(ctx, role, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
