// cmd/seed - Loads demo users, profiles and trials from a JSON fixture
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"scoutlink/config"
	"scoutlink/database"
	"scoutlink/logging"
	"scoutlink/models"
	"scoutlink/services"
	"scoutlink/utils"
	"scoutlink/validation"
)

type fixture struct {
	Users []fixtureUser `json:"users"`
}

type fixtureUser struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Role      string          `json:"role"`
	Profile   json.RawMessage `json:"profile"`
	Trials    []fixtureTrial  `json:"trials"`
}

type fixtureTrial struct {
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	Location     string  `json:"location"`
	Date         string  `json:"date"`
	Position     *string `json:"position"`
	AgeGroup     *string `json:"ageGroup"`
	Description  *string `json:"description"`
	Requirements *string `json:"requirements"`
}

type seedResult struct {
	Users, Skipped, Profiles, Trials int
}

func main() {
	path := flag.String("file", "./cmd/seed/testdata/demo.json", "fixture file")
	flag.Parse()

	cfg, _ := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logging.WithComponent("seed")

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("failed to read fixture")
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		log.Fatal().Err(err).Msg("failed to parse fixture")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	res, err := seed(context.Background(), services.NewGormStore(db), fx)
	if cerr := database.Close(db); cerr != nil {
		log.Error().Err(cerr).Msg("failed to close database")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().
		Int("users", res.Users).
		Int("skipped", res.Skipped).
		Int("profiles", res.Profiles).
		Int("trials", res.Trials).
		Msg("seed complete")
}

// seed writes fx through the services so every rule applies. Users whose email
// already exists are skipped along with their profile and trials.
func seed(ctx context.Context, store services.Store, fx fixture) (seedResult, error) {
	var res seedResult
	auth := services.NewAuthService(store, "seed-only-secret-never-used-for-sessions", 0)
	profiles := services.NewProfileService(store)
	trials := services.NewTrialService(store)

	for _, fu := range fx.Users {
		user, err := auth.Register(ctx, services.RegisterParams{
			Email:     fu.Email,
			Password:  fu.Password,
			FirstName: fu.FirstName,
			LastName:  fu.LastName,
			Role:      models.Role(fu.Role),
		})
		if errors.Is(err, services.ErrEmailTaken) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("register %s: %w", fu.Email, err)
		}
		res.Users++
		p := services.NewPrincipal(user, "")

		if len(fu.Profile) > 0 {
			in, err := services.NewProfileInput(user.Role)
			if err != nil {
				return res, fmt.Errorf("profile for %s: %w", fu.Email, err)
			}
			if err := json.Unmarshal(fu.Profile, in); err != nil {
				return res, fmt.Errorf("decode profile for %s: %w", fu.Email, err)
			}
			if verr := validation.ValidateStruct(in); verr != nil {
				return res, fmt.Errorf("profile for %s: %w", fu.Email, verr)
			}
			if _, err := profiles.Create(ctx, p, in); err != nil {
				return res, fmt.Errorf("create profile for %s: %w", fu.Email, err)
			}
			res.Profiles++
		}

		for _, ft := range fu.Trials {
			date, ok := utils.ParseDate(ft.Date)
			if !ok {
				return res, fmt.Errorf("trial %q: invalid date %q", ft.Title, ft.Date)
			}
			_, err := trials.Create(ctx, p, services.TrialInput{
				Title:        ft.Title,
				Organization: ft.Organization,
				Location:     ft.Location,
				Date:         date,
				Position:     ft.Position,
				AgeGroup:     ft.AgeGroup,
				Description:  ft.Description,
				Requirements: ft.Requirements,
			})
			if err != nil {
				return res, fmt.Errorf("create trial %q: %w", ft.Title, err)
			}
			res.Trials++
		}
	}
	return res, nil
}
