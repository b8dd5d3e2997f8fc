// handlers/handlers.go - Shared handler state and error mapping
package handlers

import (
	"errors"
	"strings"

	"scoutlink/config"
	"scoutlink/logging"
	"scoutlink/services"
	"scoutlink/validation"

	"github.com/gofiber/fiber/v2"
)

var (
	cfg                *config.Config
	authService        *services.AuthService
	profileService     *services.ProfileService
	videoService       *services.VideoService
	trialService       *services.TrialService
	applicationService *services.ApplicationService
	messageService     *services.MessageService
	interestService    *services.InterestService
	analyticsService   *services.AnalyticsService
	userStore          services.Store
)

// Services bundles everything the handlers call into.
type Services struct {
	Store        services.Store
	Auth         *services.AuthService
	Profiles     *services.ProfileService
	Videos       *services.VideoService
	Trials       *services.TrialService
	Applications *services.ApplicationService
	Messages     *services.MessageService
	Interests    *services.InterestService
	Analytics    *services.AnalyticsService
}

// NewServices wires every service to store.
func NewServices(c *config.Config, store services.Store) *Services {
	uploads := services.NewUploadStorage(c.UploadDir, "/uploads", int64(c.MaxUploadBytes()))
	return &Services{
		Store:        store,
		Auth:         services.NewAuthService(store, c.SessionSecret, c.SessionTTL),
		Profiles:     services.NewProfileService(store),
		Videos:       services.NewVideoService(store, uploads),
		Trials:       services.NewTrialService(store),
		Applications: services.NewApplicationService(store),
		Messages:     services.NewMessageService(store),
		Interests:    services.NewInterestService(store),
		Analytics:    services.NewAnalyticsService(store),
	}
}

// InitHandlers must be called before any route is served.
func InitHandlers(c *config.Config, svc *Services) {
	if c == nil || svc == nil {
		panic("handlers initialized without config or services")
	}
	cfg = c
	userStore = svc.Store
	authService = svc.Auth
	profileService = svc.Profiles
	videoService = svc.Videos
	trialService = svc.Trials
	applicationService = svc.Applications
	messageService = svc.Messages
	interestService = svc.Interests
	analyticsService = svc.Analytics
}

// parseBody decodes the JSON body into req and validates it.
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return verr
	}
	return nil
}

// fail turns a service error into a response. notFound overrides the 404 message.
func fail(c *fiber.Ctx, err error, notFound ...string) error {
	var verr *validation.RequestValidationError
	var fe *fiber.Error

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Fields(),
		})
	case errors.As(err, &fe):
		return fe
	case errors.Is(err, services.ErrNotFound):
		msg := "Not found"
		if len(notFound) > 0 {
			msg = notFound[0]
		}
		return fiber.NewError(fiber.StatusNotFound, msg)
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, services.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrInvalidStatus):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid status")
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, sentence(strings.TrimPrefix(err.Error(), services.ErrInvalidInput.Error()+": ")))
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrProfileExists),
		errors.Is(err, services.ErrDuplicateApplication),
		errors.Is(err, services.ErrApplicationFinalized),
		errors.Is(err, services.ErrRoleLocked):
		return fiber.NewError(fiber.StatusBadRequest, sentence(err.Error()))
	}

	log := logging.WithComponent("http")
	log.Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
	return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
