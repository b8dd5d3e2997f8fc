// handlers/auth.go - Registration, login and session endpoints
package handlers

import (
	"time"

	"scoutlink/metrics"
	"scoutlink/middleware"
	"scoutlink/models"
	"scoutlink/services"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName" validate:"required,max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
	Role            string `json:"role" validate:"omitempty,oneof=player scout academy"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateAccountRequest struct {
	FirstName    *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName     *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,max=500"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=player scout academy"`
}

// Register creates an account and logs it in.
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	user, err := authService.Register(c.UserContext(), services.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.Role(req.Role),
	})
	if err != nil {
		return fail(c, err)
	}

	token, err := authService.StartSession(c.UserContext(), user, sessionMeta(c))
	if err != nil {
		return fail(c, err)
	}
	setSessionCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(user.Summary())
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	user, token, err := authService.Login(c.UserContext(), req.Email, req.Password, sessionMeta(c))
	metrics.RecordLogin(err == nil)
	if err != nil {
		return fail(c, err)
	}
	setSessionCookie(c, token)

	return c.JSON(user.Summary())
}

func Logout(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	if err := authService.Logout(c.UserContext(), p.SessionID); err != nil {
		return fail(c, err)
	}
	clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me returns the caller's current user record.
func Me(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	user, err := authService.CurrentUser(c.UserContext(), p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user.Summary())
}

func UpdateAccount(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	var req UpdateAccountRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	user, err := authService.UpdateAccount(c.UserContext(), p, services.AccountUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user.Summary())
}

// ChangeRole re-onboards the caller under another role while they have no profile.
func ChangeRole(c *fiber.Ctx) error {
	p, err := middleware.MustPrincipal(c)
	if err != nil {
		return err
	}
	var req ChangeRoleRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	user, err := authService.ChangeRole(c.UserContext(), p, models.Role(req.Role))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user.Summary())
}

func sessionMeta(c *fiber.Ctx) services.SessionMeta {
	return services.SessionMeta{
		UserAgent: c.Get(fiber.HeaderUserAgent),
		ClientIP:  c.IP(),
	}
}

func setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(authService.SessionTTL()),
		HTTPOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
