package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"scoutlink/models"
	"scoutlink/services"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type fakeResolver map[string]services.Principal

func (f fakeResolver) ResolveSession(_ context.Context, token string) (services.Principal, error) {
	if p, ok := f[token]; ok {
		return p, nil
	}
	return services.Principal{}, services.ErrUnauthenticated
}

func newAuthApp() *fiber.App {
	resolver := fakeResolver{
		"scout-token":  {UserID: 1, Role: models.RoleScout},
		"player-token": {UserID: 2, Role: models.RolePlayer},
	}
	app := fiber.New()
	app.Get("/me", RequireAuth(resolver), func(c *fiber.Ctx) error {
		p, err := MustPrincipal(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": p.UserID})
	})
	app.Post("/interests", RequireAuth(resolver), RequireRoles(models.RoleScout), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	app := newAuthApp()

	tests := []struct {
		name   string
		cookie string
		header string
		want   int
	}{
		{"no credentials", "", "", fiber.StatusUnauthorized},
		{"unknown session", "bogus", "", fiber.StatusUnauthorized},
		{"cookie", "scout-token", "", fiber.StatusOK},
		{"bearer header", "", "Bearer player-token", fiber.StatusOK},
		{"malformed header", "", "player-token", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.cookie != "" {
				req.Header.Set("Cookie", SessionCookie+"="+tt.cookie)
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	app := newAuthApp()

	tests := []struct {
		token string
		want  int
	}{
		{"scout-token", fiber.StatusCreated},
		{"player-token", fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/interests", nil)
			req.Header.Set("Cookie", SessionCookie+"="+tt.token)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("burst should allow two requests")
	}
	if rl.Allow("a") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("b") {
		t.Error("other keys have their own bucket")
	}
}

func TestRateLimiter_PrunesIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1), 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	rl.Allow("b")
	if rl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", rl.Len())
	}

	now = now.Add(idleBucketTTL + time.Minute)
	rl.Allow("c")
	if rl.Len() != 1 {
		t.Errorf("Len() = %d after idle period, want 1", rl.Len())
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 1)
	app := fiber.New()
	app.Use(RateLimit(rl, "Too many requests"))
	app.Get("/api/trials", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/trials", nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != fiber.StatusOK || codes[1] != fiber.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 429]", codes)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("/health status = %d, want 200", resp.StatusCode)
	}
}
