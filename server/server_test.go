package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"scoutlink/config"
	"scoutlink/database"
	"scoutlink/middleware"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		AppEnv:              "test",
		DBDriver:            "sqlite",
		SessionSecret:       testSecret,
		SessionTTL:          time.Hour,
		CORSOrigins:         "http://localhost:5173",
		UploadDir:           t.TempDir(),
		MaxUploadMB:         10,
		RateLimitRPS:        10,
		RateLimitBurst:      100,
		AuthRateLimitPerMin: 10,
		AuthRateLimitBurst:  5,
		LogLevel:            "error",
		LogFormat:           "json",
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return New(testConfig(t), database.OpenTest(t))
}

// client remembers the session cookie between requests.
type client struct {
	t      *testing.T
	app    *fiber.App
	cookie string
}

func (cl *client) do(method, path string, body interface{}) (int, []byte) {
	cl.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			cl.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.cookie != "" {
		req.Header.Set("Cookie", middleware.SessionCookie+"="+cl.cookie)
	}

	resp, err := cl.app.Test(req, -1)
	if err != nil {
		cl.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			cl.cookie = c.Value
		}
	}
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func (cl *client) expect(method, path string, body interface{}, want int, out interface{}) {
	cl.t.Helper()
	status, data := cl.do(method, path, body)
	if status != want {
		cl.t.Fatalf("%s %s: status = %d, want %d (body %s)", method, path, status, want, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			cl.t.Fatalf("%s %s: decode %s: %v", method, path, data, err)
		}
	}
}

type userResp struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func register(t *testing.T, app *fiber.App, email, role string) (*client, userResp) {
	t.Helper()
	cl := &client{t: t, app: app}
	var u userResp
	cl.expect(http.MethodPost, "/api/auth/register", map[string]string{
		"email":           email,
		"password":        "secret123",
		"confirmPassword": "secret123",
		"firstName":       "Test",
		"lastName":        role,
		"role":            role,
	}, http.StatusCreated, &u)
	if cl.cookie == "" {
		t.Fatalf("register %s did not set a session cookie", email)
	}
	return cl, u
}

func TestHealth(t *testing.T) {
	cl := &client{t: t, app: newTestApp(t)}
	var body struct {
		Status string `json:"status"`
	}
	cl.expect(http.MethodGet, "/health", nil, http.StatusOK, &body)
	if body.Status != "healthy" {
		t.Errorf("status = %q", body.Status)
	}
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)
	_, registered := register(t, app, "Player@Example.com", "player")
	if registered.Email != "player@example.com" {
		t.Errorf("email = %q, want lower-cased", registered.Email)
	}

	cl := &client{t: t, app: app}
	cl.expect(http.MethodGet, "/api/auth/me", nil, http.StatusUnauthorized, nil)

	var msg struct {
		Message string `json:"message"`
	}
	cl.expect(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "player@example.com", "password": "wrong-password",
	}, http.StatusUnauthorized, &msg)
	if msg.Message != "Invalid email or password" {
		t.Errorf("message = %q", msg.Message)
	}
	cl.expect(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	}, http.StatusUnauthorized, &msg)
	if msg.Message != "Invalid email or password" {
		t.Errorf("unknown email message = %q", msg.Message)
	}

	cl.expect(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "PLAYER@example.com", "password": "secret123",
	}, http.StatusOK, nil)

	var me userResp
	cl.expect(http.MethodGet, "/api/auth/me", nil, http.StatusOK, &me)
	if me.ID != registered.ID || me.Role != "player" {
		t.Errorf("me = %+v, want id %d role player", me, registered.ID)
	}

	oldCookie := cl.cookie
	cl.expect(http.MethodPost, "/api/auth/logout", nil, http.StatusOK, nil)

	cl.cookie = oldCookie
	cl.expect(http.MethodGet, "/api/auth/me", nil, http.StatusUnauthorized, nil)
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "taken@example.com", "scout")

	tests := []struct {
		name     string
		body     map[string]string
		wantPath string
	}{
		{
			name:     "short password",
			body:     map[string]string{"email": "a@example.com", "password": "123", "confirmPassword": "123", "firstName": "A", "lastName": "B"},
			wantPath: "password",
		},
		{
			name:     "mismatched confirmation",
			body:     map[string]string{"email": "a@example.com", "password": "secret123", "confirmPassword": "secret124", "firstName": "A", "lastName": "B"},
			wantPath: "confirmPassword",
		},
		{
			name:     "bad email",
			body:     map[string]string{"email": "not-an-email", "password": "secret123", "confirmPassword": "secret123", "firstName": "A", "lastName": "B"},
			wantPath: "email",
		},
		{
			name:     "multibyte password over bcrypt limit",
			body:     map[string]string{"email": "a@example.com", "password": strings.Repeat("é", 40), "confirmPassword": strings.Repeat("é", 40), "firstName": "A", "lastName": "B"},
			wantPath: "password",
		},
		{
			name:     "unknown role",
			body:     map[string]string{"email": "a@example.com", "password": "secret123", "confirmPassword": "secret123", "firstName": "A", "lastName": "B", "role": "coach"},
			wantPath: "role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := &client{t: t, app: app}
			var body struct {
				Message string `json:"message"`
				Errors  []struct {
					Path    string `json:"path"`
					Message string `json:"message"`
				} `json:"errors"`
			}
			cl.expect(http.MethodPost, "/api/auth/register", tt.body, http.StatusBadRequest, &body)
			if body.Message != "Validation failed" {
				t.Errorf("message = %q", body.Message)
			}
			found := false
			for _, e := range body.Errors {
				if e.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Errorf("errors = %+v, want path %q", body.Errors, tt.wantPath)
			}
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		cl := &client{t: t, app: app}
		var body struct {
			Message string `json:"message"`
		}
		cl.expect(http.MethodPost, "/api/auth/register", map[string]string{
			"email": "TAKEN@example.com", "password": "secret123", "confirmPassword": "secret123", "firstName": "A", "lastName": "B",
		}, http.StatusBadRequest, &body)
		if body.Message == "" || body.Message == "Validation failed" {
			t.Errorf("message = %q, want conflict message", body.Message)
		}
	})
}

func TestMessagingScenario(t *testing.T) {
	app := newTestApp(t)
	a, userA := register(t, app, "a@example.com", "player")
	b, userB := register(t, app, "b@example.com", "scout")

	send := func(cl *client, to uint, content string) {
		cl.expect(http.MethodPost, "/api/messages", map[string]interface{}{
			"receiverId": to, "content": content,
		}, http.StatusCreated, nil)
	}
	send(a, userB.ID, "Hi")
	send(b, userA.ID, "Hello back")
	send(b, userA.ID, "Interested in trial?")

	type conversation struct {
		User        userResp `json:"user"`
		LastMessage struct {
			Content string `json:"content"`
		} `json:"lastMessage"`
		UnreadCount int `json:"unreadCount"`
	}

	var convs []conversation
	a.expect(http.MethodGet, "/api/messages", nil, http.StatusOK, &convs)
	if len(convs) != 1 {
		t.Fatalf("conversations = %d, want 1", len(convs))
	}
	if convs[0].User.ID != userB.ID {
		t.Errorf("partner = %d, want %d", convs[0].User.ID, userB.ID)
	}
	if convs[0].LastMessage.Content != "Interested in trial?" {
		t.Errorf("lastMessage = %q", convs[0].LastMessage.Content)
	}
	if convs[0].UnreadCount != 2 {
		t.Errorf("unreadCount = %d, want 2", convs[0].UnreadCount)
	}

	var unread struct {
		Count int `json:"count"`
	}
	a.expect(http.MethodGet, "/api/messages/unread", nil, http.StatusOK, &unread)
	if unread.Count != 2 {
		t.Errorf("unread = %d, want 2", unread.Count)
	}

	var thread []struct {
		Content string `json:"content"`
		IsRead  bool   `json:"isRead"`
	}
	a.expect(http.MethodGet, fmt.Sprintf("/api/messages/%d", userB.ID), nil, http.StatusOK, &thread)
	if len(thread) != 3 || thread[0].Content != "Hi" {
		t.Fatalf("thread = %+v", thread)
	}

	for i := 0; i < 2; i++ {
		a.expect(http.MethodGet, "/api/messages", nil, http.StatusOK, &convs)
		if convs[0].UnreadCount != 0 {
			t.Errorf("fetch %d: unreadCount = %d after opening thread", i, convs[0].UnreadCount)
		}
	}

	// B never opened the thread, so A's first message is still unread for B.
	b.expect(http.MethodGet, "/api/messages", nil, http.StatusOK, &convs)
	if len(convs) != 1 || convs[0].UnreadCount != 1 {
		t.Errorf("B conversations = %+v", convs)
	}

	a.expect(http.MethodGet, "/api/messages/9999", nil, http.StatusNotFound, nil)
	a.expect(http.MethodPost, "/api/messages", map[string]interface{}{"receiverId": userA.ID, "content": "me"}, http.StatusBadRequest, nil)
}

func TestTrialApplications(t *testing.T) {
	app := newTestApp(t)
	academy, _ := register(t, app, "academy@example.com", "academy")
	rival, _ := register(t, app, "rival@example.com", "academy")
	player, playerUser := register(t, app, "player@example.com", "player")
	scout, _ := register(t, app, "scout@example.com", "scout")

	trialBody := map[string]string{
		"title":        "U18 Open Trial",
		"organization": "North FC",
		"location":     "Leeds",
		"date":         "2026-11-20",
	}
	player.expect(http.MethodPost, "/api/trials", trialBody, http.StatusForbidden, nil)

	var trial struct {
		ID uint `json:"id"`
	}
	academy.expect(http.MethodPost, "/api/trials", trialBody, http.StatusCreated, &trial)

	var second struct {
		ID uint `json:"id"`
	}
	trialBody["title"] = "U21 Trial"
	trialBody["date"] = "2026-10-30T10:00"
	academy.expect(http.MethodPost, "/api/trials", trialBody, http.StatusCreated, &second)

	trialBody["date"] = "next tuesday"
	academy.expect(http.MethodPost, "/api/trials", trialBody, http.StatusBadRequest, nil)

	var trials []struct {
		ID uint `json:"id"`
	}
	player.expect(http.MethodGet, "/api/trials", nil, http.StatusOK, &trials)
	if len(trials) != 2 || trials[0].ID != second.ID {
		t.Errorf("trials = %+v, want date ascending", trials)
	}

	type application struct {
		ID       uint   `json:"id"`
		PlayerID uint   `json:"playerId"`
		Status   string `json:"status"`
	}
	var app1 application
	player.expect(http.MethodPost, "/api/applications", map[string]interface{}{"trialId": trial.ID, "message": "Pick me"}, http.StatusCreated, &app1)
	if app1.Status != "pending" || app1.PlayerID != playerUser.ID {
		t.Errorf("application = %+v", app1)
	}
	player.expect(http.MethodPost, "/api/applications", map[string]interface{}{"trialId": trial.ID}, http.StatusBadRequest, nil)
	player.expect(http.MethodPost, "/api/applications", map[string]interface{}{"trialId": second.ID}, http.StatusCreated, nil)
	scout.expect(http.MethodPost, "/api/applications", map[string]interface{}{"trialId": trial.ID}, http.StatusForbidden, nil)

	statusPath := fmt.Sprintf("/api/applications/%d/status", app1.ID)
	player.expect(http.MethodPut, statusPath, map[string]string{"status": "accepted"}, http.StatusForbidden, nil)
	rival.expect(http.MethodPut, statusPath, map[string]string{"status": "accepted"}, http.StatusForbidden, nil)
	academy.expect(http.MethodPut, statusPath, map[string]string{"status": "maybe"}, http.StatusBadRequest, nil)

	var decided application
	academy.expect(http.MethodPut, statusPath, map[string]string{"status": "accepted"}, http.StatusOK, &decided)
	if decided.Status != "accepted" {
		t.Errorf("status = %q, want accepted", decided.Status)
	}
	academy.expect(http.MethodPut, statusPath, map[string]string{"status": "rejected"}, http.StatusBadRequest, nil)

	var applicants []application
	academy.expect(http.MethodGet, fmt.Sprintf("/api/applications?trialId=%d", trial.ID), nil, http.StatusOK, &applicants)
	if len(applicants) != 1 || applicants[0].Status != "accepted" {
		t.Errorf("applicants = %+v", applicants)
	}
	rival.expect(http.MethodGet, fmt.Sprintf("/api/applications/trial/%d", trial.ID), nil, http.StatusForbidden, nil)
	academy.expect(http.MethodGet, "/api/applications", nil, http.StatusBadRequest, nil)
	scout.expect(http.MethodGet, "/api/applications", nil, http.StatusForbidden, nil)

	var mine []application
	player.expect(http.MethodGet, "/api/applications", nil, http.StatusOK, &mine)
	if len(mine) != 2 {
		t.Errorf("player applications = %d, want 2", len(mine))
	}
}

func TestProfiles(t *testing.T) {
	app := newTestApp(t)
	player, user := register(t, app, "p@example.com", "player")
	scout, _ := register(t, app, "s@example.com", "scout")

	path := fmt.Sprintf("/api/profiles/player/%d", user.ID)
	player.expect(http.MethodGet, path, nil, http.StatusNotFound, nil)
	player.expect(http.MethodPut, "/api/profiles/player", map[string]interface{}{"bio": "x"}, http.StatusNotFound, nil)
	player.expect(http.MethodGet, "/api/profiles/coach/1", nil, http.StatusNotFound, nil)

	scout.expect(http.MethodPost, "/api/profiles/player", map[string]interface{}{"position": "Striker"}, http.StatusForbidden, nil)

	var bad struct {
		Errors []struct {
			Path string `json:"path"`
		} `json:"errors"`
	}
	player.expect(http.MethodPost, "/api/profiles/player", map[string]interface{}{"age": 5}, http.StatusBadRequest, &bad)
	if len(bad.Errors) == 0 || bad.Errors[0].Path != "age" {
		t.Errorf("errors = %+v, want path age", bad.Errors)
	}

	player.expect(http.MethodPost, "/api/profiles/player", map[string]interface{}{
		"position": "Striker", "age": 17, "location": "Leeds",
	}, http.StatusCreated, nil)
	player.expect(http.MethodPost, "/api/profiles/player", map[string]interface{}{"position": "Winger"}, http.StatusBadRequest, nil)
	player.expect(http.MethodPut, "/api/profiles/player", map[string]interface{}{"bio": "Quick and direct"}, http.StatusOK, nil)

	var got struct {
		Profile struct {
			Position string `json:"position"`
			Bio      string `json:"bio"`
		} `json:"profile"`
		User userResp `json:"user"`
	}
	scout.expect(http.MethodGet, path, nil, http.StatusOK, &got)
	if got.Profile.Position != "Striker" || got.Profile.Bio != "Quick and direct" {
		t.Errorf("profile = %+v", got.Profile)
	}
	if got.User.Email != "" {
		t.Errorf("public profile leaked email %q", got.User.Email)
	}

	var listed []json.RawMessage
	scout.expect(http.MethodGet, "/api/profiles/player?position=striker", nil, http.StatusOK, &listed)
	if len(listed) != 1 {
		t.Errorf("listed = %d, want 1", len(listed))
	}
}

func TestVideoCounters(t *testing.T) {
	cfg := testConfig(t)
	app := New(cfg, database.OpenTest(t))
	player, _ := register(t, app, "v@example.com", "player")

	var body bytes.Buffer
	w := newMultipart(t, &body, map[string]string{"title": "Goals", "duration": "30"}, "clip.mp4", []byte("fake video"))
	req := httptest.NewRequest(http.MethodPost, "/api/videos", &body)
	req.Header.Set("Content-Type", w)
	req.Header.Set("Cookie", middleware.SessionCookie+"="+player.cookie)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	var video struct {
		ID    uint   `json:"id"`
		URL   string `json:"url"`
		Views int    `json:"views"`
		Likes int    `json:"likes"`
	}
	if resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("upload status = %d (%s)", resp.StatusCode, data)
	}
	if err := json.NewDecoder(resp.Body).Decode(&video); err != nil {
		t.Fatalf("decode upload: %v", err)
	}
	resp.Body.Close()
	if !strings.HasPrefix(video.URL, "/uploads/videos/") {
		t.Errorf("url = %q", video.URL)
	}

	anon := &client{t: t, app: app}
	anon.expect(http.MethodGet, video.URL, nil, http.StatusOK, nil)

	path := fmt.Sprintf("/api/videos/%d", video.ID)
	for want := 1; want <= 3; want++ {
		anon.expect(http.MethodGet, path, nil, http.StatusOK, &video)
		if video.Views != want {
			t.Fatalf("views = %d, want %d", video.Views, want)
		}
	}
	anon.expect(http.MethodPost, path+"/like", nil, http.StatusUnauthorized, nil)
	player.expect(http.MethodPost, path+"/like", nil, http.StatusOK, &video)
	if video.Likes != 1 || video.Views != 3 {
		t.Errorf("after like: %+v", video)
	}
	anon.expect(http.MethodGet, "/api/videos/424242", nil, http.StatusNotFound, nil)
}

func TestInterestsAndAnalytics(t *testing.T) {
	app := newTestApp(t)
	player, playerUser := register(t, app, "ip@example.com", "player")
	scout, scoutUser := register(t, app, "is@example.com", "scout")
	academy, _ := register(t, app, "ia@example.com", "academy")

	record := map[string]interface{}{"playerId": playerUser.ID, "type": "viewed_profile"}
	player.expect(http.MethodPost, "/api/interests", record, http.StatusForbidden, nil)
	scout.expect(http.MethodPost, "/api/interests", record, http.StatusCreated, nil)
	scout.expect(http.MethodPost, "/api/interests", map[string]interface{}{"playerId": playerUser.ID, "type": "added_to_watchlist"}, http.StatusCreated, nil)
	scout.expect(http.MethodPost, "/api/interests", map[string]interface{}{"playerId": playerUser.ID, "type": "stalked"}, http.StatusBadRequest, nil)

	var rows []json.RawMessage
	(&client{t: t, app: app}).expect(http.MethodGet, fmt.Sprintf("/api/interests/player/%d", playerUser.ID), nil, http.StatusOK, &rows)
	if len(rows) != 2 {
		t.Errorf("player interests = %d, want 2", len(rows))
	}
	scout.expect(http.MethodGet, fmt.Sprintf("/api/interests/scout/%d", scoutUser.ID), nil, http.StatusOK, &rows)
	if len(rows) != 2 {
		t.Errorf("scout interests = %d, want 2", len(rows))
	}
	academy.expect(http.MethodGet, "/api/interests", nil, http.StatusForbidden, nil)

	var stats struct {
		ProfileViews     int64 `json:"profileViews"`
		WatchlistAdds    int64 `json:"watchlistAdds"`
		InterestedScouts int64 `json:"interestedScouts"`
	}
	player.expect(http.MethodGet, "/api/analytics/player", nil, http.StatusOK, &stats)
	if stats.ProfileViews != 1 || stats.WatchlistAdds != 1 || stats.InterestedScouts != 1 {
		t.Errorf("analytics = %+v", stats)
	}
	scout.expect(http.MethodGet, "/api/analytics/player", nil, http.StatusForbidden, nil)
	academy.expect(http.MethodGet, "/api/analytics/academy", nil, http.StatusOK, nil)

	var pub userResp
	academy.expect(http.MethodGet, fmt.Sprintf("/api/users/%d", playerUser.ID), nil, http.StatusOK, &pub)
	if pub.ID != playerUser.ID || pub.Email != "" {
		t.Errorf("public user = %+v", pub)
	}
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimitEnabled = true
	cfg.AuthRateLimitBurst = 2
	app := New(cfg, database.OpenTest(t))

	cl := &client{t: t, app: app}
	login := map[string]string{"email": "x@example.com", "password": "secret123"}
	cl.expect(http.MethodPost, "/api/auth/login", login, http.StatusUnauthorized, nil)
	cl.expect(http.MethodPost, "/api/auth/login", login, http.StatusUnauthorized, nil)
	cl.expect(http.MethodPost, "/api/auth/login", login, http.StatusTooManyRequests, nil)

	cl.expect(http.MethodGet, "/api/trials", nil, http.StatusOK, nil)
	cl.expect(http.MethodGet, "/health", nil, http.StatusOK, nil)
}
