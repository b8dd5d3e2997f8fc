// services/auth_service.go - Accounts, password hashing and server-side sessions
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"scoutlink/logging"
	"scoutlink/models"
	"scoutlink/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionIssuer = "scoutlink"

// maxPasswordBytes is the bcrypt input limit. Validation counts runes, so
// multibyte passwords are checked again here.
const maxPasswordBytes = 72

// RegisterParams are already validated at the API boundary.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.Role
}

// AccountUpdate changes only the non-nil fields.
type AccountUpdate struct {
	FirstName    *string
	LastName     *string
	ProfileImage *string
}

// SessionMeta is recorded with a new session.
type SessionMeta struct {
	UserAgent string
	ClientIP  string
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type AuthService struct {
	store    Store
	secret   []byte
	ttl      time.Duration
	hashCost int
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(store Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		store:    store,
		secret:   []byte(secret),
		ttl:      ttl,
		hashCost: bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SessionTTL is the lifetime of new sessions.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Register creates an account. A duplicate email returns ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	role := p.Role
	if role == "" {
		role = models.RolePlayer
	}
	if _, ok := models.ParseRole(string(role)); !ok {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	if len(p.Password) > maxPasswordBytes {
		return nil, validation.NewFieldError("password", fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        normalizeEmail(p.Email),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		Role:         role,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies an email/password pair. Unknown emails and wrong
// passwords both return ErrInvalidCredentials after a bcrypt comparison.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("scoutlink-dummy-password"), s.hashCost)
	})
	return s.dummyHash
}

// Login authenticates and opens a session, returning the signed cookie value.
func (s *AuthService) Login(ctx context.Context, email, password string, meta SessionMeta) (*models.User, string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	log := logging.WithComponent("auth")
	if n, err := s.store.DeleteExpiredSessions(ctx, s.now()); err != nil {
		log.Warn().Err(err).Msg("failed to purge expired sessions")
	} else if n > 0 {
		log.Debug().Int64("count", n).Msg("purged expired sessions")
	}

	token, err := s.StartSession(ctx, user, meta)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// StartSession stores a session row for user and returns its signed token.
func (s *AuthService) StartSession(ctx context.Context, user *models.User, meta SessionMeta) (string, error) {
	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.ttl),
		UserAgent: truncate(meta.UserAgent, 255),
		ClientIP:  truncate(meta.ClientIP, 64),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	claims := sessionClaims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// ResolveSession verifies a session token and loads the current user.
// Any failure is ErrUnauthenticated, except storage errors.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrUnauthenticated
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.SessionID == "" {
		return Principal{}, ErrUnauthenticated
	}

	session, err := s.store.GetSession(ctx, claims.SessionID)
	if errors.Is(err, ErrNotFound) {
		return Principal{}, ErrUnauthenticated
	}
	if err != nil {
		return Principal{}, err
	}
	if !session.ExpiresAt.After(s.now()) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return Principal{}, ErrUnauthenticated
	}
	if claims.Subject != fmt.Sprint(session.UserID) {
		return Principal{}, ErrUnauthenticated
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if errors.Is(err, ErrNotFound) {
		return Principal{}, ErrUnauthenticated
	}
	if err != nil {
		return Principal{}, err
	}
	return NewPrincipal(user, session.ID), nil
}

// Logout deletes the session. Unknown ids are ignored.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.store.DeleteSession(ctx, sessionID)
}

// CurrentUser reloads the principal's user row.
func (s *AuthService) CurrentUser(ctx context.Context, p Principal) (*models.User, error) {
	return s.store.GetUser(ctx, p.UserID)
}

// UpdateAccount changes the caller's own name and profile image.
func (s *AuthService) UpdateAccount(ctx context.Context, p Principal, upd AccountUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if upd.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*upd.LastName)
	}
	if upd.ProfileImage != nil {
		if *upd.ProfileImage == "" {
			updates["profile_image"] = nil
		} else {
			updates["profile_image"] = *upd.ProfileImage
		}
	}
	return s.store.UpdateUser(ctx, p.UserID, updates)
}

// ChangeRole is the re-onboarding step. It is refused with ErrRoleLocked once
// the user has created a profile for their current role.
func (s *AuthService) ChangeRole(ctx context.Context, p Principal, role models.Role) (*models.User, error) {
	if _, ok := models.ParseRole(string(role)); !ok {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	var updated *models.User
	err := s.store.WithTx(ctx, func(tx Store) error {
		user, err := tx.GetUser(ctx, p.UserID)
		if err != nil {
			return err
		}
		if user.Role == role {
			updated = user
			return nil
		}

		locked, err := NewProfileService(tx).HasProfile(ctx, user.Role, user.ID)
		if err != nil {
			return err
		}
		if locked {
			return ErrRoleLocked
		}

		updated, err = tx.UpdateUser(ctx, user.ID, map[string]interface{}{"role": role})
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
