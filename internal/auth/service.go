// Package auth implements accounts and sessions: password sign-up/sign-in,
// JWT access tokens, rotating refresh tokens and password resets. It is the
// in-repo replacement for the hosted auth provider the original app
// delegated to.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hmoreau/linkshelf/internal/domain"
	"github.com/hmoreau/linkshelf/internal/logger"
	"github.com/hmoreau/linkshelf/internal/store"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token. The refresh token is opaque; the access token is a JWT.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Config holds the token parameters of the auth service.
type Config struct {
	JWTSecret       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
}

// Service implements the auth operations behind the sign-in/sign-up
// endpoints and the session gate.
type Service struct {
	users       store.Users
	sessions    store.Sessions
	resetTokens store.ResetTokens
	cfg         Config
	logger      logger.Logger
	timeNow     func() time.Time
}

func NewService(users store.Users, sessions store.Sessions, resetTokens store.ResetTokens, cfg Config, log logger.Logger) *Service {
	return &Service{
		users:       users,
		sessions:    sessions,
		resetTokens: resetTokens,
		cfg:         cfg,
		logger:      log,
		timeNow:     time.Now,
	}
}

// SignUp registers a new account and opens a session for it.
func (s *Service) SignUp(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, nil, fmt.Errorf("%w: password too short", domain.ErrInvalidInput)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.timeNow(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// SignIn verifies credentials and opens a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates the refresh token and mints a new access token. Any
// failure - unknown token, expired session, lost rotation race - collapses
// to ErrSessionExpired so the gate treats it as "no user".
func (s *Service) Refresh(ctx context.Context, refreshToken string) (uuid.UUID, *TokenPair, error) {
	sess, err := s.sessions.ByRefreshHash(ctx, HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, nil, domain.ErrSessionExpired
		}
		return uuid.Nil, nil, err
	}
	if sess.Expired(s.timeNow()) {
		// Best effort cleanup; the row is dead either way.
		_ = s.sessions.Delete(ctx, sess.ID)
		return uuid.Nil, nil, domain.ErrSessionExpired
	}

	refresh, err := GenerateRefreshToken()
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	next := &domain.Session{
		ID:          uuid.New(),
		UserID:      sess.UserID,
		RefreshHash: HashToken(refresh),
		ExpiresAt:   s.timeNow().Add(s.cfg.RefreshTokenTTL),
		CreatedAt:   s.timeNow(),
	}
	if err := s.sessions.Rotate(ctx, sess.ID, next); err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return uuid.Nil, nil, domain.ErrSessionExpired
		}
		return uuid.Nil, nil, err
	}

	access, err := GenerateAccessToken(sess.UserID, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return sess.UserID, &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// SignOut destroys the session behind the refresh token. Unknown tokens
// are not an error: sign-out is idempotent.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	sess, err := s.sessions.ByRefreshHash(ctx, HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.sessions.Delete(ctx, sess.ID)
}

// VerifyAccess validates an access token presented by a cookie or a bearer
// header.
func (s *Service) VerifyAccess(tokenStr string) (uuid.UUID, error) {
	return VerifyAccessToken(tokenStr, s.cfg.JWTSecret)
}

// RequestPasswordReset issues a single-use reset token for the account.
// Mail delivery is out of scope; the token is logged for the operator. An
// unknown email still succeeds so the endpoint does not leak which emails
// are registered.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := GenerateRefreshToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.resetTokens.Create(ctx, HashToken(token), user.ID, s.timeNow().Add(s.cfg.ResetTokenTTL)); err != nil {
		return err
	}

	s.logger.Info("password reset token issued",
		logger.String("email", email),
		logger.String("token", token))
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password too short", domain.ErrInvalidInput)
	}
	userID, err := s.resetTokens.Consume(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUnauthorized
		}
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// UpdatePassword sets a new password for an authenticated user.
func (s *Service) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password too short", domain.ErrInvalidInput)
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *Service) openSession(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	refresh, err := GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	sess := &domain.Session{
		ID:          uuid.New(),
		UserID:      userID,
		RefreshHash: HashToken(refresh),
		ExpiresAt:   s.timeNow().Add(s.cfg.RefreshTokenTTL),
		CreatedAt:   s.timeNow(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	access, err := GenerateAccessToken(userID, s.cfg.JWTSecret, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
