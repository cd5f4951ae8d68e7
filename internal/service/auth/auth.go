package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/the3rafas/cr7system/internal/config"
	"github.com/the3rafas/cr7system/internal/domain/models"
	"github.com/the3rafas/cr7system/internal/repository"
)

// Service describes the password gate operations the HTTP layer can perform.
type Service interface {
	Login(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, token string) error
}

// PasswordService implements the shared-password gate: a correct password
// buys a device token that stays valid for a fixed number of days.
type PasswordService struct {
	cfg    config.AuthConfig
	store  repository.Store
	logger *zap.Logger

	now func() time.Time
}

// NewService wires a new auth service instance.
func NewService(cfg config.AuthConfig, store repository.Store, logger *zap.Logger) *PasswordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasswordService{
		cfg:    cfg,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Login checks the shared password and, on success, issues a fresh device
// token. Expired sessions are pruned on the way.
func (s *PasswordService) Login(ctx context.Context, password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) != 1 {
		return "", fmt.Errorf("%w: wrong password", models.ErrInvalidArgument)
	}

	sessions, err := s.store.Sessions(ctx)
	if err != nil {
		return "", fmt.Errorf("load sessions: %w", err)
	}

	now := s.now()
	kept := make([]models.DeviceSession, 0, len(sessions)+1)
	for _, session := range sessions {
		if s.expired(session, now) {
			continue
		}
		kept = append(kept, session)
	}

	token := uuid.NewString()
	kept = append(kept, models.DeviceSession{Token: token, LastLogin: now})

	if err := s.store.SaveSessions(ctx, kept); err != nil {
		return "", fmt.Errorf("save sessions: %w", err)
	}

	s.logger.Info("device logged in", zap.Int("active_sessions", len(kept)))
	return token, nil
}

// Verify reports whether the token identifies a session younger than the
// configured window. The window is counted from login and is not refreshed
// by verification.
func (s *PasswordService) Verify(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: missing device token", models.ErrInvalidArgument)
	}

	sessions, err := s.store.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	now := s.now()
	for _, session := range sessions {
		if session.Token != token {
			continue
		}
		if s.expired(session, now) {
			return fmt.Errorf("%w: device token expired", models.ErrInvalidArgument)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown device token", models.ErrNotFound)
}

func (s *PasswordService) expired(session models.DeviceSession, now time.Time) bool {
	ttl := time.Duration(s.cfg.SessionTTLDays) * 24 * time.Hour
	return now.Sub(session.LastLogin) > ttl
}
