package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/repository"
)

// Service resolves user identities and project owners.
type Service struct {
	profiles ProfileRepository
	keys     KeyRepository
	logger   *slog.Logger
}

// NewService creates a new user service.
func NewService(profiles ProfileRepository, keys KeyRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{profiles: profiles, keys: keys, logger: logger}
}

// Get returns the profile with id.
func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	p, err := s.profiles.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return p, nil
}

// List returns every profile.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.profiles.List(ctx)
}

// Owner resolves the owner stamped on projects created by userID.
func (s *Service) Owner(ctx context.Context, userID string) (project.Owner, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return project.Owner{}, err
	}
	return project.Owner{ID: p.ID, Name: p.Name}, nil
}

// Authenticate resolves a bearer token to the profile that owns it.
func (s *Service) Authenticate(ctx context.Context, token string) (*Profile, error) {
	if token == "" || s.keys == nil {
		return nil, ErrInvalidToken
	}
	hash := HashToken(token)
	userID, err := s.keys.LookupUser(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("looking up api key: %w", err)
	}
	if err := s.keys.Touch(ctx, hash); err != nil {
		s.logger.Warn("failed to record api key use", "user_id", userID, "error", err)
	}
	return s.Get(ctx, userID)
}

// HashToken is the stored form of an API token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
