// Package roles persists the user-to-role mapping and resolves the
// dashboard a session should land on.
package roles

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/agritrace/agritrace/internal/domain/models"
	"github.com/agritrace/agritrace/internal/repository/mongodb"
)

// ErrInvalidRole indicates a role outside the supported set.
var ErrInvalidRole = errors.New("invalid role")

// Service implements role persistence over the repository.
type Service struct {
	repo   mongodb.Repository
	logger *zap.Logger
}

// NewService wires a role service instance.
func NewService(repo mongodb.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// SaveRole validates and upserts the user's role; a repeated save for the
// same user overwrites.
func (s *Service) SaveRole(ctx context.Context, userID, rawRole string) (models.Role, error) {
	role, ok := models.ParseRole(rawRole)
	if !ok {
		return "", ErrInvalidRole
	}

	if err := s.repo.SaveRole(ctx, userID, role); err != nil {
		return "", err
	}

	s.logger.Info("role saved", zap.String("user_id", userID), zap.String("role", string(role)))
	return role, nil
}

// GetRole returns the user's saved role, or mongodb.ErrRoleNotFound.
func (s *Service) GetRole(ctx context.Context, userID string) (models.Role, error) {
	return s.repo.GetRole(ctx, userID)
}

// RedirectTarget resolves the navigation target for a session. Pure
// function of the authentication state and role claim.
func (s *Service) RedirectTarget(isAuthenticated bool, role models.Role) string {
	return models.RouteFor(isAuthenticated, role)
}
