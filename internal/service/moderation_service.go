package service

import (
	"context"
	"errors"
	"log/slog"

	"uplift/internal/middleware"
	"uplift/internal/models"
	"uplift/internal/repository"

	"gorm.io/gorm"
)

// ModerationService applies the strike policy for admin removals.
type ModerationService struct {
	users repository.UserRepository
}

// NewModerationService creates a moderation service.
func NewModerationService(users repository.UserRepository) *ModerationService {
	return &ModerationService{users: users}
}

// RecordRemoval issues a strike against a campaign owner when an admin
// removes content the admin does not own. Removing your own content, or
// content of an already-deactivated owner, earns no strike.
func (s *ModerationService) RecordRemoval(ctx context.Context, actor *models.User, ownerID uint) error {
	if actor == nil || !actor.IsAdmin || actor.ID == ownerID {
		return nil
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	if owner.IsDeactivated {
		return nil
	}

	if err := s.users.AddStrike(ctx, ownerID); err != nil {
		return models.NewInternalError(err)
	}

	middleware.StrikesIssued.Inc()
	middleware.Logger.InfoContext(ctx, "moderation strike issued",
		slog.Uint64("owner_id", uint64(ownerID)),
		slog.Uint64("admin_id", uint64(actor.ID)))
	return nil
}
