package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"secretshare-service/internal/apperror"
	"secretshare-service/internal/models"
	"secretshare-service/internal/repositories"
	"secretshare-service/internal/telemetry"
)

type ProfileService struct {
	profiles repositories.ProfileRepository
	events   EventEmitter
	logger   *zap.Logger
}

func NewProfileService(profiles repositories.ProfileRepository, events EventEmitter, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{profiles: profiles, events: events, logger: logger}
}

// EnsureProfile creates the caller's profile on first authenticated use.
func (s *ProfileService) EnsureProfile(ctx context.Context, identity models.Identity) (*models.Profile, error) {
	profile, err := s.profiles.Ensure(ctx, identity.ID, identity.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperror.Conflict("Email already belongs to another account", err)
		}
		s.logger.Error("failed to ensure profile", zap.Stringer("user_id", identity.ID), zap.Error(err))
		return nil, apperror.Internal("Failed to load profile", err)
	}
	return profile, nil
}

func (s *ProfileService) GetOwnProfile(ctx context.Context, ownerID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("User")
		}
		s.logger.Error("failed to load profile", zap.Stringer("user_id", ownerID), zap.Error(err))
		return nil, apperror.Internal("Failed to load profile", err)
	}
	return profile, nil
}

// DeleteAccount removes the caller's profile. Friendships referencing it are
// removed by the store.
func (s *ProfileService) DeleteAccount(ctx context.Context, ownerID uuid.UUID) error {
	if err := s.profiles.Delete(ctx, ownerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("User")
		}
		s.logger.Error("failed to delete account", zap.Stringer("user_id", ownerID), zap.Error(err))
		return apperror.Internal("Failed to delete account", err)
	}

	if s.events != nil {
		s.events.Emit(ctx, telemetry.EventProfileDeleted, ownerID, telemetry.ProfileDeletedPayload{ProfileID: ownerID})
	}
	return nil
}
