package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"secretshare-service/internal/apperror"
	"secretshare-service/internal/models"
	"secretshare-service/internal/repositories"
	"secretshare-service/internal/telemetry"
)

// PlaceholderMessage is shown to authorized viewers when the target has no message.
const PlaceholderMessage = "This user has not set a secret message yet."

const (
	msgNotFriends     = "You are not friends with this user"
	msgMessageEmpty   = "Message cannot be empty"
	msgMessageTooLong = "Message is too long"
	msgMessageInvalid = "Message must be valid UTF-8 text without NUL characters"
)

// FriendChecker answers whether two users share an accepted friendship.
type FriendChecker interface {
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// MessageService gates reads of secret messages and updates the caller's own.
// Every read path goes through CanView.
type MessageService struct {
	friends  FriendChecker
	profiles repositories.ProfileRepository
	events   EventEmitter
	logger   *zap.Logger
}

func NewMessageService(friends FriendChecker, profiles repositories.ProfileRepository, events EventEmitter, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{friends: friends, profiles: profiles, events: events, logger: logger}
}

// CanView reports whether viewerID may read targetID's secret message: the
// same user, or an accepted friendship in either direction. It never mutates state.
func (s *MessageService) CanView(ctx context.Context, viewerID, targetID uuid.UUID) (bool, error) {
	if viewerID == targetID {
		return true, nil
	}
	return s.friends.AreFriends(ctx, viewerID, targetID)
}

func (s *MessageService) GetVisibleMessage(ctx context.Context, viewerID, targetID uuid.UUID) (string, error) {
	allowed, err := s.CanView(ctx, viewerID, targetID)
	if err != nil {
		return "", apperror.From(err)
	}
	if !allowed {
		return "", apperror.Authorization(msgNotFriends)
	}

	profile, err := s.profiles.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			if viewerID == targetID {
				return "", apperror.NotFound("User")
			}
			return "", apperror.NotFound("Friend")
		}
		s.logger.Error("failed to load secret message", zap.Stringer("target_id", targetID), zap.Error(err))
		return "", apperror.Internal("Failed to get friend's secret message", err)
	}

	if message := profile.Message(); message != "" {
		return message, nil
	}
	return PlaceholderMessage, nil
}

// SetOwnMessage validates the raw text (no trimming) and upserts it onto the
// owner's profile, creating the profile if it does not exist yet.
func (s *MessageService) SetOwnMessage(ctx context.Context, owner models.Identity, text string) (*models.Profile, error) {
	if err := ValidateSecretMessage(text); err != nil {
		return nil, err
	}

	profile, err := s.profiles.UpsertSecretMessage(ctx, owner.ID, owner.Email, text)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperror.Conflict("Email already belongs to another account", err)
		}
		s.logger.Error("failed to update secret message", zap.Stringer("owner_id", owner.ID), zap.Error(err))
		return nil, apperror.Internal("Failed to update secret message", err)
	}

	if s.events != nil {
		s.events.Emit(ctx, telemetry.EventProfileMessageUpdated, owner.ID, telemetry.ProfileMessageUpdatedPayload{
			ProfileID: profile.ID,
			UpdatedAt: profile.UpdatedAt.UTC().Format(time.RFC3339Nano),
		})
	}

	return profile, nil
}

// ValidateSecretMessage checks 1 <= characters <= MaxSecretMessageLength and
// that the text is storable: valid UTF-8 with no NUL characters.
func ValidateSecretMessage(text string) error {
	if !utf8.ValidString(text) || strings.ContainsRune(text, 0) {
		return apperror.Validation("message", msgMessageInvalid)
	}
	length := utf8.RuneCountInString(text)
	if length < 1 {
		return apperror.Validation("message", msgMessageEmpty)
	}
	if length > models.MaxSecretMessageLength {
		return apperror.Validation("message", msgMessageTooLong)
	}
	return nil
}
