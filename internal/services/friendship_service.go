package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"secretshare-service/internal/apperror"
	"secretshare-service/internal/models"
	"secretshare-service/internal/repositories"
	"secretshare-service/internal/telemetry"
)

const (
	msgSelfRequest    = "You cannot add yourself as a friend"
	msgAlreadyFriends = "You are already friends with this user"
	msgRequestPending = "Friend request already sent or pending"
	msgNotReceiver    = "Only the receiver can accept this friend request"
	msgNotPending     = "Friend request is not pending"
)

// EventEmitter publishes relationship events. Implementations must not block
// or fail the calling operation.
type EventEmitter interface {
	Emit(ctx context.Context, eventType string, userID uuid.UUID, payload any)
}

// FriendshipService is the only authority over friendship status transitions:
// none -> pending -> accepted.
type FriendshipService struct {
	friends  repositories.FriendRepository
	profiles repositories.ProfileRepository
	events   EventEmitter
	logger   *zap.Logger
}

func NewFriendshipService(friends repositories.FriendRepository, profiles repositories.ProfileRepository, events EventEmitter, logger *zap.Logger) *FriendshipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FriendshipService{friends: friends, profiles: profiles, events: events, logger: logger}
}

func (s *FriendshipService) RequestFriendship(ctx context.Context, requesterID, targetID uuid.UUID) (*models.Friendship, error) {
	if requesterID == targetID {
		return nil, apperror.SelfReference(msgSelfRequest)
	}

	exists, err := s.profiles.Exists(ctx, targetID)
	if err != nil {
		return nil, s.internal("Failed to send friend request", err, zap.Stringer("target_id", targetID))
	}
	if !exists {
		return nil, apperror.NotFound("User")
	}

	existing, err := s.friends.FindRelationship(ctx, requesterID, targetID)
	switch {
	case err == nil:
		if existing.Status == models.StatusAccepted {
			return nil, apperror.AlreadyFriends(msgAlreadyFriends)
		}
		return nil, apperror.RequestAlreadyPending(msgRequestPending)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, s.internal("Failed to send friend request", err, zap.Stringer("target_id", targetID))
	}

	friendship, err := s.friends.Create(ctx, requesterID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicatePair):
			// a concurrent request for the same pair committed first
			return nil, apperror.Conflict(msgRequestPending, err)
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperror.NotFound("User")
		}
		return nil, s.internal("Failed to send friend request", err, zap.Stringer("target_id", targetID))
	}

	s.emit(ctx, telemetry.EventFriendRequestCreated, requesterID, telemetry.FriendRequestCreatedPayload{
		FriendshipID: friendship.ID,
		RequesterID:  friendship.RequesterID,
		ReceiverID:   friendship.ReceiverID,
		CreatedAt:    friendship.CreatedAt.UTC().Format(time.RFC3339Nano),
	})

	return friendship, nil
}

func (s *FriendshipService) AcceptFriendship(ctx context.Context, accepterID, friendshipID uuid.UUID) (*models.Friendship, error) {
	friendship, err := s.friends.GetByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Friend request")
		}
		return nil, s.internal("Failed to accept friend request", err, zap.Stringer("friendship_id", friendshipID))
	}

	if friendship.ReceiverID != accepterID {
		return nil, apperror.Unauthorized(msgNotReceiver)
	}
	if friendship.Status != models.StatusPending {
		return nil, apperror.InvalidState(msgNotPending)
	}

	accepted, err := s.friends.AcceptPending(ctx, friendshipID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperror.NotFound("Friend request")
		case errors.Is(err, repositories.ErrNotPending):
			return nil, apperror.InvalidState(msgNotPending)
		}
		return nil, s.internal("Failed to accept friend request", err, zap.Stringer("friendship_id", friendshipID))
	}

	s.emit(ctx, telemetry.EventFriendshipAccepted, accepterID, telemetry.FriendshipAcceptedPayload{
		FriendshipID: accepted.ID,
		RequesterID:  accepted.RequesterID,
		ReceiverID:   accepted.ReceiverID,
		AcceptedAt:   accepted.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})

	return accepted, nil
}

// AreFriends reports whether an accepted friendship exists between a and b,
// in either direction.
func (s *FriendshipService) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if a == b {
		return false, nil
	}
	friendship, err := s.friends.FindRelationship(ctx, a, b)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, s.internal("Failed to check friendship", err)
	}
	return friendship.Status == models.StatusAccepted, nil
}

func (s *FriendshipService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.FriendshipEntry, error) {
	entries, err := s.friends.ListAccepted(ctx, userID)
	if err != nil {
		return nil, s.internal("Failed to load friends", err)
	}
	return entries, nil
}

func (s *FriendshipService) ListPendingReceived(ctx context.Context, userID uuid.UUID) ([]models.FriendshipEntry, error) {
	entries, err := s.friends.ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, s.internal("Failed to load friend requests", err)
	}
	return entries, nil
}

func (s *FriendshipService) ListPendingSent(ctx context.Context, userID uuid.UUID) ([]models.FriendshipEntry, error) {
	entries, err := s.friends.ListPendingSent(ctx, userID)
	if err != nil {
		return nil, s.internal("Failed to load sent friend requests", err)
	}
	return entries, nil
}

// ListOtherUsers returns every profile except the viewer, annotated with the
// viewer's relation to it.
func (s *FriendshipService) ListOtherUsers(ctx context.Context, viewerID uuid.UUID) ([]models.UserEntry, error) {
	profiles, err := s.profiles.ListOthers(ctx, viewerID)
	if err != nil {
		return nil, s.internal("Failed to load users", err)
	}

	relations := make(map[uuid.UUID]models.Relation)
	friends, err := s.ListFriends(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for _, f := range friends {
		relations[f.UserID] = models.RelationFriends
	}
	received, err := s.ListPendingReceived(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for _, r := range received {
		relations[r.UserID] = models.RelationPendingReceived
	}
	sent, err := s.ListPendingSent(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for _, r := range sent {
		relations[r.UserID] = models.RelationPendingSent
	}

	users := make([]models.UserEntry, 0, len(profiles))
	for _, p := range profiles {
		relation, ok := relations[p.ID]
		if !ok {
			relation = models.RelationNone
		}
		users = append(users, models.UserEntry{
			ID:       p.ID,
			Email:    p.Email,
			FullName: p.FullName,
			Relation: relation,
		})
	}
	return users, nil
}

func (s *FriendshipService) emit(ctx context.Context, eventType string, userID uuid.UUID, payload any) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, eventType, userID, payload)
}

func (s *FriendshipService) internal(message string, err error, fields ...zap.Field) error {
	s.logger.Error(message, append(fields, zap.Error(err))...)
	return apperror.Internal(message, err)
}
