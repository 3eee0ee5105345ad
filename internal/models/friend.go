package models

import (
	"time"

	"github.com/google/uuid"
)

type FriendshipStatus string

const (
	StatusPending  FriendshipStatus = "pending"
	StatusAccepted FriendshipStatus = "accepted"
)

// Friendship is a directional request from RequesterID to ReceiverID that
// may mature into a symmetric relationship. At most one row exists per
// unordered pair of profiles.
type Friendship struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	RequesterID uuid.UUID        `db:"requester_id" json:"requester_id"`
	ReceiverID  uuid.UUID        `db:"receiver_id" json:"receiver_id"`
	Status      FriendshipStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

func (f *Friendship) Involves(userID uuid.UUID) bool {
	return f.RequesterID == userID || f.ReceiverID == userID
}

// Counterpart returns the other side of the relationship as seen by userID.
func (f *Friendship) Counterpart(userID uuid.UUID) uuid.UUID {
	if f.RequesterID == userID {
		return f.ReceiverID
	}
	return f.RequesterID
}

// FriendshipEntry is a friendship row joined with the counterpart's display fields.
type FriendshipEntry struct {
	FriendshipID uuid.UUID        `db:"friendship_id" json:"friendship_id"`
	UserID       uuid.UUID        `db:"user_id" json:"user_id"`
	Email        string           `db:"email" json:"email"`
	FullName     *string          `db:"full_name" json:"full_name,omitempty"`
	Status       FriendshipStatus `db:"status" json:"status"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
}

// Relation describes how a viewer relates to another profile.
type Relation string

const (
	RelationNone            Relation = "none"
	RelationPendingSent     Relation = "pending_sent"
	RelationPendingReceived Relation = "pending_received"
	RelationFriends         Relation = "friends"
)

type UserEntry struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName *string   `json:"full_name,omitempty"`
	Relation Relation  `json:"relation"`
}
