package telemetry

import "github.com/google/uuid"

const eventSchemaVersion = 1

// Routing keys published on the events exchange.
const (
	EventFriendRequestCreated  = "friend.request.created"
	EventFriendshipAccepted    = "friendship.accepted"
	EventProfileMessageUpdated = "profile.message.updated"
	EventProfileDeleted        = "profile.deleted"
)

type Config struct {
	Environment string
	ServiceName string
}

// Envelope wraps every event published to the exchange.
type Envelope struct {
	SchemaVersion int        `json:"schema_version"`
	EventID       string     `json:"event_id"`
	EventType     string     `json:"event_type"`
	OccurredAt    string     `json:"occurred_at"`
	Service       string     `json:"service"`
	Environment   string     `json:"environment"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	Payload       any        `json:"payload"`
}

type FriendRequestCreatedPayload struct {
	FriendshipID uuid.UUID `json:"friendship_id"`
	RequesterID  uuid.UUID `json:"requester_id"`
	ReceiverID   uuid.UUID `json:"receiver_id"`
	CreatedAt    string    `json:"created_at"`
}

type FriendshipAcceptedPayload struct {
	FriendshipID uuid.UUID `json:"friendship_id"`
	RequesterID  uuid.UUID `json:"requester_id"`
	ReceiverID   uuid.UUID `json:"receiver_id"`
	AcceptedAt   string    `json:"accepted_at"`
}

// ProfileMessageUpdatedPayload never carries the message text.
type ProfileMessageUpdatedPayload struct {
	ProfileID uuid.UUID `json:"profile_id"`
	UpdatedAt string    `json:"updated_at"`
}

type ProfileDeletedPayload struct {
	ProfileID uuid.UUID `json:"profile_id"`
}
