package models

import (
	"time"

	"github.com/google/uuid"
)

const MaxSecretMessageLength = 1000

// Profile is a user's durable record. ID equals the identity provider subject.
type Profile struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	FullName      *string   `db:"full_name" json:"full_name,omitempty"`
	SecretMessage *string   `db:"secret_message" json:"secret_message,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Profile) Message() string {
	if p.SecretMessage == nil {
		return ""
	}
	return *p.SecretMessage
}

// Identity is the authenticated caller as reported by the identity provider.
type Identity struct {
	ID    uuid.UUID
	Email string
}
