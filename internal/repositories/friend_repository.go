package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"secretshare-service/internal/models"
)

const friendshipColumns = `id, requester_id, receiver_id, status, created_at, updated_at`

type FriendRepository interface {
	FindRelationship(ctx context.Context, userA, userB uuid.UUID) (*models.Friendship, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error)
	Create(ctx context.Context, requesterID, receiverID uuid.UUID) (*models.Friendship, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.FriendshipStatus) (*models.Friendship, error)
	AcceptPending(ctx context.Context, id uuid.UUID) (*models.Friendship, error)
	ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.FriendshipEntry, error)
	ListPendingReceived(ctx context.Context, userID uuid.UUID) ([]models.FriendshipEntry, error)
	ListPendingSent(ctx context.Context, userID uuid.UUID) ([]models.FriendshipEntry, error)
}

type friendRepository struct {
	db *sqlx.DB
}

func NewFriendRepository(db *sqlx.DB) FriendRepository {
	return &friendRepository{db: db}
}

// FindRelationship matches the row for {userA, userB} regardless of which
// side sent the request.
func (r *friendRepository) FindRelationship(ctx context.Context, userA, userB uuid.UUID) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.GetContext(ctx, &f, `
SELECT `+friendshipColumns+`
FROM friendships
WHERE (requester_id=$1 AND receiver_id=$2) OR (requester_id=$2 AND receiver_id=$1)
LIMIT 1
`, userA, userB)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find relationship: %w", err)
	}
	return &f, nil
}

func (r *friendRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.GetContext(ctx, &f, `SELECT `+friendshipColumns+` FROM friendships WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return &f, nil
}

// Create inserts a pending row. Callers validate non-self and uniqueness;
// the pair index still rejects a concurrent duplicate with ErrDuplicatePair.
func (r *friendRepository) Create(ctx context.Context, requesterID, receiverID uuid.UUID) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO friendships (id, requester_id, receiver_id, status)
VALUES ($1, $2, $3, 'pending')
RETURNING `+friendshipColumns+`
`, uuid.New(), requesterID, receiverID).StructScan(&f)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, ErrDuplicatePair
		case isForeignKeyViolation(err):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create friendship: %w", err)
	}
	return &f, nil
}

func (r *friendRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.FriendshipStatus) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.QueryRowxContext(ctx, `
UPDATE friendships SET status=$2, updated_at=NOW()
WHERE id=$1
RETURNING `+friendshipColumns+`
`, id, status).StructScan(&f)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update friendship status: %w", err)
	}
	return &f, nil
}

// AcceptPending moves a pending row to accepted in one statement, so only one
// of several concurrent accepts can win. A row that exists but is not pending
// yields ErrNotPending.
func (r *friendRepository) AcceptPending(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.QueryRowxContext(ctx, `
UPDATE friendships SET status='accepted', updated_at=NOW()
WHERE id=$1 AND status='pending'
RETURNING `+friendshipColumns+`
`, id).StructScan(&f)
	if err == nil {
		return &f, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to accept friendship: %w", err)
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrNotPending
}

func (r *friendRepository) ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.FriendshipEntry, error) {
	entries := []models.FriendshipEntry{}
	err := r.db.SelectContext(ctx, &entries, `
SELECT f.id AS friendship_id, p.id AS user_id, p.email, p.full_name, f.status, f.created_at
FROM friendships f
JOIN profiles p ON p.id = CASE WHEN f.requester_id=$1 THEN f.receiver_id ELSE f.requester_id END
WHERE (f.requester_id=$1 OR f.receiver_id=$1) AND f.status='accepted'
ORDER BY f.updated_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return entries, nil
}

func (r *friendRepository) ListPendingReceived(ctx context.Context, userID uuid.UUID) ([]models.FriendshipEntry, error) {
	entries := []models.FriendshipEntry{}
	err := r.db.SelectContext(ctx, &entries, `
SELECT f.id AS friendship_id, p.id AS user_id, p.email, p.full_name, f.status, f.created_at
FROM friendships f
JOIN profiles p ON p.id = f.requester_id
WHERE f.receiver_id=$1 AND f.status='pending'
ORDER BY f.created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list received requests: %w", err)
	}
	return entries, nil
}

func (r *friendRepository) ListPendingSent(ctx context.Context, userID uuid.UUID) ([]models.FriendshipEntry, error) {
	entries := []models.FriendshipEntry{}
	err := r.db.SelectContext(ctx, &entries, `
SELECT f.id AS friendship_id, p.id AS user_id, p.email, p.full_name, f.status, f.created_at
FROM friendships f
JOIN profiles p ON p.id = f.receiver_id
WHERE f.requester_id=$1 AND f.status='pending'
ORDER BY f.created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent requests: %w", err)
	}
	return entries, nil
}
