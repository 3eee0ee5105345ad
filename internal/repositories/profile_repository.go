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

const profileColumns = `id, email, full_name, secret_message, created_at, updated_at`

var ErrDuplicateEmail = errors.New("email already belongs to another profile")

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Ensure(ctx context.Context, id uuid.UUID, email string) (*models.Profile, error)
	UpsertSecretMessage(ctx context.Context, id uuid.UUID, email, message string) (*models.Profile, error)
	ListOthers(ctx context.Context, id uuid.UUID) ([]models.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := r.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE id=$1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (r *profileRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM profiles WHERE id=$1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return exists, nil
}

// Ensure creates the profile on first sight of an identity. An existing row
// only has its email refreshed when the provider supplies one.
func (r *profileRepository) Ensure(ctx context.Context, id uuid.UUID, email string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO profiles (id, email)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE
SET email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE profiles.email END
RETURNING `+profileColumns+`
`, id, email).StructScan(&p)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}
	return &p, nil
}

func (r *profileRepository) UpsertSecretMessage(ctx context.Context, id uuid.UUID, email, message string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO profiles (id, email, secret_message)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET secret_message = EXCLUDED.secret_message, updated_at = NOW()
RETURNING `+profileColumns+`
`, id, email, message).StructScan(&p)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to upsert secret message: %w", err)
	}
	return &p, nil
}

func (r *profileRepository) ListOthers(ctx context.Context, id uuid.UUID) ([]models.Profile, error) {
	profiles := []models.Profile{}
	err := r.db.SelectContext(ctx, &profiles, `
SELECT id, email, full_name, created_at, updated_at
FROM profiles
WHERE id<>$1
ORDER BY email
`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// Delete removes the profile; friendships referencing it cascade.
func (r *profileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
