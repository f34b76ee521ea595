package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/centra-hq/centra-console/pkg/apperrors"
	"github.com/centra-hq/centra-console/pkg/database"
	"github.com/centra-hq/centra-console/pkg/models"
)

// UserRepository defines the interface for human identity rows.
// Only the identity fields are owned here; everything else on the humans
// table belongs to the upstream services.
type UserRepository interface {
	Upsert(ctx context.Context, human *models.Human) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Human, error)
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert inserts the human or refreshes its identity fields.
// An empty incoming email never clobbers a stored one.
func (r *userRepository) Upsert(ctx context.Context, human *models.Human) error {
	now := time.Now()
	human.CreatedAt = now
	human.UpdatedAt = now

	query := `
		INSERT INTO humans (id, display_name, email, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    email = COALESCE(EXCLUDED.email, humans.email),
		    updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		human.ID,
		human.DisplayName,
		human.Email,
		human.CreatedAt,
		human.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert human: %w", err)
	}

	return nil
}

// Delete removes a human row. Missing rows are not an error; the auth
// provider may deliver a deletion for a user that never signed in here.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM humans WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete human: %w", err)
	}

	return nil
}

// GetByID retrieves a human by ID.
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.Human, error) {
	query := `
		SELECT id, display_name, COALESCE(email, ''), created_at, updated_at
		FROM humans
		WHERE id = $1`

	var human models.Human
	err := r.db.QueryRow(ctx, query, id).Scan(
		&human.ID,
		&human.DisplayName,
		&human.Email,
		&human.CreatedAt,
		&human.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get human: %w", err)
	}

	return &human, nil
}

// Ensure userRepository implements UserRepository at compile time.
var _ UserRepository = (*userRepository)(nil)
