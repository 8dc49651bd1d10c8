package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/jobtrack/internal/repository"
)

// APIKeyRepository implements user.KeyRepository for SQLite
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores a hashed key for a user
func (r *APIKeyRepository) Create(ctx context.Context, keyHash, userID, description string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, user_id, created_at, description) VALUES (?, ?, ?, ?)`,
		keyHash, userID, time.Now().UTC(), description,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("api key for %s: %w", userID, repository.ErrForeignKeyViolation)
	}
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// LookupUser returns the user owning a key hash
func (r *APIKeyRepository) LookupUser(ctx context.Context, keyHash string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM api_keys WHERE key_hash = ?`, keyHash).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up api key: %w", err)
	}
	return userID, nil
}

// Touch records the last use of a key
func (r *APIKeyRepository) Touch(ctx context.Context, keyHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), keyHash)
	if err != nil {
		return fmt.Errorf("failed to touch api key: %w", err)
	}
	return nil
}
