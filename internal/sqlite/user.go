package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/jobtrack/internal/domain/permission"
	"github.com/rpggio/jobtrack/internal/domain/user"
	"github.com/rpggio/jobtrack/internal/repository"
)

// UserRepository implements user.ProfileRepository for SQLite
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a profile and its roles in one transaction
func (r *UserRepository) Create(ctx context.Context, p *user.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var email sql.NullString
	if p.Email != "" {
		email = sql.NullString{String: p.Email, Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_profile (id, name, email) VALUES (?, ?, ?)`,
		p.ID, p.Name, email,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", p.ID, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	for _, role := range p.Roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES (?, ?)`,
			p.ID, string(role),
		); err != nil {
			return fmt.Errorf("failed to add role %s: %w", role, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a profile by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*user.Profile, error) {
	var (
		p     user.Profile
		email sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email FROM user_profile WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &email)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	p.Email = email.String

	roles, err := r.roles(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Roles = roles
	return &p, nil
}

// List returns every profile ordered by name
func (r *UserRepository) List(ctx context.Context) ([]user.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email FROM user_profile ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var profiles []user.Profile
	for rows.Next() {
		var (
			p     user.Profile
			email sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &email); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		p.Email = email.String
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	// Close before the role queries; the pool holds a single connection.
	rows.Close()

	for i := range profiles {
		roles, err := r.roles(ctx, profiles[i].ID)
		if err != nil {
			return nil, err
		}
		profiles[i].Roles = roles
	}
	return profiles, nil
}

func (r *UserRepository) roles(ctx context.Context, userID string) ([]permission.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = ? ORDER BY role ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	roles := []permission.Role{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		if role, ok := permission.ParseRole(name); ok {
			roles = append(roles, role)
		}
	}
	return roles, rows.Err()
}
