package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/repository"
)

// ProjectRepository persists projects for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project with its id
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (
			id, project_address, client, contract_amount, paid, status,
			date_quoted, date_started, date_finished, user_id_fk
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var owner sql.NullString
	if p.OwnerID != "" {
		owner = sql.NullString{String: p.OwnerID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ProjectAddress,
		p.Client,
		p.ContractAmount.StringFixed(2),
		p.Paid.StringFixed(2),
		string(p.Status),
		formatDate(p.DateQuoted),
		nullDate(p.DateStarted),
		nullDate(p.DateFinished),
		owner,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("project %d owner %q: %w", p.ID, p.OwnerID, repository.ErrForeignKeyViolation)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("project %d: %w", p.ID, repository.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

const projectColumns = `
	p.id, p.project_address, p.client, p.contract_amount, p.paid, p.status,
	p.date_quoted, p.date_started, p.date_finished,
	COALESCE(p.user_id_fk, ''), COALESCE(u.name, '')
`

// List returns every project ordered by id, with owner names
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	query := `SELECT` + projectColumns + `
		FROM projects p
		LEFT JOIN user_profile u ON u.id = p.user_id_fk
		ORDER BY p.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var (
		p                 project.Project
		status, quoted    string
		started, finished sql.NullString
	)
	if err := row.Scan(
		&p.ID,
		&p.ProjectAddress,
		&p.Client,
		&p.ContractAmount,
		&p.Paid,
		&status,
		&quoted,
		&started,
		&finished,
		&p.OwnerID,
		&p.OwnerName,
	); err != nil {
		return nil, err
	}

	p.Status = project.Status(status)
	var err error
	if p.DateQuoted, err = project.ParseDate(quoted); err != nil {
		return nil, fmt.Errorf("project %d date_quoted: %w", p.ID, err)
	}
	if p.DateStarted, err = parseNullDate(started); err != nil {
		return nil, fmt.Errorf("project %d date_started: %w", p.ID, err)
	}
	if p.DateFinished, err = parseNullDate(finished); err != nil {
		return nil, fmt.Errorf("project %d date_finished: %w", p.ID, err)
	}
	return &p, nil
}
