package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/domain/sale"
	"github.com/rpggio/jobtrack/internal/repository"
)

// SaleRepository persists the sales ledger for SQLite
type SaleRepository struct {
	db *DB
}

// NewSaleRepository creates a new SaleRepository
func NewSaleRepository(db *DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// Create inserts a sale. A zero SalesID lets SQLite assign one.
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	query := `
		INSERT INTO sales (sales_id, date, project_id_fk, project_address, contract_amount, owner_name)
		VALUES (NULLIF(?, 0), ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		s.SalesID,
		formatDate(s.Date),
		s.ProjectIDFK,
		s.ProjectAddress,
		s.ContractAmount.StringFixed(2),
		s.OwnerName,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("sale for project %d: %w", s.ProjectIDFK, repository.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	if s.SalesID == 0 {
		if id, err := result.LastInsertId(); err == nil {
			s.SalesID = int(id)
		}
	}
	return nil
}

// List returns the ledger ordered by sales id
func (r *SaleRepository) List(ctx context.Context) ([]sale.Sale, error) {
	query := `
		SELECT sales_id, date, project_id_fk, project_address, contract_amount, owner_name
		FROM sales
		ORDER BY sales_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var sales []sale.Sale
	for rows.Next() {
		var (
			s    sale.Sale
			date string
		)
		if err := rows.Scan(
			&s.SalesID,
			&date,
			&s.ProjectIDFK,
			&s.ProjectAddress,
			&s.ContractAmount,
			&s.OwnerName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		if s.Date, err = project.ParseDate(date); err != nil {
			return nil, fmt.Errorf("sale %d date: %w", s.SalesID, err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale rows: %w", err)
	}

	return sales, nil
}
