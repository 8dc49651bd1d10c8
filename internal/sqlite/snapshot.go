package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/jobtrack/internal/store"
)

// SnapshotLoader reads the initial record set handed to the store.
type SnapshotLoader struct {
	projects *ProjectRepository
	sales    *SaleRepository
}

// NewSnapshotLoader creates a new SnapshotLoader
func NewSnapshotLoader(db *DB) *SnapshotLoader {
	return &SnapshotLoader{
		projects: NewProjectRepository(db),
		sales:    NewSaleRepository(db),
	}
}

// Load returns every project, with owner names, and every sale.
func (l *SnapshotLoader) Load(ctx context.Context) (store.Snapshot, error) {
	projects, err := l.projects.List(ctx)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("loading projects: %w", err)
	}
	sales, err := l.sales.List(ctx)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("loading sales: %w", err)
	}
	return store.Snapshot{Projects: projects, Sales: sales}, nil
}
