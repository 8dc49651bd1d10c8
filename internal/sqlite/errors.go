package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/jobtrack/internal/domain/project"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func formatDate(t time.Time) string {
	return t.Format(project.DateLayout)
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(*t), Valid: true}
}

func parseNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := project.ParseDate(s.String)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s.String, err)
	}
	return &t, nil
}
