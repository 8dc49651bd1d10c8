package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/jobtrack/internal/domain/permission"
	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/domain/sale"
	"github.com/rpggio/jobtrack/internal/domain/user"
	"github.com/shopspring/decimal"
)

// ErrAlreadySeeded is returned when the database already holds users.
var ErrAlreadySeeded = errors.New("database already seeded")

// SeedResult reports the generated users and their plaintext API tokens.
type SeedResult struct {
	Users    []user.Profile
	Tokens   map[string]string // user id -> token
	Projects int
	Sales    int
}

type seedProject struct {
	address, client string
	contract, paid  int64
	status          project.Status
	quotedAgo       int // months
	startedAgo      int // months, -1 when never started
	finishedAgo     int // months, -1 when never finished
	owner           int // index into seed users
}

var seedUsers = []struct {
	name  string
	email string
	roles []permission.Role
}{
	{"Avery Admin", "avery@example.com", []permission.Role{permission.RoleAdmin, permission.RolePM}},
	{"Dana Reyes", "dana@example.com", []permission.Role{permission.RolePM}},
	{"Lee Park", "lee@example.com", []permission.Role{permission.RolePM}},
}

var seedProjects = []seedProject{
	{"123 Main St", "Acme Builders", 10000, 2500, project.StatusActive, 5, 4, -1, 1},
	{"5 Oak Rd", "Birch Homes", 4200, 4200, project.StatusArchived, 11, 10, 9, 2},
	{"77 Harbor Ave", "Cole & Sons", 18500, 0, project.StatusQuoted, 1, -1, -1, 2},
	{"8 Hill Way", "Main Street Co", 3000, 3000, project.StatusFinished, 6, 5, 2, 1},
	{"42 Cedar Ln", "Dunmore LLC", 22750, 9000, project.StatusActive, 3, 2, -1, 2},
	{"19 Willow Ct", "Evergreen Trust", 7600, 1200, project.StatusActive, 2, 1, -1, 0},
	{"300 Bay St", "Fulton Group", 12900, 0, project.StatusQuoted, 0, -1, -1, 1},
	{"61 Ridge Rd", "Granite Works", 5400, 5400, project.StatusFinished, 4, 3, 1, 0},
}

// Seed fills an empty database with demo users, API keys, projects and sales
// dated relative to now.
func Seed(ctx context.Context, db *DB, now time.Time) (*SeedResult, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_profile`).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadySeeded
	}

	users := NewUserRepository(db)
	keys := NewAPIKeyRepository(db)
	projects := NewProjectRepository(db)
	sales := NewSaleRepository(db)

	res := &SeedResult{Tokens: make(map[string]string)}
	for _, su := range seedUsers {
		p := user.Profile{ID: uuid.NewString(), Name: su.name, Email: su.email, Roles: su.roles}
		if err := users.Create(ctx, &p); err != nil {
			return nil, err
		}
		token := uuid.NewString()
		if err := keys.Create(ctx, user.HashToken(token), p.ID, "seeded key for "+su.name); err != nil {
			return nil, err
		}
		res.Users = append(res.Users, p)
		res.Tokens[p.ID] = token
	}

	monthsAgo := func(n int) time.Time {
		return project.Day(now.AddDate(0, -n, 0))
	}
	optMonthsAgo := func(n int) *time.Time {
		if n < 0 {
			return nil
		}
		t := monthsAgo(n)
		return &t
	}

	for i, sp := range seedProjects {
		owner := res.Users[sp.owner]
		p := project.Project{
			ID:             i + 1,
			ProjectAddress: sp.address,
			Client:         sp.client,
			ContractAmount: decimal.NewFromInt(sp.contract),
			Paid:           decimal.NewFromInt(sp.paid),
			Status:         sp.status,
			DateQuoted:     monthsAgo(sp.quotedAgo),
			DateStarted:    optMonthsAgo(sp.startedAgo),
			DateFinished:   optMonthsAgo(sp.finishedAgo),
			OwnerID:        owner.ID,
			OwnerName:      owner.Name,
		}
		if err := projects.Create(ctx, &p); err != nil {
			return nil, err
		}
		res.Projects++

		if p.DateStarted == nil {
			continue
		}
		s := sale.Sale{
			Date:           *p.DateStarted,
			ProjectIDFK:    p.ID,
			ProjectAddress: p.ProjectAddress,
			ContractAmount: p.ContractAmount,
			OwnerName:      owner.Name,
		}
		if err := sales.Create(ctx, &s); err != nil {
			return nil, err
		}
		res.Sales++
	}

	return res, nil
}
