package dashboard

import (
	"context"
	"fmt"

	"github.com/rpggio/jobtrack/internal/domain/filter"
	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/store"
)

// Command is a dashboard mutation handled by Dispatch.
type Command interface {
	command()
}

type (
	CreateProject struct{ OwnerID string }
	DeleteProject struct{ ID int }
	EditField     struct {
		ProjectID int
		Field     project.Field
		Raw       string
	}
	SetStatusFilter struct{ Status filter.View }
	SetOwnerFilter  struct{ Owner string }
	SetSearch       struct{ Text string }
)

func (CreateProject) command()   {}
func (DeleteProject) command()   {}
func (EditField) command()       {}
func (SetStatusFilter) command() {}
func (SetOwnerFilter) command()  {}
func (SetSearch) command()       {}

// Result carries what a command produced. Only the fields relevant to the
// command are set.
type Result struct {
	Project *project.Project
	Change  *store.Change
	Filter  filter.State
}

// Dispatch runs cmd and returns the resulting filter state alongside any
// project or change it produced.
func (e *Engine) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	var res Result
	switch c := cmd.(type) {
	case CreateProject:
		p, err := e.CreateProject(ctx, c.OwnerID)
		if err != nil {
			return Result{}, err
		}
		res.Project = &p
	case DeleteProject:
		if err := e.DeleteProject(ctx, c.ID); err != nil {
			return Result{}, err
		}
	case EditField:
		ch, err := e.EditField(ctx, c.ProjectID, c.Field, c.Raw)
		if err != nil {
			return Result{}, err
		}
		res.Change = &ch
		res.Project = &ch.Project
	case SetStatusFilter:
		e.SetStatusFilter(c.Status)
	case SetOwnerFilter:
		e.SetOwnerFilter(c.Owner)
	case SetSearch:
		e.SetSearch(c.Text)
	default:
		return Result{}, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	res.Filter = e.Filter()
	return res, nil
}
