package filter

import (
	"errors"
	"fmt"

	"github.com/rpggio/jobtrack/internal/domain/project"
)

// ErrUnknownStatus indicates a status view that is neither "all" nor a project status.
var ErrUnknownStatus = errors.New("unknown status view")

// View selects which statuses are listed.
type View string

const (
	// ViewAll lists every project except archived ones.
	ViewAll      View = "all"
	ViewQuoted   View = View(project.StatusQuoted)
	ViewActive   View = View(project.StatusActive)
	ViewFinished View = View(project.StatusFinished)
	ViewArchived View = View(project.StatusArchived)
)

// AllOwners matches every owner.
const AllOwners = "all"

// ParseView validates a status view name.
func ParseView(s string) (View, error) {
	v := View(s)
	if v == ViewAll || project.Status(s).Valid() {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// State is the transient selection that drives the visible project subset.
type State struct {
	Status View   `json:"status"`
	Owner  string `json:"owner"`
	Search string `json:"search"`
}

// DefaultState returns the initial selection: active projects of every owner.
func DefaultState() State {
	return State{Status: ViewActive, Owner: AllOwners}
}

// Command changes one part of the filter state.
type Command interface {
	apply(State) State
}

// SetStatus selects the status view.
type SetStatus struct{ Status View }

// SetOwner selects the owner, or AllOwners.
type SetOwner struct{ Owner string }

// SetSearch sets the free-text search.
type SetSearch struct{ Text string }

func (c SetStatus) apply(s State) State { s.Status = c.Status; return s }
func (c SetOwner) apply(s State) State  { s.Owner = c.Owner; return s }
func (c SetSearch) apply(s State) State { s.Search = c.Text; return s }

// Reduce returns the state after cmd. Nil commands leave the state unchanged.
func Reduce(s State, cmd Command) State {
	if cmd == nil {
		return s
	}
	return cmd.apply(s)
}
