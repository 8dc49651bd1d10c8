// Package dashboard ties the record store to one user's filter selection and
// exposes the dashboard operations: project mutations, filter changes, and the
// derived views computed from them.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rpggio/jobtrack/internal/domain/activity"
	"github.com/rpggio/jobtrack/internal/domain/filter"
	"github.com/rpggio/jobtrack/internal/domain/permission"
	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/domain/sale"
	"github.com/rpggio/jobtrack/internal/domain/stats"
	"github.com/rpggio/jobtrack/internal/store"
)

// OwnerDirectory resolves a user id to the owner stamped on new projects.
type OwnerDirectory interface {
	Owner(ctx context.Context, userID string) (project.Owner, error)
}

// Recorder receives counters for dashboard mutations.
type Recorder interface {
	ProjectCreated()
	ProjectDeleted()
	FieldEdited(field string)
	StatusChanged(from, to string)
	LedgerSynced(created bool)
}

// Auditor persists an activity trail of mutations.
type Auditor interface {
	Log(ctx context.Context, entry *activity.Entry) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the source of "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithOwners sets the directory used to name the owner of new projects.
func WithOwners(dir OwnerDirectory) Option {
	return func(e *Engine) { e.owners = dir }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithAuditor sets the activity log.
func WithAuditor(a Auditor) Option {
	return func(e *Engine) { e.auditor = a }
}

// WithActor tags activity entries with the acting user.
func WithActor(userID string) Option {
	return func(e *Engine) { e.actor = userID }
}

// WithFilter sets the initial filter state.
func WithFilter(s filter.State) Option {
	return func(e *Engine) { e.state = s }
}

// Engine is one user's view over a shared store. Filter state is local to the
// engine; records are shared and serialized by the store.
type Engine struct {
	store    *store.Store
	now      func() time.Time
	logger   *slog.Logger
	owners   OwnerDirectory
	recorder Recorder
	auditor  Auditor
	actor    string

	mu    sync.RWMutex
	state filter.State
}

// New creates an engine over s.
func New(s *store.Store, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil store", ErrNotConfigured)
	}
	e := &Engine{
		store: s,
		now:   time.Now,
		state: filter.DefaultState(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e, nil
}

func (e *Engine) mustStore() *store.Store {
	if e == nil || e.store == nil {
		panic(ErrNotConfigured)
	}
	return e.store
}

func (e *Engine) today() time.Time {
	return project.Day(e.now())
}

// CreateProject adds a quoted project owned by ownerID.
func (e *Engine) CreateProject(ctx context.Context, ownerID string) (project.Project, error) {
	s := e.mustStore()
	owner := project.Owner{ID: ownerID}
	if e.owners != nil {
		o, err := e.owners.Owner(ctx, ownerID)
		if err != nil {
			return project.Project{}, fmt.Errorf("resolving owner %q: %w", ownerID, err)
		}
		owner = o
	}

	p := s.Create(owner, e.today())
	e.logger.Info("project created", "project_id", p.ID, "owner", owner.Name)
	if e.recorder != nil {
		e.recorder.ProjectCreated()
	}
	e.audit(ctx, p.ID, activity.TypeProjectCreated, fmt.Sprintf("created project %d", p.ID), nil)
	return p, nil
}

// DeleteProject removes a project.
func (e *Engine) DeleteProject(ctx context.Context, id int) error {
	pruned, err := e.mustStore().Delete(id)
	if err != nil {
		return err
	}
	e.logger.Info("project deleted", "project_id", id, "sale_pruned", pruned)
	if e.recorder != nil {
		e.recorder.ProjectDeleted()
	}
	e.audit(ctx, id, activity.TypeProjectDeleted, fmt.Sprintf("deleted project %d", id), nil)
	return nil
}

// EditField applies a raw edit to one field and runs the status lifecycle.
// The project patch and any ledger write are committed together. Fields other
// than the editable ones fail with project.ErrUnknownField.
func (e *Engine) EditField(ctx context.Context, id int, field project.Field, raw string) (store.Change, error) {
	s := e.mustStore()
	field, err := project.ParseField(string(field))
	if err != nil {
		return store.Change{}, err
	}
	today := e.today()

	ch, err := s.Update(id, func(p project.Project, linked *sale.Sale) store.Change {
		next, tr := project.Edit(p, field, raw, today)
		ch := store.Change{Project: next, Transition: tr}
		if tr.SyncLedger {
			ch.Sale = ledgerEntry(next, linked, today)
		}
		return ch
	})
	if err != nil {
		return store.Change{}, err
	}

	tr := ch.Transition
	e.logger.Debug("field edited", "project_id", id, "field", field, "from", tr.From, "to", tr.To)
	if e.recorder != nil {
		e.recorder.FieldEdited(string(field))
		if tr.Changed() {
			e.recorder.StatusChanged(string(tr.From), string(tr.To))
		}
		if ch.Sale != nil {
			e.recorder.LedgerSynced(ch.SaleCreated)
		}
	}

	e.audit(ctx, id, activity.TypeFieldEdited, fmt.Sprintf("edited %s on project %d", field, id),
		map[string]string{"field": string(field), "raw": raw})
	if tr.Changed() {
		e.audit(ctx, id, activity.TypeStatusTransition, fmt.Sprintf("project %d moved %s -> %s", id, tr.From, tr.To),
			map[string]string{"from": string(tr.From), "to": string(tr.To)})
	}
	if ch.Sale != nil {
		e.logger.Debug("ledger synced", "project_id", id, "sales_id", ch.Sale.SalesID, "created", ch.SaleCreated)
		e.audit(ctx, id, activity.TypeSaleSynced, fmt.Sprintf("sale %d synced for project %d", ch.Sale.SalesID, id),
			map[string]any{"sales_id": ch.Sale.SalesID, "created": ch.SaleCreated})
	}
	return ch, nil
}

// ledgerEntry re-dates an existing sale or snapshots the project into a new one.
func ledgerEntry(p project.Project, linked *sale.Sale, today time.Time) *sale.Sale {
	date := today
	if p.DateStarted != nil {
		date = *p.DateStarted
	}
	if linked != nil {
		next := *linked
		next.Date = date
		return &next
	}
	return &sale.Sale{
		Date:           date,
		ProjectIDFK:    p.ID,
		ProjectAddress: p.ProjectAddress,
		ContractAmount: p.ContractAmount,
		OwnerName:      p.OwnerName,
	}
}

func (e *Engine) audit(ctx context.Context, projectID int, typ activity.Type, summary string, details any) {
	if e.auditor == nil {
		return
	}
	entry := &activity.Entry{
		ProjectID: projectID,
		UserID:    e.actor,
		Type:      typ,
		Summary:   summary,
	}
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = string(b)
		}
	}
	if err := e.auditor.Log(ctx, entry); err != nil {
		e.logger.Warn("activity log failed", "type", typ, "project_id", projectID, "error", err)
	}
}

// SetStatusFilter selects the status view.
func (e *Engine) SetStatusFilter(v filter.View) { e.reduce(filter.SetStatus{Status: v}) }

// SetOwnerFilter selects the owner, or filter.AllOwners.
func (e *Engine) SetOwnerFilter(owner string) { e.reduce(filter.SetOwner{Owner: owner}) }

// SetSearch sets the free-text search.
func (e *Engine) SetSearch(text string) { e.reduce(filter.SetSearch{Text: text}) }

func (e *Engine) reduce(cmd filter.Command) {
	e.mustStore()
	e.mu.Lock()
	e.state = filter.Reduce(e.state, cmd)
	e.mu.Unlock()
}

// Filter returns the current filter state.
func (e *Engine) Filter() filter.State {
	e.mustStore()
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// FilteredProjects returns the projects matching the filter state, in store order.
func (e *Engine) FilteredProjects() []project.Project {
	return filter.Apply(e.mustStore().Projects(), e.Filter())
}

// Stats totals the filtered projects.
func (e *Engine) Stats() stats.Totals {
	return stats.Sum(e.FilteredProjects())
}

// SalesSeries builds the six-month series for the selected owner.
func (e *Engine) SalesSeries() sale.Series {
	s := e.mustStore()
	return sale.BuildSeries(s.Sales(), e.Filter().Owner, e.now())
}

// Conversion reports the active share of the selected owner's projects,
// regardless of status view and search.
func (e *Engine) Conversion() stats.Conversion {
	s := e.mustStore()
	return stats.ConversionRate(s.Projects(), e.Filter().Owner)
}

// Owners lists the owner names available to the owner filter.
func (e *Engine) Owners() []string {
	return filter.Owners(e.mustStore().Projects())
}

// VisibleColumns returns the table columns for roles under the current status view.
func (e *Engine) VisibleColumns(roles []permission.Role) []permission.Column {
	return permission.VisibleColumns(roles, e.Filter().Status)
}

// CanAccess reports whether roles may use component.
func (e *Engine) CanAccess(roles []permission.Role, component permission.Component) bool {
	e.mustStore()
	return permission.CanAccess(roles, component)
}
