// Package store holds the in-memory project and sales records shared by every
// dashboard session.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/domain/sale"
)

// ErrInvalidSnapshot is returned when seed data breaks a store invariant.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the initial data handed over by the data provider.
type Snapshot struct {
	Projects []project.Project
	Sales    []sale.Sale
}

// Change is the result of an edit computation. Update commits it atomically.
type Change struct {
	Project    project.Project
	Transition project.Transition
	// Sale, when non-nil, is written to the ledger. A zero SalesID allocates
	// a new entry for the project.
	Sale *sale.Sale
	// SaleCreated is set by the store when Sale was inserted rather than replaced.
	SaleCreated bool
}

// Option configures a Store.
type Option func(*Store)

// WithPruneSalesOnDelete removes a project's sale when the project is deleted.
func WithPruneSalesOnDelete(prune bool) Option {
	return func(s *Store) { s.pruneSales = prune }
}

// Store is the authoritative record set. It is safe for concurrent use; every
// mutation runs under a single write lock.
type Store struct {
	mu         sync.RWMutex
	projects   []project.Project
	sales      []sale.Sale
	saleByProj map[int]int // project id -> sales id
	lastSaleID int
	pruneSales bool
}

// New seeds a store from snapshot. Project ids must be unique and each
// project may have at most one sale.
func New(snapshot Snapshot, opts ...Option) (*Store, error) {
	s := &Store{saleByProj: make(map[int]int)}
	for _, opt := range opts {
		opt(s)
	}

	seen := make(map[int]bool, len(snapshot.Projects))
	for _, p := range snapshot.Projects {
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate project id %d", ErrInvalidSnapshot, p.ID)
		}
		seen[p.ID] = true
		s.projects = append(s.projects, p.Clone())
	}

	for _, sl := range snapshot.Sales {
		if _, dup := s.saleByProj[sl.ProjectIDFK]; dup {
			return nil, fmt.Errorf("%w: project %d has more than one sale", ErrInvalidSnapshot, sl.ProjectIDFK)
		}
		s.saleByProj[sl.ProjectIDFK] = sl.SalesID
		s.sales = append(s.sales, sl)
		if sl.SalesID > s.lastSaleID {
			s.lastSaleID = sl.SalesID
		}
	}
	return s, nil
}

// Projects returns a copy of every project in insertion order.
func (s *Store) Projects() []project.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]project.Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = p.Clone()
	}
	return out
}

// Sales returns a copy of the ledger.
func (s *Store) Sales() []sale.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]sale.Sale(nil), s.sales...)
}

// Snapshot copies projects and sales under one read lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Snapshot{
		Projects: make([]project.Project, len(s.projects)),
		Sales:    append([]sale.Sale(nil), s.sales...),
	}
	for i, p := range s.projects {
		out.Projects[i] = p.Clone()
	}
	return out
}

// Len returns the number of projects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

// Get returns the project with id.
func (s *Store) Get(id int) (project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return project.Project{}, notFound(id)
	}
	return s.projects[i].Clone(), nil
}

// SaleForProject returns the ledger entry linked to a project, if any.
func (s *Store) SaleForProject(projectID int) (sale.Sale, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.saleIndexFor(projectID); i >= 0 {
		return s.sales[i], true
	}
	return sale.Sale{}, false
}

// Create appends a freshly quoted project owned by owner. Its id is one more
// than the highest id in the store.
func (s *Store) Create(owner project.Owner, today time.Time) project.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := 1
	for _, p := range s.projects {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	p := project.New(next, owner, today)
	s.projects = append(s.projects, p)
	return p.Clone()
}

// Delete removes the project with id. Its sale is kept unless the store was
// built with WithPruneSalesOnDelete.
func (s *Store) Delete(id int) (pruned bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, notFound(id)
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)

	if !s.pruneSales {
		return false, nil
	}
	if j := s.saleIndexFor(id); j >= 0 {
		s.sales = append(s.sales[:j], s.sales[j+1:]...)
		delete(s.saleByProj, id)
		return true, nil
	}
	return false, nil
}

// Update runs fn against the current project and its sale, then commits the
// returned change. The whole read-compute-write happens under the write lock,
// so readers never observe a project without its synced sale.
func (s *Store) Update(id int, fn func(p project.Project, linked *sale.Sale) Change) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Change{}, notFound(id)
	}

	var linked *sale.Sale
	j := s.saleIndexFor(id)
	if j >= 0 {
		cp := s.sales[j]
		linked = &cp
	}

	ch := fn(s.projects[i].Clone(), linked)
	ch.Project.ID = id
	s.projects[i] = ch.Project.Clone()

	if ch.Sale != nil {
		entry := *ch.Sale
		entry.ProjectIDFK = id
		if j >= 0 {
			entry.SalesID = s.sales[j].SalesID
			s.sales[j] = entry
		} else {
			s.lastSaleID++
			entry.SalesID = s.lastSaleID
			s.sales = append(s.sales, entry)
			s.saleByProj[id] = entry.SalesID
			ch.SaleCreated = true
		}
		ch.Sale = &entry
	}
	return ch, nil
}

func (s *Store) indexOf(id int) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saleIndexFor(projectID int) int {
	salesID, ok := s.saleByProj[projectID]
	if !ok {
		return -1
	}
	for i, sl := range s.sales {
		if sl.SalesID == salesID {
			return i
		}
	}
	return -1
}

func notFound(id int) error {
	return fmt.Errorf("project %d: %w", id, project.ErrProjectNotFound)
}
