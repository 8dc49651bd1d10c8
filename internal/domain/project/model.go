package project

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a project.
type Status string

const (
	StatusQuoted   Status = "quoted"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
	// StatusArchived is imposed externally and never produced by Recompute.
	StatusArchived Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusQuoted, StatusActive, StatusFinished, StatusArchived:
		return true
	}
	return false
}

const (
	DefaultAddress = "New Project"
	DefaultClient  = "n/a"
)

// Project is a billable unit of work with a financial lifecycle.
type Project struct {
	ID             int             `json:"id"`
	ProjectAddress string          `json:"project_address"`
	Client         string          `json:"client"`
	ContractAmount decimal.Decimal `json:"contract_amount"`
	Paid           decimal.Decimal `json:"paid"`
	Status         Status          `json:"status"`
	DateQuoted     time.Time       `json:"date_quoted"`
	DateStarted    *time.Time      `json:"date_started,omitempty"`
	DateFinished   *time.Time      `json:"date_finished,omitempty"`
	OwnerID        string          `json:"user_id_fk"`
	OwnerName      string          `json:"owner"`
}

// Owner identifies the person responsible for a project.
type Owner struct {
	ID   string
	Name string
}

// New returns a freshly quoted project with zeroed amounts.
func New(id int, owner Owner, today time.Time) Project {
	return Project{
		ID:             id,
		ProjectAddress: DefaultAddress,
		Client:         DefaultClient,
		ContractAmount: decimal.Zero,
		Paid:           decimal.Zero,
		Status:         StatusQuoted,
		DateQuoted:     Day(today),
		OwnerID:        owner.ID,
		OwnerName:      owner.Name,
	}
}

// Clone returns a copy that shares no pointers with p.
func (p Project) Clone() Project {
	out := p
	if p.DateStarted != nil {
		d := *p.DateStarted
		out.DateStarted = &d
	}
	if p.DateFinished != nil {
		d := *p.DateFinished
		out.DateFinished = &d
	}
	return out
}

// Day truncates t to its calendar date, expressed at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
