package activity

import "time"

// Type represents the type of dashboard event.
type Type string

const (
	TypeProjectCreated   Type = "project_created"
	TypeProjectDeleted   Type = "project_deleted"
	TypeFieldEdited      Type = "field_edited"
	TypeStatusTransition Type = "status_transition"
	TypeSaleSynced       Type = "sale_synced"
)

// Entry is one event in the activity log.
type Entry struct {
	ID        int64     `json:"id"`
	ProjectID int       `json:"project_id"`
	UserID    string    `json:"user_id,omitempty"`
	Type      Type      `json:"type"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"` // JSON string
	CreatedAt time.Time `json:"created_at"`
}

// ListOptions filters activity listings.
type ListOptions struct {
	ProjectID *int
	Type      *Type
	Limit     int
	Offset    int
}
