package user

import "github.com/rpggio/jobtrack/internal/domain/permission"

// Profile is a dashboard user.
type Profile struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Email string            `json:"email,omitempty"`
	Roles []permission.Role `json:"roles"`
}
