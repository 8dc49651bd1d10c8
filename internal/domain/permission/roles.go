// Package permission decides which table columns and dashboard components a
// user may see, from static per-role grants.
package permission

import "strings"

// Role is a user role known to the dashboard.
type Role string

const (
	RoleAdmin Role = "admin"
	RolePM    Role = "pm"
)

// ParseRole maps an identity role string to a Role. Unknown roles report false.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RolePM:
		return r, true
	}
	return "", false
}

// ParseRoles keeps the recognized roles from a role set, dropping the rest.
func ParseRoles(names []string) []Role {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		if r, ok := ParseRole(n); ok {
			roles = append(roles, r)
		}
	}
	return roles
}

// Component is a gated dashboard feature.
type Component string

const (
	ComponentOwnerFilter Component = "ProjectsPmFilter"
	ComponentStats       Component = "Stats"
)

// ParseComponent maps a component name to a Component.
func ParseComponent(s string) (Component, bool) {
	switch c := Component(strings.TrimSpace(s)); c {
	case ComponentOwnerFilter, ComponentStats:
		return c, true
	}
	return "", false
}

var componentGrants = map[Role][]Component{
	RoleAdmin: {ComponentOwnerFilter, ComponentStats},
	RolePM:    {},
}

// CanAccess reports whether any of roles grants component.
func CanAccess(roles []Role, component Component) bool {
	for _, r := range roles {
		for _, c := range componentGrants[r] {
			if c == component {
				return true
			}
		}
	}
	return false
}
