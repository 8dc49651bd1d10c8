package filter

import (
	"sort"
	"strings"

	"github.com/rpggio/jobtrack/internal/domain/project"
)

// Apply returns the projects matching s, in their original order.
func Apply(projects []project.Project, s State) []project.Project {
	search := strings.ToLower(strings.TrimSpace(s.Search))
	out := make([]project.Project, 0, len(projects))
	for _, p := range projects {
		if MatchStatus(p, s.Status) && MatchOwner(p, s.Owner) && matchSearch(p, search) {
			out = append(out, p)
		}
	}
	return out
}

// MatchStatus reports whether p belongs to view v.
func MatchStatus(p project.Project, v View) bool {
	if v == ViewAll {
		return p.Status != project.StatusArchived
	}
	return p.Status == project.Status(v)
}

// MatchOwner reports whether p is owned by owner, or owner is AllOwners.
func MatchOwner(p project.Project, owner string) bool {
	return owner == AllOwners || p.OwnerName == owner
}

func matchSearch(p project.Project, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.ProjectAddress), search) ||
		strings.Contains(strings.ToLower(p.Client), search)
}

// Owners returns the distinct non-empty owner names, sorted.
func Owners(projects []project.Project) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, p := range projects {
		if p.OwnerName == "" {
			continue
		}
		if _, ok := seen[p.OwnerName]; ok {
			continue
		}
		seen[p.OwnerName] = struct{}{}
		names = append(names, p.OwnerName)
	}
	sort.Strings(names)
	return names
}
