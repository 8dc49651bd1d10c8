package dashboard

import (
	"github.com/rpggio/jobtrack/internal/domain/filter"
	"github.com/rpggio/jobtrack/internal/domain/permission"
	"github.com/rpggio/jobtrack/internal/domain/sale"
	"github.com/rpggio/jobtrack/internal/domain/stats"
)

// View is everything one user sees on the dashboard for the current filter.
// Gated parts are nil when the roles do not grant them.
type View struct {
	Filter     filter.State
	Columns    []permission.Column
	Rows       []stats.Row
	Totals     stats.Totals
	CountTitle string
	Headline   stats.Headline
	Panels     []stats.Panel
	Owners     []string
	Sales      *sale.Series
	Conversion *stats.Conversion
}

// Dashboard assembles the view for roles from a single consistent read of
// the store.
func (e *Engine) Dashboard(roles []permission.Role) View {
	snap := e.mustStore().Snapshot()
	st := e.Filter()
	all := snap.Projects
	visible := filter.Apply(all, st)
	totals := stats.Sum(visible)

	v := View{
		Filter:     st,
		Columns:    permission.VisibleColumns(roles, st.Status),
		Rows:       stats.Rows(visible),
		Totals:     totals,
		CountTitle: stats.CountTitle(st.Status),
		Headline:   stats.HeadlineFor(st.Status, totals),
	}

	if permission.CanAccess(roles, permission.ComponentOwnerFilter) {
		v.Owners = filter.Owners(all)
	}
	if !permission.CanAccess(roles, permission.ComponentStats) {
		return v
	}

	v.Panels = stats.Panels(st.Status)
	for _, p := range v.Panels {
		switch p {
		case stats.PanelSales:
			series := sale.BuildSeries(snap.Sales, st.Owner, e.now())
			v.Sales = &series
		case stats.PanelConversion:
			c := stats.ConversionRate(all, st.Owner)
			v.Conversion = &c
		}
	}
	return v
}
