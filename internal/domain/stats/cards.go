package stats

import (
	"strings"

	"github.com/rpggio/jobtrack/internal/domain/filter"
	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/shopspring/decimal"
)

// Row is a table row with its derived figures.
type Row struct {
	Project     project.Project
	Outstanding decimal.Decimal
	Progress    int64
}

// Rows attaches outstanding and progress to each project.
func Rows(projects []project.Project) []Row {
	rows := make([]Row, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, Row{
			Project:     p,
			Outstanding: Outstanding(p.ContractAmount, p.Paid),
			Progress:    Progress(p.ContractAmount, p.Paid),
		})
	}
	return rows
}

// Headline is the amount card for a status view.
type Headline struct {
	Title  string
	Amount decimal.Decimal
}

// HeadlineFor shows the contract total for all, quoted and finished views and
// the outstanding balance otherwise.
func HeadlineFor(v filter.View, t Totals) Headline {
	switch v {
	case filter.ViewAll, filter.ViewQuoted, filter.ViewFinished:
		return Headline{Title: "Total Amount", Amount: t.Contract}
	default:
		return Headline{Title: "Outstanding Amount", Amount: t.Outstanding}
	}
}

// CountTitle labels the project count card, e.g. "Active Projects".
func CountTitle(v filter.View) string {
	if v == filter.ViewAll || v == "" {
		return "All Projects"
	}
	s := string(v)
	return strings.ToUpper(s[:1]) + s[1:] + " Projects"
}

// Panel names an optional stats card.
type Panel string

const (
	PanelCount      Panel = "count"
	PanelAmount     Panel = "amount"
	PanelConversion Panel = "conversion"
	PanelSales      Panel = "sales"
	PanelProgress   Panel = "progress"
)

// Panels lists the cards shown for a status view.
func Panels(v filter.View) []Panel {
	panels := []Panel{PanelCount, PanelAmount}
	switch v {
	case filter.ViewQuoted:
		panels = append(panels, PanelConversion)
	case filter.ViewActive:
		panels = append(panels, PanelSales, PanelProgress)
	}
	return panels
}
