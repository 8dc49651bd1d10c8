package mcp

import (
	"github.com/rpggio/jobtrack/internal/dashboard"
	"github.com/rpggio/jobtrack/internal/domain/activity"
	"github.com/rpggio/jobtrack/internal/domain/filter"
	"github.com/rpggio/jobtrack/internal/domain/permission"
	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/domain/sale"
	"github.com/rpggio/jobtrack/internal/domain/stats"
	"github.com/rpggio/jobtrack/internal/store"
)

// Amounts cross the wire as fixed two-decimal strings and dates as YYYY-MM-DD.

type ProjectView struct {
	ID             int    `json:"id"`
	ProjectAddress string `json:"project_address"`
	Client         string `json:"client"`
	ContractAmount string `json:"contract_amount"`
	Paid           string `json:"paid"`
	Outstanding    string `json:"outstanding"`
	Progress       int64  `json:"progress"`
	Status         string `json:"status"`
	DateQuoted     string `json:"date_quoted"`
	DateStarted    string `json:"date_started,omitempty"`
	DateFinished   string `json:"date_finished,omitempty"`
	OwnerID        string `json:"user_id_fk,omitempty"`
	Owner          string `json:"owner"`
}

type SaleView struct {
	SalesID        int    `json:"sales_id"`
	Date           string `json:"date"`
	ProjectIDFK    int    `json:"project_id_fk"`
	ProjectAddress string `json:"project_address"`
	ContractAmount string `json:"contract_amount"`
	Owner          string `json:"owner"`
}

type FilterView struct {
	Status string `json:"status"`
	Owner  string `json:"owner"`
	Search string `json:"search"`
}

type ColumnView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Width string `json:"width,omitempty"`
}

type TotalsView struct {
	ContractTotal    string `json:"contract_total"`
	PaidTotal        string `json:"paid_total"`
	OutstandingTotal string `json:"outstanding_total"`
	Progress         int64  `json:"progress"`
}

type HeadlineView struct {
	Title  string `json:"title"`
	Amount string `json:"amount"`
}

type PointView struct {
	Month     int      `json:"idx"`
	Name      string   `json:"month"`
	Amount    int64    `json:"amount"`
	Addresses []string `json:"project_addresses,omitempty"`
}

type TrendView struct {
	Direction string `json:"direction"`
	Percent   int64  `json:"percent"`
}

type SalesSeriesResult struct {
	Owner  string      `json:"owner"`
	Points []PointView `json:"points"`
	Trend  TrendView   `json:"trend"`
}

type ConversionResult struct {
	Owner  string `json:"owner"`
	Active int    `json:"active"`
	Total  int    `json:"total"`
	Rate   int64  `json:"rate"`
}

type CreateProjectInput struct {
	OwnerID string `json:"owner_id,omitempty" jsonschema:"owner user id, defaults to the caller"`
}

type ProjectResult struct {
	Project ProjectView `json:"project"`
}

type DeleteProjectInput struct {
	ID int `json:"id" jsonschema:"project id"`
}

type DeleteProjectResult struct {
	ID      int  `json:"id"`
	Deleted bool `json:"deleted"`
}

type EditFieldInput struct {
	ProjectID int    `json:"project_id" jsonschema:"project id"`
	Field     string `json:"field" jsonschema:"one of project_address, client, contract_amount, paid"`
	Value     string `json:"value" jsonschema:"raw value as typed; amounts accept commas or dots"`
}

type EditFieldResult struct {
	Project       ProjectView `json:"project"`
	StatusChanged bool        `json:"status_changed"`
	FromStatus    string      `json:"from_status"`
	ToStatus      string      `json:"to_status"`
	Sale          *SaleView   `json:"sale,omitempty"`
	SaleCreated   bool        `json:"sale_created"`
}

type SetStatusFilterInput struct {
	Status string `json:"status" jsonschema:"all, quoted, active, finished or archived"`
}

type SetOwnerFilterInput struct {
	Owner string `json:"owner" jsonschema:"owner name, or all"`
}

type SetSearchInput struct {
	Search string `json:"search" jsonschema:"case-insensitive text matched against address and client"`
}

type FilterResult struct {
	Filter FilterView `json:"filter"`
}

type EmptyInput struct{}

type ListProjectsResult struct {
	Filter   FilterView    `json:"filter"`
	Count    int           `json:"count"`
	Projects []ProjectView `json:"projects"`
}

type StatsResult struct {
	Filter     FilterView   `json:"filter"`
	CountTitle string       `json:"count_title"`
	Count      int          `json:"count"`
	Headline   HeadlineView `json:"headline"`
	Totals     TotalsView   `json:"totals"`
}

type ListOwnersResult struct {
	Owners []string `json:"owners"`
}

type RolesInput struct {
	Roles []string `json:"roles,omitempty" jsonschema:"role names, defaults to the caller's roles"`
}

type VisibleColumnsResult struct {
	Status  string       `json:"status"`
	Columns []ColumnView `json:"columns"`
}

type CanAccessInput struct {
	Roles     []string `json:"roles,omitempty" jsonschema:"role names, defaults to the caller's roles"`
	Component string   `json:"component" jsonschema:"ProjectsPmFilter or Stats"`
}

type CanAccessResult struct {
	Component string `json:"component"`
	Allowed   bool   `json:"allowed"`
}

type DashboardResult struct {
	Filter     FilterView         `json:"filter"`
	Columns    []ColumnView       `json:"columns"`
	Projects   []ProjectView      `json:"projects"`
	CountTitle string             `json:"count_title"`
	Headline   HeadlineView       `json:"headline"`
	Totals     TotalsView         `json:"totals"`
	Panels     []string           `json:"panels,omitempty"`
	Owners     []string           `json:"owners,omitempty"`
	Sales      *SalesSeriesResult `json:"sales,omitempty"`
	Conversion *ConversionResult  `json:"conversion,omitempty"`
}

type ListActivityInput struct {
	ProjectID *int   `json:"project_id,omitempty" jsonschema:"only entries for this project"`
	Type      string `json:"type,omitempty" jsonschema:"only entries of this type"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum entries, default 50"`
}

type ActivityView struct {
	ID        int64  `json:"id"`
	ProjectID int    `json:"project_id"`
	UserID    string `json:"user_id,omitempty"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ListActivityResult struct {
	Entries []ActivityView `json:"entries"`
}

type WhoAmIResult struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
}

func toProjectView(row stats.Row) ProjectView {
	p := row.Project
	v := ProjectView{
		ID:             p.ID,
		ProjectAddress: p.ProjectAddress,
		Client:         p.Client,
		ContractAmount: p.ContractAmount.StringFixed(2),
		Paid:           p.Paid.StringFixed(2),
		Outstanding:    row.Outstanding.StringFixed(2),
		Progress:       row.Progress,
		Status:         string(p.Status),
		DateQuoted:     p.DateQuoted.Format(project.DateLayout),
		OwnerID:        p.OwnerID,
		Owner:          p.OwnerName,
	}
	if p.DateStarted != nil {
		v.DateStarted = p.DateStarted.Format(project.DateLayout)
	}
	if p.DateFinished != nil {
		v.DateFinished = p.DateFinished.Format(project.DateLayout)
	}
	return v
}

func toProjectViews(projects []project.Project) []ProjectView {
	return toRowViews(stats.Rows(projects))
}

func toRowViews(rows []stats.Row) []ProjectView {
	out := make([]ProjectView, 0, len(rows))
	for _, r := range rows {
		out = append(out, toProjectView(r))
	}
	return out
}

func toSingleProjectView(p project.Project) ProjectView {
	return toProjectView(stats.Rows([]project.Project{p})[0])
}

func toSaleView(s *sale.Sale) *SaleView {
	if s == nil {
		return nil
	}
	return &SaleView{
		SalesID:        s.SalesID,
		Date:           s.Date.Format(project.DateLayout),
		ProjectIDFK:    s.ProjectIDFK,
		ProjectAddress: s.ProjectAddress,
		ContractAmount: s.ContractAmount.StringFixed(2),
		Owner:          s.OwnerName,
	}
}

func toEditFieldResult(ch store.Change) EditFieldResult {
	return EditFieldResult{
		Project:       toSingleProjectView(ch.Project),
		StatusChanged: ch.Transition.Changed(),
		FromStatus:    string(ch.Transition.From),
		ToStatus:      string(ch.Transition.To),
		Sale:          toSaleView(ch.Sale),
		SaleCreated:   ch.SaleCreated,
	}
}

func toFilterView(s filter.State) FilterView {
	return FilterView{Status: string(s.Status), Owner: s.Owner, Search: s.Search}
}

func toColumnViews(cols []permission.Column) []ColumnView {
	out := make([]ColumnView, 0, len(cols))
	for _, c := range cols {
		out = append(out, ColumnView{Key: string(c.Key), Label: c.Label, Width: c.Width})
	}
	return out
}

func toTotalsView(t stats.Totals) TotalsView {
	return TotalsView{
		ContractTotal:    t.Contract.StringFixed(2),
		PaidTotal:        t.Paid.StringFixed(2),
		OutstandingTotal: t.Outstanding.StringFixed(2),
		Progress:         t.Progress,
	}
}

func toHeadlineView(h stats.Headline) HeadlineView {
	return HeadlineView{Title: h.Title, Amount: h.Amount.StringFixed(2)}
}

func toSeriesResult(owner string, s sale.Series) SalesSeriesResult {
	points := make([]PointView, 0, len(s.Points))
	for _, p := range s.Points {
		points = append(points, PointView{Month: p.Month, Name: p.Name, Amount: p.Amount, Addresses: p.Addresses})
	}
	return SalesSeriesResult{
		Owner:  owner,
		Points: points,
		Trend:  TrendView{Direction: string(s.Trend.Direction), Percent: s.Trend.Percent},
	}
}

func toConversionResult(owner string, c stats.Conversion) ConversionResult {
	return ConversionResult{Owner: owner, Active: c.Active, Total: c.Total, Rate: c.Rate}
}

func toDashboardResult(v dashboard.View) DashboardResult {
	out := DashboardResult{
		Filter:     toFilterView(v.Filter),
		Columns:    toColumnViews(v.Columns),
		Projects:   toRowViews(v.Rows),
		CountTitle: v.CountTitle,
		Headline:   toHeadlineView(v.Headline),
		Totals:     toTotalsView(v.Totals),
		Owners:     v.Owners,
	}
	for _, p := range v.Panels {
		out.Panels = append(out.Panels, string(p))
	}
	if v.Sales != nil {
		s := toSeriesResult(v.Filter.Owner, *v.Sales)
		out.Sales = &s
	}
	if v.Conversion != nil {
		c := toConversionResult(v.Filter.Owner, *v.Conversion)
		out.Conversion = &c
	}
	return out
}

func toActivityViews(entries []activity.Entry) []ActivityView {
	out := make([]ActivityView, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActivityView{
			ID:        e.ID,
			ProjectID: e.ProjectID,
			UserID:    e.UserID,
			Type:      string(e.Type),
			Summary:   e.Summary,
			Details:   e.Details,
			CreatedAt: e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}
