package mcp_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rpggio/jobtrack/internal/mcp"
	"github.com/rpggio/jobtrack/internal/testserver"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

const (
	admin = "Avery Admin"
	dana  = "Dana Reyes"
)

func TestToolsAndResourcesListed(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t, admin)
	ctx := context.Background()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{
		"create_project", "delete_project", "edit_field",
		"set_status_filter", "set_owner_filter", "set_search",
		"list_projects", "get_stats", "get_sales_series", "get_conversion_rate",
		"list_owners", "get_visible_columns", "can_access", "get_dashboard",
		"list_activity", "whoami",
	} {
		require.Contains(t, names, want)
	}

	resources, err := session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.NotEmpty(t, resources.Resources)

	read, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "jobtrack://docs/lifecycle"})
	require.NoError(t, err)
	require.Len(t, read.Contents, 1)
	require.Contains(t, read.Contents[0].Text, "Sales ledger")
}

func TestSeededDashboard(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t, admin)

	list := testserver.Call[mcp.ListProjectsResult](t, session, "list_projects", nil)
	require.Equal(t, "active", list.Filter.Status)
	require.Equal(t, 3, list.Count)

	stats := testserver.Call[mcp.StatsResult](t, session, "get_stats", nil)
	require.Equal(t, "40350.00", stats.Totals.ContractTotal)
	require.Equal(t, "12700.00", stats.Totals.PaidTotal)
	require.Equal(t, "27650.00", stats.Totals.OutstandingTotal)
	require.EqualValues(t, 31, stats.Totals.Progress)
	require.Equal(t, "Outstanding Amount", stats.Headline.Title)
	require.Equal(t, "27650.00", stats.Headline.Amount)

	series := testserver.Call[mcp.SalesSeriesResult](t, session, "get_sales_series", nil)
	require.Len(t, series.Points, 6)
	amounts := make([]int64, 0, 6)
	months := make([]int, 0, 6)
	for _, p := range series.Points {
		amounts = append(amounts, p.Amount)
		months = append(months, p.Month)
	}
	require.Equal(t, []int{12, 1, 2, 3, 4, 5}, months)
	require.Equal(t, []int64{0, 3, 10, 5, 23, 8}, amounts)
	require.Equal(t, "down", series.Trend.Direction)
	require.EqualValues(t, 65, series.Trend.Percent)

	conv := testserver.Call[mcp.ConversionResult](t, session, "get_conversion_rate", nil)
	require.Equal(t, 3, conv.Active)
	require.Equal(t, 8, conv.Total)
	require.EqualValues(t, 38, conv.Rate)

	owners := testserver.Call[mcp.ListOwnersResult](t, session, "list_owners", nil)
	require.Equal(t, []string{"Avery Admin", "Dana Reyes", "Lee Park"}, owners.Owners)
}

func TestCreateEditLifecycle(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t, admin)

	created := testserver.Call[mcp.ProjectResult](t, session, "create_project", nil)
	require.Equal(t, 9, created.Project.ID)
	require.Equal(t, "quoted", created.Project.Status)
	require.Equal(t, "New Project", created.Project.ProjectAddress)
	require.Equal(t, "n/a", created.Project.Client)
	require.Equal(t, admin, created.Project.Owner)
	require.Equal(t, "2024-06-20", created.Project.DateQuoted)

	edit := testserver.Call[mcp.EditFieldResult](t, session, "edit_field", map[string]any{
		"project_id": 9, "field": "contract_amount", "value": "12.500,00",
	})
	require.Equal(t, "12500.00", edit.Project.ContractAmount)
	require.Equal(t, "quoted", edit.ToStatus)
	require.False(t, edit.StatusChanged)
	require.Nil(t, edit.Sale)

	edit = testserver.Call[mcp.EditFieldResult](t, session, "edit_field", map[string]any{
		"project_id": 9, "field": "paid", "value": "2500",
	})
	require.True(t, edit.StatusChanged)
	require.Equal(t, "quoted", edit.FromStatus)
	require.Equal(t, "active", edit.ToStatus)
	require.Equal(t, "2024-06-20", edit.Project.DateStarted)
	require.Equal(t, "10000.00", edit.Project.Outstanding)
	require.EqualValues(t, 20, edit.Project.Progress)
	require.NotNil(t, edit.Sale)
	require.True(t, edit.SaleCreated)
	require.Equal(t, 7, edit.Sale.SalesID)
	require.Equal(t, "12500.00", edit.Sale.ContractAmount)
	require.Equal(t, admin, edit.Sale.Owner)

	series := testserver.Call[mcp.SalesSeriesResult](t, session, "get_sales_series", nil)
	require.Len(t, series.Points, 6)
	last := series.Points[5]
	require.Equal(t, 6, last.Month)
	require.EqualValues(t, 13, last.Amount)
	require.Equal(t, "up", series.Trend.Direction)
	require.EqualValues(t, 38, series.Trend.Percent)

	edit = testserver.Call[mcp.EditFieldResult](t, session, "edit_field", map[string]any{
		"project_id": 9, "field": "paid", "value": "99999",
	})
	require.Equal(t, "finished", edit.ToStatus)
	require.Equal(t, "12500.00", edit.Project.Paid)
	require.Equal(t, "2024-06-20", edit.Project.DateFinished)
	require.Nil(t, edit.Sale)

	activity := testserver.Call[mcp.ListActivityResult](t, session, "list_activity", map[string]any{"project_id": 9})
	require.NotEmpty(t, activity.Entries)
	require.Equal(t, 9, activity.Entries[0].ProjectID)

	require.Equal(t, 1.0, testutil.ToFloat64(ts.Metrics.ProjectsCreated))
	require.Equal(t, 1.0, testutil.ToFloat64(ts.Metrics.LedgerSyncs.WithLabelValues("created")))

	deleted := testserver.Call[mcp.DeleteProjectResult](t, session, "delete_project", map[string]any{"id": 9})
	require.True(t, deleted.Deleted)
	require.Len(t, ts.Store.Sales(), 7)
}

func TestFiltersArePerSession(t *testing.T) {
	ts := testserver.New(t)
	first := ts.Connect(t, admin)
	second := ts.Connect(t, admin)

	f := testserver.Call[mcp.FilterResult](t, first, "set_status_filter", map[string]any{"status": "all"})
	require.Equal(t, "all", f.Filter.Status)
	f = testserver.Call[mcp.FilterResult](t, first, "set_owner_filter", map[string]any{"owner": "Lee Park"})
	require.Equal(t, "Lee Park", f.Filter.Owner)
	f = testserver.Call[mcp.FilterResult](t, first, "set_search", map[string]any{"search": "  CEDAR "})
	require.Equal(t, "  CEDAR ", f.Filter.Search)

	list := testserver.Call[mcp.ListProjectsResult](t, first, "list_projects", nil)
	require.Equal(t, 1, list.Count)
	require.Equal(t, "42 Cedar Ln", list.Projects[0].ProjectAddress)

	other := testserver.Call[mcp.ListProjectsResult](t, second, "list_projects", nil)
	require.Equal(t, "active", other.Filter.Status)
	require.Equal(t, "all", other.Filter.Owner)
	require.Equal(t, 3, other.Count)

	// Records are shared.
	testserver.Call[mcp.ProjectResult](t, first, "create_project", nil)
	testserver.Call[mcp.FilterResult](t, second, "set_status_filter", map[string]any{"status": "quoted"})
	quoted := testserver.Call[mcp.ListProjectsResult](t, second, "list_projects", nil)
	require.Equal(t, 3, quoted.Count)
}

func TestRoleGating(t *testing.T) {
	ts := testserver.New(t)
	pm := ts.Connect(t, dana)

	who := testserver.Call[mcp.WhoAmIResult](t, pm, "whoami", nil)
	require.Equal(t, dana, who.Name)
	require.Equal(t, []string{"pm"}, who.Roles)

	require.Contains(t, testserver.CallError(t, pm, "get_stats", nil), "FORBIDDEN")
	require.Contains(t, testserver.CallError(t, pm, "get_sales_series", nil), "FORBIDDEN")
	require.Contains(t, testserver.CallError(t, pm, "get_conversion_rate", nil), "FORBIDDEN")
	require.Contains(t, testserver.CallError(t, pm, "set_owner_filter", map[string]any{"owner": "Lee Park"}), "FORBIDDEN")

	access := testserver.Call[mcp.CanAccessResult](t, pm, "can_access", map[string]any{"component": "Stats"})
	require.False(t, access.Allowed)
	access = testserver.Call[mcp.CanAccessResult](t, pm, "can_access", map[string]any{"component": "Stats", "roles": []string{"admin"}})
	require.True(t, access.Allowed)

	cols := testserver.Call[mcp.VisibleColumnsResult](t, pm, "get_visible_columns", nil)
	require.Equal(t, "active", cols.Status)
	for _, c := range cols.Columns {
		require.NotEqual(t, "pm", c.Key)
		require.NotEqual(t, "id", c.Key)
	}
	cols = testserver.Call[mcp.VisibleColumnsResult](t, pm, "get_visible_columns", map[string]any{"roles": []string{"admin"}})
	require.Equal(t, "pm", cols.Columns[len(cols.Columns)-2].Key)

	dash := testserver.Call[mcp.DashboardResult](t, pm, "get_dashboard", nil)
	require.Nil(t, dash.Sales)
	require.Nil(t, dash.Conversion)
	require.Empty(t, dash.Owners)
	require.Empty(t, dash.Panels)
	require.Len(t, dash.Projects, 3)

	full := testserver.Call[mcp.DashboardResult](t, ts.Connect(t, admin), "get_dashboard", nil)
	require.NotNil(t, full.Sales)
	require.NotEmpty(t, full.Owners)
}

func TestToolErrors(t *testing.T) {
	ts := testserver.New(t)
	session := ts.Connect(t, admin)

	require.Contains(t, testserver.CallError(t, session, "edit_field", map[string]any{
		"project_id": 404, "field": "paid", "value": "1",
	}), "PROJECT_NOT_FOUND")
	require.Contains(t, testserver.CallError(t, session, "edit_field", map[string]any{
		"project_id": 1, "field": "status", "value": "finished",
	}), "UNKNOWN_FIELD")
	require.Contains(t, testserver.CallError(t, session, "set_status_filter", map[string]any{"status": "paused"}), "UNKNOWN_STATUS")
	require.Contains(t, testserver.CallError(t, session, "delete_project", map[string]any{"id": 404}), "PROJECT_NOT_FOUND")
	require.Contains(t, testserver.CallError(t, session, "can_access", map[string]any{"component": "Billing"}), "INVALID_ARGUMENT")
	require.Contains(t, testserver.CallError(t, session, "create_project", map[string]any{"owner_id": "nobody"}), "USER_NOT_FOUND")

	require.Equal(t, 6, testutil.CollectAndCount(ts.Metrics.ToolCallDuration, "jobtrack_tool_call_duration_seconds"))
}

func TestHTTPBearerAuth(t *testing.T) {
	ts := testserver.New(t)
	srv := ts.ServeHTTP(t)

	session := testserver.ConnectHTTP(t, srv.URL, ts.Token(t, dana))
	who := testserver.Call[mcp.WhoAmIResult](t, session, "whoami", nil)
	require.Equal(t, dana, who.Name)
	require.Equal(t, ts.User(t, dana).ID, who.UserID)

	testserver.Call[mcp.ProjectResult](t, session, "create_project", nil)
	p, err := ts.Store.Get(9)
	require.NoError(t, err)
	require.Equal(t, dana, p.OwnerName)

	bad := testserver.ConnectHTTP(t, srv.URL, "not-a-token")
	_, err = bad.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "whoami", Arguments: map[string]any{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unauthorized")
}
