package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/jobtrack/internal/dashboard"
	"github.com/rpggio/jobtrack/internal/domain/activity"
	"github.com/rpggio/jobtrack/internal/domain/filter"
	"github.com/rpggio/jobtrack/internal/domain/permission"
	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/rpggio/jobtrack/internal/metrics"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolHandlers struct {
	engines  *engineRegistry
	activity ActivityService
}

// addTool registers a typed tool, mapping domain errors and timing calls.
func addTool[In, Out any](server *sdkmcp.Server, m *metrics.Metrics, tool *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	sdkmcp.AddTool(server, tool, func(ctx context.Context, req *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		start := time.Now()
		res, out, err := h(ctx, req, in)
		status := "ok"
		if err != nil {
			apiErr := MapError(err)
			status = apiErr.Code
			err = apiErr
		}
		if m != nil {
			m.RecordToolCall(tool.Name, status, time.Since(start))
		}
		return res, out, err
	})
}

func registerTools(server *sdkmcp.Server, h *toolHandlers, m *metrics.Metrics) {
	// Projects
	addTool(server, m, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a quoted project with default address and client, owned by the given user or the caller",
	}, h.createProject)
	addTool(server, m, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project by id; its sales ledger entry is kept unless pruning is configured",
	}, h.deleteProject)
	addTool(server, m, &sdkmcp.Tool{
		Name:        "edit_field",
		Description: "Edit one project field from raw input; status, dates and the sales ledger follow the new amounts",
	}, h.editField)

	// Filter state (per session)
	addTool(server, m, &sdkmcp.Tool{
		Name:        "set_status_filter",
		Description: "Select the status view: all (excludes archived), quoted, active, finished or archived",
	}, h.setStatusFilter)
	addTool(server, m, &sdkmcp.Tool{
		Name:        "set_owner_filter",
		Description: "Select the owner whose projects are listed, or all. Requires the ProjectsPmFilter component",
	}, h.setOwnerFilter)
	addTool(server, m, &sdkmcp.Tool{
		Name:        "set_search",
		Description: "Set the free-text search over project address and client",
	}, h.setSearch)

	// Queries
	addTool(server, m, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the projects matching the session's filter, with outstanding and progress per row",
	}, h.listProjects)
	addTool(server, m, &sdkmcp.Tool{
		Name:        "get_stats",
		Description: "Totals over the filtered projects. Requires the Stats component",
	}, h.getStats)
	addTool(server, m, &sdkmcp.Tool{
		Name:        "get_sales_series",
		Description: "Six-month sales series in thousands with trend, for the selected owner. Requires the Stats component",
	}, h.getSalesSeries)
	addTool(server, m, &sdkmcp.Tool{
		Name:        "get_conversion_rate",
		Description: "Share of the selected owner's projects that are active, over all statuses. Requires the Stats component",
	}, h.getConversionRate)
	addTool(server, m, &sdkmcp.Tool{
		Name:        "list_owners",
		Description: "Owner names available to the owner filter",
	}, h.listOwners)
	addTool(server, m, &sdkmcp.Tool{
		Name:        "get_dashboard",
		Description: "Everything the caller sees for the current filter: columns, rows, totals and permitted stats panels",
	}, h.getDashboard)

	// Permissions
	addTool(server, m, &sdkmcp.Tool{
		Name:        "get_visible_columns",
		Description: "Table columns visible to a role set under the session's status view",
	}, h.getVisibleColumns)
	addTool(server, m, &sdkmcp.Tool{
		Name:        "can_access",
		Description: "Whether a role set may use a dashboard component",
	}, h.canAccess)
	addTool(server, m, &sdkmcp.Tool{
		Name:        "whoami",
		Description: "The caller's user id, name and roles",
	}, h.whoAmI)

	// Activity
	if h.activity != nil {
		addTool(server, m, &sdkmcp.Tool{
			Name:        "list_activity",
			Description: "Recent project mutations, newest first",
		}, h.listActivity)
	}
}

func (h *toolHandlers) session(ctx context.Context, req *sdkmcp.CallToolRequest) (*dashboard.Engine, Identity, error) {
	id, ok := getIdentity(ctx)
	if !ok {
		return nil, Identity{}, ErrNoIdentity
	}
	var session *sdkmcp.ServerSession
	if req != nil {
		session = req.Session
	}
	e, err := h.engines.get(session, id)
	if err != nil {
		return nil, Identity{}, err
	}
	return e, id, nil
}

func requireAccess(e *dashboard.Engine, id Identity, c permission.Component) error {
	if !e.CanAccess(id.Roles, c) {
		return fmt.Errorf("%w: %s requires %s", ErrForbidden, id.UserID, c)
	}
	return nil
}

func rolesOrCaller(names []string, id Identity) []permission.Role {
	if len(names) == 0 {
		return id.Roles
	}
	return permission.ParseRoles(names)
}

func (h *toolHandlers) createProject(ctx context.Context, req *sdkmcp.CallToolRequest, in CreateProjectInput) (*sdkmcp.CallToolResult, ProjectResult, error) {
	e, id, err := h.session(ctx, req)
	if err != nil {
		return nil, ProjectResult{}, err
	}
	owner := in.OwnerID
	if owner == "" {
		owner = id.UserID
	}
	p, err := e.CreateProject(ctx, owner)
	if err != nil {
		return nil, ProjectResult{}, err
	}
	return nil, ProjectResult{Project: toSingleProjectView(p)}, nil
}

func (h *toolHandlers) deleteProject(ctx context.Context, req *sdkmcp.CallToolRequest, in DeleteProjectInput) (*sdkmcp.CallToolResult, DeleteProjectResult, error) {
	e, _, err := h.session(ctx, req)
	if err != nil {
		return nil, DeleteProjectResult{}, err
	}
	if err := e.DeleteProject(ctx, in.ID); err != nil {
		return nil, DeleteProjectResult{}, err
	}
	return nil, DeleteProjectResult{ID: in.ID, Deleted: true}, nil
}

func (h *toolHandlers) editField(ctx context.Context, req *sdkmcp.CallToolRequest, in EditFieldInput) (*sdkmcp.CallToolResult, EditFieldResult, error) {
	e, _, err := h.session(ctx, req)
	if err != nil {
		return nil, EditFieldResult{}, err
	}
	field, err := project.ParseField(in.Field)
	if err != nil {
		return nil, EditFieldResult{}, err
	}
	ch, err := e.EditField(ctx, in.ProjectID, field, in.Value)
	if err != nil {
		return nil, EditFieldResult{}, err
	}
	return nil, toEditFieldResult(ch), nil
}

func (h *toolHandlers) setStatusFilter(ctx context.Context, req *sdkmcp.CallToolRequest, in SetStatusFilterInput) (*sdkmcp.CallToolResult, FilterResult, error) {
	e, _, err := h.session(ctx, req)
	if err != nil {
		return nil, FilterResult{}, err
	}
	v, err := filter.ParseView(in.Status)
	if err != nil {
		return nil, FilterResult{}, err
	}
	e.SetStatusFilter(v)
	return nil, FilterResult{Filter: toFilterView(e.Filter())}, nil
}

func (h *toolHandlers) setOwnerFilter(ctx context.Context, req *sdkmcp.CallToolRequest, in SetOwnerFilterInput) (*sdkmcp.CallToolResult, FilterResult, error) {
	e, id, err := h.session(ctx, req)
	if err != nil {
		return nil, FilterResult{}, err
	}
	if err := requireAccess(e, id, permission.ComponentOwnerFilter); err != nil {
		return nil, FilterResult{}, err
	}
	owner := in.Owner
	if owner == "" {
		owner = filter.AllOwners
	}
	e.SetOwnerFilter(owner)
	return nil, FilterResult{Filter: toFilterView(e.Filter())}, nil
}

func (h *toolHandlers) setSearch(ctx context.Context, req *sdkmcp.CallToolRequest, in SetSearchInput) (*sdkmcp.CallToolResult, FilterResult, error) {
	e, _, err := h.session(ctx, req)
	if err != nil {
		return nil, FilterResult{}, err
	}
	e.SetSearch(in.Search)
	return nil, FilterResult{Filter: toFilterView(e.Filter())}, nil
}

func (h *toolHandlers) listProjects(ctx context.Context, req *sdkmcp.CallToolRequest, _ EmptyInput) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
	e, _, err := h.session(ctx, req)
	if err != nil {
		return nil, ListProjectsResult{}, err
	}
	projects := e.FilteredProjects()
	return nil, ListProjectsResult{
		Filter:   toFilterView(e.Filter()),
		Count:    len(projects),
		Projects: toProjectViews(projects),
	}, nil
}

func (h *toolHandlers) getStats(ctx context.Context, req *sdkmcp.CallToolRequest, _ EmptyInput) (*sdkmcp.CallToolResult, StatsResult, error) {
	e, id, err := h.session(ctx, req)
	if err != nil {
		return nil, StatsResult{}, err
	}
	if err := requireAccess(e, id, permission.ComponentStats); err != nil {
		return nil, StatsResult{}, err
	}
	v := e.Dashboard(id.Roles)
	return nil, StatsResult{
		Filter:     toFilterView(v.Filter),
		CountTitle: v.CountTitle,
		Count:      len(v.Rows),
		Headline:   toHeadlineView(v.Headline),
		Totals:     toTotalsView(v.Totals),
	}, nil
}

func (h *toolHandlers) getSalesSeries(ctx context.Context, req *sdkmcp.CallToolRequest, _ EmptyInput) (*sdkmcp.CallToolResult, SalesSeriesResult, error) {
	e, id, err := h.session(ctx, req)
	if err != nil {
		return nil, SalesSeriesResult{}, err
	}
	if err := requireAccess(e, id, permission.ComponentStats); err != nil {
		return nil, SalesSeriesResult{}, err
	}
	return nil, toSeriesResult(e.Filter().Owner, e.SalesSeries()), nil
}

func (h *toolHandlers) getConversionRate(ctx context.Context, req *sdkmcp.CallToolRequest, _ EmptyInput) (*sdkmcp.CallToolResult, ConversionResult, error) {
	e, id, err := h.session(ctx, req)
	if err != nil {
		return nil, ConversionResult{}, err
	}
	if err := requireAccess(e, id, permission.ComponentStats); err != nil {
		return nil, ConversionResult{}, err
	}
	return nil, toConversionResult(e.Filter().Owner, e.Conversion()), nil
}

func (h *toolHandlers) listOwners(ctx context.Context, req *sdkmcp.CallToolRequest, _ EmptyInput) (*sdkmcp.CallToolResult, ListOwnersResult, error) {
	e, _, err := h.session(ctx, req)
	if err != nil {
		return nil, ListOwnersResult{}, err
	}
	owners := e.Owners()
	if owners == nil {
		owners = []string{}
	}
	return nil, ListOwnersResult{Owners: owners}, nil
}

func (h *toolHandlers) getDashboard(ctx context.Context, req *sdkmcp.CallToolRequest, _ EmptyInput) (*sdkmcp.CallToolResult, DashboardResult, error) {
	e, id, err := h.session(ctx, req)
	if err != nil {
		return nil, DashboardResult{}, err
	}
	return nil, toDashboardResult(e.Dashboard(id.Roles)), nil
}

func (h *toolHandlers) getVisibleColumns(ctx context.Context, req *sdkmcp.CallToolRequest, in RolesInput) (*sdkmcp.CallToolResult, VisibleColumnsResult, error) {
	e, id, err := h.session(ctx, req)
	if err != nil {
		return nil, VisibleColumnsResult{}, err
	}
	return nil, VisibleColumnsResult{
		Status:  string(e.Filter().Status),
		Columns: toColumnViews(e.VisibleColumns(rolesOrCaller(in.Roles, id))),
	}, nil
}

func (h *toolHandlers) canAccess(ctx context.Context, req *sdkmcp.CallToolRequest, in CanAccessInput) (*sdkmcp.CallToolResult, CanAccessResult, error) {
	e, id, err := h.session(ctx, req)
	if err != nil {
		return nil, CanAccessResult{}, err
	}
	c, ok := permission.ParseComponent(in.Component)
	if !ok {
		return nil, CanAccessResult{}, fmt.Errorf("%w: unknown component %q", ErrInvalidArgument, in.Component)
	}
	return nil, CanAccessResult{
		Component: string(c),
		Allowed:   e.CanAccess(rolesOrCaller(in.Roles, id), c),
	}, nil
}

func (h *toolHandlers) whoAmI(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyInput) (*sdkmcp.CallToolResult, WhoAmIResult, error) {
	id, ok := getIdentity(ctx)
	if !ok {
		return nil, WhoAmIResult{}, ErrNoIdentity
	}
	roles := make([]string, 0, len(id.Roles))
	for _, r := range id.Roles {
		roles = append(roles, string(r))
	}
	return nil, WhoAmIResult{UserID: id.UserID, Name: id.Name, Roles: roles}, nil
}

func (h *toolHandlers) listActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListActivityInput) (*sdkmcp.CallToolResult, ListActivityResult, error) {
	opts := activity.ListOptions{ProjectID: in.ProjectID, Limit: in.Limit}
	if in.Type != "" {
		t := activity.Type(in.Type)
		opts.Type = &t
	}
	entries, err := h.activity.Recent(ctx, opts)
	if err != nil {
		return nil, ListActivityResult{}, err
	}
	return nil, ListActivityResult{Entries: toActivityViews(entries)}, nil
}
