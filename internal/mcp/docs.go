package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `jobtrack tracks a services business's projects: contract value, payments, status, and the sales they produce.

Core concepts:
- Project: address, client, contract_amount, paid, status, dates, owner (PM).
- Status follows the amounts: quoted (nothing paid), active (partly paid), finished (paid in full). Archived projects never move.
- Sales ledger: a project that becomes active gets exactly one sale entry, dated at its start.
- Filter: each MCP session has its own status view, owner and search text. Projects are shared.

Default workflow:
1) get_dashboard for the current view (rows, totals and the panels your roles allow).
2) set_status_filter / set_owner_filter / set_search to narrow it; list_projects to page through rows.
3) create_project, then edit_field for address, client, contract_amount, paid.
   edit_field reports status transitions and any sale written.
4) get_stats, get_sales_series, get_conversion_rate for analytics (Stats component, admin only).

Docs:
- jobtrack://docs/index
- jobtrack://docs/lifecycle
- jobtrack://docs/analytics
- jobtrack://docs/permissions
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "jobtrack://docs/index",
		Name:        "docs_index",
		Title:       "jobtrack docs index",
		Description: "Entry point: tools by task and what to read next.",
		Content: `# jobtrack: Docs Index

## Tools by task

- Look around: ` + "`get_dashboard`" + `, ` + "`list_projects`" + `, ` + "`list_owners`" + `, ` + "`whoami`" + `.
- Narrow the view: ` + "`set_status_filter`" + `, ` + "`set_owner_filter`" + `, ` + "`set_search`" + `.
- Change records: ` + "`create_project`" + `, ` + "`edit_field`" + `, ` + "`delete_project`" + `.
- Analytics: ` + "`get_stats`" + `, ` + "`get_sales_series`" + `, ` + "`get_conversion_rate`" + `.
- Permissions: ` + "`get_visible_columns`" + `, ` + "`can_access`" + `.
- History: ` + "`list_activity`" + `.

## Docs

- ` + "`jobtrack://docs/lifecycle`" + ` status rules and the sales ledger.
- ` + "`jobtrack://docs/analytics`" + ` totals, sales series, trend and conversion.
- ` + "`jobtrack://docs/permissions`" + ` roles, components and columns.

## Conventions

Amounts are strings with two decimals. Dates are YYYY-MM-DD. Filter state lives with your MCP session and is reset when the session expires.
`,
	},
	{
		URI:         "jobtrack://docs/lifecycle",
		Name:        "docs_lifecycle",
		Title:       "Project lifecycle",
		Description: "How edits move a project between quoted, active and finished, and when sales are written.",
		Content: `# Project lifecycle

## Editing

` + "`edit_field`" + ` accepts raw text. Amounts tolerate commas and stray characters: "1.234,5" becomes 1234.50. Empty or unreadable amounts become 0. An empty client becomes "n/a"; an empty address becomes "New Project".

## Status after an edit

Evaluated on the amounts after the edit:

| condition | status | dates |
|---|---|---|
| paid = 0 | quoted | started and finished cleared |
| paid >= contract, contract > 0 | finished | finished = today, started kept or set; paid clamped to contract |
| otherwise | active | started kept or set, finished cleared |

A contract of 0 with paid > 0 lands in quoted. Archived projects keep their status; the field still changes.

## Sales ledger

Only the active branch touches the ledger. If the project already has a sale, its date moves to the start date. Otherwise a sale is written with the project's address, contract amount and owner at that moment.

Deleting a project keeps its sale unless the server prunes sales on delete.
`,
	},
	{
		URI:         "jobtrack://docs/analytics",
		Name:        "docs_analytics",
		Title:       "Analytics",
		Description: "Totals, headline, six-month sales series, trend and conversion rate.",
		Content: `# Analytics

## Totals (filtered rows)

contract_total, paid_total, outstanding_total = contract - paid, progress = round(paid / contract * 100), 0 when contract is 0.

The headline shows the contract total for all, quoted and finished views and the outstanding total otherwise.

## Sales series

Sales dated after six months ago, grouped by month, for the selected owner. Amounts are thousands, rounded. Always six points, oldest first; missing months are padded with 0.

Trend compares the last two points: up with round((newer - older) / newer * 100) when the newest is higher, otherwise down with round((older - newer) / older * 100).

## Conversion rate

Active projects over all projects of the selected owner, across every status, as a rounded percentage.
`,
	},
	{
		URI:         "jobtrack://docs/permissions",
		Name:        "docs_permissions",
		Title:       "Permissions",
		Description: "Roles, gated components and visible columns per status view.",
		Content: `# Permissions

Roles: admin, pm. A user may hold both; grants are the union.

| component | admin | pm |
|---|---|---|
| ProjectsPmFilter (owner filter) | yes | no |
| Stats (stats, sales series, conversion) | yes | no |

Columns: admins see every column except id; PMs see the same without pm. The status view then narrows the set:

- all: every granted column
- quoted: date_quoted, project_address, client, contract_amount, paid, outstanding, progress, pm, actions
- active: date_started, project_address, client, contract_amount, paid, outstanding, progress, pm, actions
- finished: date_finished, project_address, client, contract_amount, paid, outstanding, progress, pm, actions
- archived: no columns
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
