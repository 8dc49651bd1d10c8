package permission

import "github.com/rpggio/jobtrack/internal/domain/filter"

// ColumnKey identifies a project table column.
type ColumnKey string

const (
	ColumnID             ColumnKey = "id"
	ColumnDateQuoted     ColumnKey = "date_quoted"
	ColumnDateStarted    ColumnKey = "date_started"
	ColumnDateFinished   ColumnKey = "date_finished"
	ColumnProjectAddress ColumnKey = "project_address"
	ColumnClient         ColumnKey = "client"
	ColumnContractAmount ColumnKey = "contract_amount"
	ColumnPaid           ColumnKey = "paid"
	ColumnOutstanding    ColumnKey = "outstanding"
	ColumnProgress       ColumnKey = "progress"
	ColumnPM             ColumnKey = "pm"
	ColumnActions        ColumnKey = "actions"
)

// Column describes a table column.
type Column struct {
	Key   ColumnKey `json:"key"`
	Label string    `json:"label"`
	Width string    `json:"width,omitempty"`
}

var (
	colDateQuoted     = Column{Key: ColumnDateQuoted, Label: "Date Quoted", Width: "lg:min-w-[140px]"}
	colDateStarted    = Column{Key: ColumnDateStarted, Label: "Date Started", Width: "lg:min-w-[140px]"}
	colDateFinished   = Column{Key: ColumnDateFinished, Label: "Date Finished", Width: "lg:min-w-[140px]"}
	colProjectAddress = Column{Key: ColumnProjectAddress, Label: "Project Address", Width: "lg:min-w-[240px]"}
	colClient         = Column{Key: ColumnClient, Label: "Client", Width: "lg:min-w-[120px]"}
	colContractAmount = Column{Key: ColumnContractAmount, Label: "Contract Amount", Width: "lg:min-w-[140px]"}
	colPaid           = Column{Key: ColumnPaid, Label: "Paid", Width: "lg:min-w-[140px]"}
	colOutstanding    = Column{Key: ColumnOutstanding, Label: "Outstanding", Width: "lg:min-w-[140px]"}
	colProgress       = Column{Key: ColumnProgress, Label: "Progress", Width: "lg:min-w-[180px]"}
	colPM             = Column{Key: ColumnPM, Label: "PM", Width: "lg:min-w-[140px]"}
	colActions        = Column{Key: ColumnActions, Label: "", Width: "lg:min-w-[60px]"}
)

var columnGrants = map[Role][]Column{
	RoleAdmin: {
		colDateQuoted, colDateStarted, colDateFinished, colProjectAddress, colClient,
		colContractAmount, colPaid, colOutstanding, colProgress, colPM, colActions,
	},
	RolePM: {
		colDateQuoted, colDateStarted, colDateFinished, colProjectAddress, colClient,
		colContractAmount, colPaid, colOutstanding, colProgress, colActions,
	},
}

func keySet(keys ...ColumnKey) map[ColumnKey]bool {
	m := make(map[ColumnKey]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// Views without an entry, such as archived, display no columns.
var columnsByView = map[filter.View]map[ColumnKey]bool{
	filter.ViewAll: keySet(ColumnID, ColumnDateQuoted, ColumnDateStarted, ColumnDateFinished,
		ColumnProjectAddress, ColumnClient, ColumnContractAmount, ColumnPaid,
		ColumnOutstanding, ColumnProgress, ColumnPM, ColumnActions),
	filter.ViewQuoted: keySet(ColumnID, ColumnDateQuoted, ColumnProjectAddress, ColumnClient,
		ColumnContractAmount, ColumnPaid, ColumnOutstanding, ColumnProgress, ColumnPM, ColumnActions),
	filter.ViewActive: keySet(ColumnID, ColumnDateStarted, ColumnProjectAddress, ColumnClient,
		ColumnContractAmount, ColumnPaid, ColumnOutstanding, ColumnProgress, ColumnPM, ColumnActions),
	filter.ViewFinished: keySet(ColumnID, ColumnDateFinished, ColumnProjectAddress, ColumnClient,
		ColumnContractAmount, ColumnPaid, ColumnOutstanding, ColumnProgress, ColumnPM, ColumnActions),
}

// GrantedColumns is the union of the roles' column grants, keyed by column.
// The first role to grant a column decides its position and definition.
func GrantedColumns(roles []Role) []Column {
	seen := make(map[ColumnKey]bool)
	var out []Column
	for _, r := range roles {
		for _, c := range columnGrants[r] {
			if seen[c.Key] {
				continue
			}
			seen[c.Key] = true
			out = append(out, c)
		}
	}
	return out
}

// VisibleColumns returns the granted columns that the status view permits.
func VisibleColumns(roles []Role, view filter.View) []Column {
	allowed := columnsByView[view]
	out := make([]Column, 0, len(allowed))
	for _, c := range GrantedColumns(roles) {
		if allowed[c.Key] {
			out = append(out, c)
		}
	}
	return out
}
