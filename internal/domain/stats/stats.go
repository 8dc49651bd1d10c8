// Package stats reduces project collections to the financial figures shown on
// the dashboard. All amounts are decimals rounded to cents.
package stats

import (
	"github.com/rpggio/jobtrack/internal/domain/filter"
	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// Totals summarizes a project collection.
type Totals struct {
	Contract    decimal.Decimal
	Paid        decimal.Decimal
	Outstanding decimal.Decimal
	Progress    int64
}

// Sum computes totals over projects. Contract and paid sums are additive over
// disjoint subsets.
func Sum(projects []project.Project) Totals {
	contract, paid := decimal.Zero, decimal.Zero
	for _, p := range projects {
		contract = contract.Add(p.ContractAmount)
		paid = paid.Add(p.Paid)
	}
	contract, paid = contract.Round(2), paid.Round(2)
	return Totals{
		Contract:    contract,
		Paid:        paid,
		Outstanding: Outstanding(contract, paid),
		Progress:    Progress(contract, paid),
	}
}

// Outstanding returns contract minus paid, to cents.
func Outstanding(contract, paid decimal.Decimal) decimal.Decimal {
	return contract.Sub(paid).Round(2)
}

// Progress returns the collected share of contract as a whole percentage,
// round(100 - outstanding/contract*100), or 0 for a zero contract.
func Progress(contract, paid decimal.Decimal) int64 {
	if contract.IsZero() {
		return 0
	}
	share := contract.Sub(paid).Div(contract).Mul(hundred)
	return roundHalfUp(hundred.Sub(share))
}

// Conversion is the share of an owner's projects that are active.
type Conversion struct {
	Active int   `json:"active"`
	Total  int   `json:"total"`
	Rate   int64 `json:"rate"`
}

// ConversionRate counts projects of owner (or every owner) regardless of the
// status view, and returns the active share as a whole percentage.
func ConversionRate(projects []project.Project, owner string) Conversion {
	var c Conversion
	for _, p := range projects {
		if !filter.MatchOwner(p, owner) {
			continue
		}
		c.Total++
		if p.Status == project.StatusActive {
			c.Active++
		}
	}
	if c.Total > 0 {
		c.Rate = roundHalfUp(decimal.NewFromInt(int64(c.Active * 100)).Div(decimal.NewFromInt(int64(c.Total))))
	}
	return c
}

func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}
