package project_test

import (
	"testing"
	"time"

	"github.com/rpggio/jobtrack/internal/domain/project"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, time.October, 15, 14, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEdit_QuotedToActiveToFinished(t *testing.T) {
	p := project.New(1, project.Owner{ID: "u1", Name: "Dana Wright"}, today)
	require.Equal(t, project.StatusQuoted, p.Status)

	p, tr := project.Edit(p, project.FieldContractAmount, "10,000.00", today)
	require.Equal(t, project.StatusQuoted, p.Status)
	require.False(t, tr.SyncLedger)
	require.True(t, dec("10000").Equal(p.ContractAmount))

	p, tr = project.Edit(p, project.FieldPaid, "2500", today)
	require.Equal(t, project.StatusActive, p.Status)
	require.True(t, tr.SyncLedger)
	require.True(t, tr.Changed())
	require.NotNil(t, p.DateStarted)
	require.Equal(t, project.Day(today), *p.DateStarted)
	require.Nil(t, p.DateFinished)

	p, tr = project.Edit(p, project.FieldPaid, "10000", today)
	require.Equal(t, project.StatusFinished, p.Status)
	require.False(t, tr.SyncLedger)
	require.NotNil(t, p.DateFinished)
	require.Equal(t, project.Day(today), *p.DateFinished)
	require.True(t, dec("10000").Equal(p.Paid))
}

func TestRecompute_FinishedClampsPaid(t *testing.T) {
	p := project.New(1, project.Owner{}, today)
	p.ContractAmount = dec("500")
	p, _ = project.Edit(p, project.FieldPaid, "750", today)
	require.Equal(t, project.StatusFinished, p.Status)
	require.True(t, p.Paid.Equal(p.ContractAmount))
	require.NotNil(t, p.DateStarted)
}

func TestRecompute_ActiveKeepsExistingStartDate(t *testing.T) {
	started := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	finished := time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)
	p := project.New(1, project.Owner{}, today)
	p.Status = project.StatusFinished
	p.ContractAmount = dec("1000")
	p.Paid = dec("1000")
	p.DateStarted = &started
	p.DateFinished = &finished

	p, tr := project.Edit(p, project.FieldContractAmount, "2000", today)
	require.Equal(t, project.StatusActive, p.Status)
	require.Equal(t, project.StatusFinished, tr.From)
	require.Equal(t, started, *p.DateStarted)
	require.Nil(t, p.DateFinished)
}

func TestRecompute_QuotedClearsDates(t *testing.T) {
	started := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	p := project.New(1, project.Owner{}, today)
	p.Status = project.StatusActive
	p.ContractAmount = dec("1000")
	p.Paid = dec("100")
	p.DateStarted = &started

	p, _ = project.Edit(p, project.FieldPaid, "0", today)
	require.Equal(t, project.StatusQuoted, p.Status)
	require.Nil(t, p.DateStarted)
	require.Nil(t, p.DateFinished)
}

func TestRecompute_ZeroContractPositivePaidStaysQuoted(t *testing.T) {
	p := project.New(1, project.Owner{}, today)
	p, tr := project.Edit(p, project.FieldPaid, "300", today)
	require.Equal(t, project.StatusQuoted, p.Status)
	require.True(t, dec("300").Equal(p.Paid))
	require.False(t, tr.SyncLedger)
}

func TestRecompute_ArchivedUntouched(t *testing.T) {
	p := project.New(1, project.Owner{}, today)
	p.Status = project.StatusArchived
	p.ContractAmount = dec("1000")

	p, tr := project.Edit(p, project.FieldPaid, "200", today)
	require.Equal(t, project.StatusArchived, p.Status)
	require.False(t, tr.Changed())
	require.False(t, tr.SyncLedger)
	require.True(t, dec("200").Equal(p.Paid))
}

func TestEdit_FinishedInvariantHolds(t *testing.T) {
	inputs := []string{"0", "1", "999.99", "1000", "1000.01", "5000", "", "x"}
	for _, contract := range inputs {
		for _, paid := range inputs {
			p := project.New(1, project.Owner{}, today)
			p, _ = project.Edit(p, project.FieldContractAmount, contract, today)
			p, _ = project.Edit(p, project.FieldPaid, paid, today)
			if p.Status == project.StatusFinished {
				require.True(t, p.Paid.Equal(p.ContractAmount), "contract=%q paid=%q", contract, paid)
			}
			if p.ContractAmount.IsPositive() {
				require.Contains(t, []project.Status{project.StatusQuoted, project.StatusActive, project.StatusFinished}, p.Status)
			}
		}
	}
}

func TestClone_DoesNotShareDates(t *testing.T) {
	started := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	p := project.Project{DateStarted: &started}
	c := p.Clone()
	*c.DateStarted = c.DateStarted.AddDate(0, 0, 1)
	require.Equal(t, time.March, p.DateStarted.Month())
	require.Equal(t, 2, p.DateStarted.Day())
}
