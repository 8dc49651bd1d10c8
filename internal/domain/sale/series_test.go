package sale_test

import (
	"testing"
	"time"

	"github.com/rpggio/jobtrack/internal/domain/sale"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(id int, date time.Time, amount, owner, address string) sale.Sale {
	return sale.Sale{
		SalesID:        id,
		Date:           date,
		ProjectIDFK:    id,
		ProjectAddress: address,
		ContractAmount: decimal.RequireFromString(amount),
		OwnerName:      owner,
	}
}

func months(points []sale.Point) []int {
	out := make([]int, 0, len(points))
	for _, p := range points {
		out = append(out, p.Month)
	}
	return out
}

func TestBuildSeries_WindowGroupingAndPadding(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	sales := []sale.Sale{
		entry(1, day(2026, time.April, 15), "9000", "Dana", "1 Old Rd"),
		entry(2, day(2026, time.April, 16), "2500", "Dana", "2 Elm St"),
		entry(3, day(2026, time.September, 3), "10000", "Dana", "3 Main St"),
		entry(4, day(2026, time.September, 20), "4600", "Sam", "4 Oak Rd"),
		entry(5, day(2026, time.October, 1), "1499", "Sam", "5 Pine Ave"),
	}

	series := sale.BuildSeries(sales, sale.AllOwners, now)
	require.Len(t, series.Points, sale.SeriesLength)
	require.Equal(t, []int{1, 2, 3, 4, 9, 10}, months(series.Points))

	april := series.Points[3]
	require.Equal(t, "April", april.Name)
	require.Equal(t, int64(3), april.Amount)
	require.Equal(t, []string{"2 Elm St"}, april.Addresses)

	september := series.Points[4]
	require.Equal(t, int64(15), september.Amount)
	require.Equal(t, []string{"3 Main St", "4 Oak Rd"}, september.Addresses)

	require.Equal(t, int64(1), series.Points[5].Amount)
	require.Equal(t, int64(0), series.Points[0].Amount)
}

func TestBuildSeries_OwnerFilterKeepsEmptyBuckets(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	sales := []sale.Sale{
		entry(1, day(2026, time.September, 3), "10000", "Dana", "3 Main St"),
		entry(2, day(2026, time.October, 2), "7000", "Sam", "4 Oak Rd"),
	}

	series := sale.BuildSeries(sales, "Dana", now)
	require.Equal(t, []int{5, 6, 7, 8, 9, 10}, months(series.Points))
	require.Equal(t, int64(10), series.Points[4].Amount)
	require.Equal(t, int64(0), series.Points[5].Amount)
	require.Empty(t, series.Points[5].Addresses)
	require.Equal(t, sale.Trend{Direction: sale.TrendDown, Percent: 100}, series.Trend)
}

func TestBuildSeries_EmptyPadsBeforeCurrentMonth(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	series := sale.BuildSeries(nil, sale.AllOwners, now)
	require.Equal(t, []int{4, 5, 6, 7, 8, 9}, months(series.Points))
	require.Equal(t, sale.Trend{Direction: sale.TrendDown, Percent: 0}, series.Trend)
}

func TestBuildSeries_YearBoundaryWraps(t *testing.T) {
	now := time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC)
	sales := []sale.Sale{
		entry(1, day(2026, time.February, 1), "3000", "Dana", "a"),
		entry(2, day(2025, time.December, 5), "2000", "Dana", "b"),
		entry(3, day(2026, time.January, 20), "1000", "Dana", "c"),
	}
	series := sale.BuildSeries(sales, sale.AllOwners, now)
	require.Equal(t, []int{9, 10, 11, 12, 1, 2}, months(series.Points))
	require.Equal(t, "December", series.Points[3].Name)

	empty := sale.BuildSeries(nil, sale.AllOwners, now)
	require.Equal(t, []int{8, 9, 10, 11, 12, 1}, months(empty.Points))
}

func TestBuildSeries_KeepsLatestSixMonths(t *testing.T) {
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	var sales []sale.Sale
	for i, m := range []time.Month{time.April, time.May, time.June, time.July, time.August, time.September, time.October} {
		d := 20
		if m == time.October {
			d = 1
		}
		sales = append(sales, entry(i+1, day(2026, m, d), "1000", "Dana", "x"))
	}
	series := sale.BuildSeries(sales, sale.AllOwners, now)
	require.Equal(t, []int{5, 6, 7, 8, 9, 10}, months(series.Points))
}

func TestTrendOf(t *testing.T) {
	up := sale.TrendOf([]sale.Point{{Amount: 10}, {Amount: 15}})
	require.Equal(t, sale.Trend{Direction: sale.TrendUp, Percent: 33}, up)

	down := sale.TrendOf([]sale.Point{{Amount: 20}, {Amount: 5}})
	require.Equal(t, sale.Trend{Direction: sale.TrendDown, Percent: 75}, down)

	require.Equal(t, int64(0), sale.ChangePercent(0, 5))
}

func TestSubMonths_ClampsToMonthEnd(t *testing.T) {
	got := sale.SubMonths(time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC), 6)
	require.Equal(t, time.Date(2026, time.February, 28, 10, 0, 0, 0, time.UTC), got)

	got = sale.SubMonths(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), 6)
	require.Equal(t, time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestBuildSeries_IgnoresSalesAfterCurrentMonth(t *testing.T) {
	now := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	sales := []sale.Sale{
		entry(1, day(2026, time.September, 3), "4000", "Dana", "3 Main St"),
		entry(2, day(2026, time.November, 3), "9000", "Dana", "9 Future Way"),
		entry(3, day(2027, time.April, 1), "5000", "Dana", "10 Later Ln"),
	}

	series := sale.BuildSeries(sales, sale.AllOwners, now)
	require.Equal(t, []int{4, 5, 6, 7, 8, 9}, months(series.Points))
	require.Equal(t, int64(4), series.Points[5].Amount)
	for _, p := range series.Points {
		require.NotContains(t, p.Addresses, "9 Future Way")
	}
	require.Equal(t, sale.Trend{Direction: sale.TrendUp, Percent: 100}, series.Trend)
}

func TestBuildSeries_OrdersAcrossYearEnd(t *testing.T) {
	now := time.Date(2027, time.January, 10, 9, 0, 0, 0, time.UTC)
	sales := []sale.Sale{
		entry(1, day(2027, time.January, 2), "2000", "Dana", "1 New Year Rd"),
		entry(2, day(2026, time.November, 20), "6000", "Dana", "2 Fall St"),
		entry(3, day(2026, time.December, 5), "3000", "Dana", "3 Winter Ave"),
	}

	series := sale.BuildSeries(sales, sale.AllOwners, now)
	require.Equal(t, []int{8, 9, 10, 11, 12, 1}, months(series.Points))
	require.Equal(t, []int64{0, 0, 0, 6, 3, 2}, []int64{
		series.Points[0].Amount, series.Points[1].Amount, series.Points[2].Amount,
		series.Points[3].Amount, series.Points[4].Amount, series.Points[5].Amount,
	})
	require.Equal(t, sale.Trend{Direction: sale.TrendDown, Percent: 33}, series.Trend)
}
