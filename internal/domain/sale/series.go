package sale

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SeriesLength is the number of monthly points in a sales series.
const SeriesLength = 6

// AllOwners matches every owner.
const AllOwners = "all"

var thousand = decimal.NewFromInt(1000)

// Point is one month of sales, amount in thousands.
type Point struct {
	Month     int      `json:"idx"`
	Name      string   `json:"month"`
	Amount    int64    `json:"amount"`
	Addresses []string `json:"project_addresses,omitempty"`
}

// Direction of the month-over-month change.
type Direction string

const (
	TrendUp   Direction = "up"
	TrendDown Direction = "down"
)

// Trend compares the two most recent points.
type Trend struct {
	Direction Direction `json:"direction"`
	Percent   int64     `json:"percent"`
}

// Series is the fixed-length monthly sales view.
type Series struct {
	Points []Point `json:"points"`
	Trend  Trend   `json:"trend"`
}

type bucket struct {
	point Point
	age   int // whole months before now's month, never negative
}

// BuildSeries groups sales dated strictly after now minus six months and no
// later than now's month by month, and returns exactly SeriesLength points
// in chronological order. Only sales whose owner matches contribute amounts
// and addresses, but every in-window sale opens its month.
func BuildSeries(sales []Sale, owner string, now time.Time) Series {
	cutoff := SubMonths(wall(now), SeriesLength)
	current := monthIndex(now)

	buckets := map[int]*bucket{}
	sums := map[int]decimal.Decimal{}
	for _, s := range sales {
		if !s.Date.After(cutoff) {
			continue
		}
		age := current - monthIndex(s.Date)
		if age < 0 {
			continue
		}
		b, ok := buckets[age]
		if !ok {
			m := int(s.Date.Month())
			b = &bucket{
				point: Point{Month: m, Name: time.Month(m).String()},
				age:   age,
			}
			buckets[age] = b
		}
		if owner != AllOwners && s.OwnerName != owner {
			continue
		}
		sums[age] = sums[age].Add(s.ContractAmount)
		if s.ProjectAddress != "" && !contains(b.point.Addresses, s.ProjectAddress) {
			b.point.Addresses = append(b.point.Addresses, s.ProjectAddress)
		}
	}

	ordered := make([]*bucket, 0, len(buckets))
	for age, b := range buckets {
		b.point.Amount = roundHalfUp(sums[age].Div(thousand))
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].age > ordered[j].age })
	if len(ordered) > SeriesLength {
		ordered = ordered[len(ordered)-SeriesLength:]
	}

	points := make([]Point, 0, SeriesLength)
	for _, b := range ordered {
		points = append(points, b.point)
	}
	points = pad(points, int(now.Month()))

	return Series{Points: points, Trend: TrendOf(points)}
}

// monthIndex counts months since year zero, so differences span year ends.
func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// pad prepends empty months before the earliest point until the series is
// full. With no points at all, padding ends at the month before current.
func pad(points []Point, current int) []Point {
	missing := SeriesLength - len(points)
	if missing <= 0 {
		return points
	}
	first := current
	if len(points) > 0 {
		first = points[0].Month
	}
	out := make([]Point, 0, SeriesLength)
	for i := missing; i > 0; i-- {
		m := first - i
		if m < 1 {
			m += 12
		}
		out = append(out, Point{Month: m, Name: time.Month(m).String()})
	}
	return append(out, points...)
}

// TrendOf compares the last two points of a series.
func TrendOf(points []Point) Trend {
	if len(points) < 2 {
		return Trend{Direction: TrendDown}
	}
	newer := points[len(points)-1].Amount
	older := points[len(points)-2].Amount
	if newer > older {
		return Trend{Direction: TrendUp, Percent: ChangePercent(newer, older)}
	}
	return Trend{Direction: TrendDown, Percent: ChangePercent(older, newer)}
}

// ChangePercent returns round((base-other)/base*100), or 0 when base is 0.
func ChangePercent(base, other int64) int64 {
	if base == 0 {
		return 0
	}
	ratio := decimal.NewFromInt(base - other).Div(decimal.NewFromInt(base)).Mul(decimal.NewFromInt(100))
	return roundHalfUp(ratio)
}

// SubMonths moves t back n calendar months, clamping the day to the end of
// the target month.
func SubMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// wall re-expresses t's local wall clock in UTC so it compares with ledger
// dates, which are stored as UTC midnights.
func wall(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(decimal.NewFromFloat(0.5)).Floor().IntPart()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
