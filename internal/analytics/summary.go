// Package analytics produces dense monthly summaries: one row per
// calendar month of an inclusive period, zero-filled for months the
// underlying data has no rows for.
package analytics

import "github.com/studiohaven/cms-api/internal/errs"

var (
	ErrInvalidMonth    = errs.New(errs.KindValidation, "month must be between 1 and 12")
	ErrInvalidCategory = errs.New(errs.KindValidation, "category must be ALL unless the menu is ARTWORK")
	ErrInvalidPeriod   = errs.New(errs.KindValidation, "period end precedes period start")
	ErrInvalidRange    = errs.New(errs.KindValidation, "period must span between 2 and 12 months")
)

// Period is an inclusive calendar-month range.
type Period struct {
	StartYear  int
	StartMonth int
	EndYear    int
	EndMonth   int
}

// CheckMonths validates the month components only. It is split from
// CheckBounds because the views summary interposes a dimension check
// between the two.
func (p Period) CheckMonths() error {
	for _, m := range []int{p.StartMonth, p.EndMonth} {
		if m < 1 || m > 12 {
			return ErrInvalidMonth
		}
	}
	return nil
}

// CheckBounds validates ordering and span. Single-month and >12-month
// queries are rejected; the dashboard renders at most one year.
func (p Period) CheckBounds() error {
	if p.span() <= 0 {
		return ErrInvalidPeriod
	}
	if months := p.span(); months < 2 || months > 12 {
		return ErrInvalidRange
	}
	return nil
}

// Validate runs the full check sequence for periods with no extra
// dimension constraints.
func (p Period) Validate() error {
	if err := p.CheckMonths(); err != nil {
		return err
	}
	return p.CheckBounds()
}

// span is the inclusive number of months, or <= 0 when end < start.
func (p Period) span() int {
	return monthIndex(p.EndYear, p.EndMonth) - monthIndex(p.StartYear, p.StartMonth) + 1
}

func monthIndex(year, month int) int {
	return year*12 + month - 1
}

// MonthMetric is one summary row.
type MonthMetric struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Value int64 `json:"value"`
}

// Fill walks every month of the period in chronological order and
// splices a zero-valued row wherever rows has no entry. rows may
// arrive in any order; months outside the period are dropped.
func Fill(p Period, rows []MonthMetric) []MonthMetric {
	byMonth := make(map[int]int64, len(rows))
	for _, row := range rows {
		byMonth[monthIndex(row.Year, row.Month)] = row.Value
	}

	start := monthIndex(p.StartYear, p.StartMonth)
	end := monthIndex(p.EndYear, p.EndMonth)

	dense := make([]MonthMetric, 0, end-start+1)
	for idx := start; idx <= end; idx++ {
		dense = append(dense, MonthMetric{
			Year:  idx / 12,
			Month: idx%12 + 1,
			Value: byMonth[idx],
		})
	}
	return dense
}
