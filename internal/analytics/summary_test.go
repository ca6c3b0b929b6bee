package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillSplicesZeroMonths(t *testing.T) {
	p := Period{StartYear: 2024, StartMonth: 7, EndYear: 2024, EndMonth: 9}

	dense := Fill(p, []MonthMetric{{Year: 2024, Month: 8, Value: 8}})

	require.Len(t, dense, 3)
	assert.Equal(t, MonthMetric{Year: 2024, Month: 7, Value: 0}, dense[0])
	assert.Equal(t, MonthMetric{Year: 2024, Month: 8, Value: 8}, dense[1])
	assert.Equal(t, MonthMetric{Year: 2024, Month: 9, Value: 0}, dense[2])
}

func TestFillCrossesYearBoundary(t *testing.T) {
	p := Period{StartYear: 2023, StartMonth: 11, EndYear: 2024, EndMonth: 2}

	dense := Fill(p, []MonthMetric{
		{Year: 2024, Month: 1, Value: 42},
		{Year: 2023, Month: 12, Value: 7},
	})

	require.Len(t, dense, 4)
	assert.Equal(t, MonthMetric{Year: 2023, Month: 11, Value: 0}, dense[0])
	assert.Equal(t, MonthMetric{Year: 2023, Month: 12, Value: 7}, dense[1])
	assert.Equal(t, MonthMetric{Year: 2024, Month: 1, Value: 42}, dense[2])
	assert.Equal(t, MonthMetric{Year: 2024, Month: 2, Value: 0}, dense[3])
}

func TestFillDropsRowsOutsidePeriod(t *testing.T) {
	p := Period{StartYear: 2024, StartMonth: 3, EndYear: 2024, EndMonth: 4}

	dense := Fill(p, []MonthMetric{
		{Year: 2024, Month: 2, Value: 99},
		{Year: 2024, Month: 3, Value: 1},
		{Year: 2024, Month: 5, Value: 99},
	})

	require.Len(t, dense, 2)
	assert.Equal(t, int64(1), dense[0].Value)
	assert.Equal(t, int64(0), dense[1].Value)
}

func TestValidateRejectsBadMonths(t *testing.T) {
	p := Period{StartYear: 2024, StartMonth: 0, EndYear: 2024, EndMonth: 13}
	assert.ErrorIs(t, p.Validate(), ErrInvalidMonth)

	p = Period{StartYear: 2024, StartMonth: 1, EndYear: 2024, EndMonth: 13}
	assert.ErrorIs(t, p.Validate(), ErrInvalidMonth)
}

func TestValidateRejectsReversedPeriod(t *testing.T) {
	p := Period{StartYear: 2024, StartMonth: 6, EndYear: 2024, EndMonth: 3}
	assert.ErrorIs(t, p.Validate(), ErrInvalidPeriod)

	p = Period{StartYear: 2025, StartMonth: 1, EndYear: 2024, EndMonth: 12}
	assert.ErrorIs(t, p.Validate(), ErrInvalidPeriod)
}

func TestValidateRejectsOutOfRangeSpans(t *testing.T) {
	// A single month is too narrow.
	p := Period{StartYear: 2024, StartMonth: 5, EndYear: 2024, EndMonth: 5}
	assert.ErrorIs(t, p.Validate(), ErrInvalidRange)

	// Thirteen months is too wide.
	p = Period{StartYear: 2024, StartMonth: 1, EndYear: 2025, EndMonth: 1}
	assert.ErrorIs(t, p.Validate(), ErrInvalidRange)

	// Two and twelve months are the inclusive edges.
	p = Period{StartYear: 2024, StartMonth: 1, EndYear: 2024, EndMonth: 2}
	assert.NoError(t, p.Validate())
	p = Period{StartYear: 2024, StartMonth: 1, EndYear: 2024, EndMonth: 12}
	assert.NoError(t, p.Validate())
}

func TestValidateChecksMonthsBeforeBounds(t *testing.T) {
	// Both checks would fire; the month check wins.
	p := Period{StartYear: 2024, StartMonth: 13, EndYear: 2024, EndMonth: 13}
	assert.ErrorIs(t, p.Validate(), ErrInvalidMonth)
}
