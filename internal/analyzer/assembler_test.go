package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahmatrdn/go-ch-insight/entity"
)

func TestAssemble_AveragesAcrossDays(t *testing.T) {
	start := mustTime(t, "2026-08-10T00:00:00Z")
	end := start.AddDate(0, 0, 2)

	catStats := map[entity.WorkloadCategory]entity.CategoryStats{
		entity.WorkloadSmall:  {Count: 2},
		entity.WorkloadMedium: {},
		entity.WorkloadLarge:  {},
	}
	perDay := []entity.DayUtilization{
		{
			Date:          "2026-08-10",
			ActiveMinutes: map[entity.WorkloadCategory]int{entity.WorkloadSmall: 60, entity.WorkloadMedium: 0, entity.WorkloadLarge: 0},
			ActivityPct:   map[entity.WorkloadCategory]float64{entity.WorkloadSmall: 4.2, entity.WorkloadMedium: 0, entity.WorkloadLarge: 0},
		},
		{
			Date:          "2026-08-11",
			ActiveMinutes: map[entity.WorkloadCategory]int{entity.WorkloadSmall: 30, entity.WorkloadMedium: 0, entity.WorkloadLarge: 0},
			ActivityPct:   map[entity.WorkloadCategory]float64{entity.WorkloadSmall: 2.1, entity.WorkloadMedium: 0, entity.WorkloadLarge: 0},
		},
	}

	report, err := Assemble(catStats, perDay, 2, nil, start, end)
	require.NoError(t, err)

	assert.Equal(t, 3.2, report.PerDayAvgActivityPct[entity.WorkloadSmall]) // (4.2+2.1)/2 rounded
	assert.Equal(t, 45.0, report.PerDayAvgActiveMinutes[entity.WorkloadSmall])
	assert.Equal(t, 0.0, report.PerDayAvgActivityPct[entity.WorkloadLarge])
	assert.Equal(t, int64(2), report.TotalQueryCount)
	assert.Equal(t, 0, report.RejectedRecordCount)
}

func TestAssemble_DisjointCategorySets(t *testing.T) {
	start := mustTime(t, "2026-08-10T00:00:00Z")

	catStats := map[entity.WorkloadCategory]entity.CategoryStats{
		entity.WorkloadSmall: {Count: 1},
	}
	perDay := []entity.DayUtilization{
		{
			Date:          "2026-08-10",
			ActiveMinutes: map[entity.WorkloadCategory]int{entity.WorkloadLarge: 1},
			ActivityPct:   map[entity.WorkloadCategory]float64{entity.WorkloadLarge: 0.1},
		},
	}

	_, err := Assemble(catStats, perDay, 1, nil, start, start.AddDate(0, 0, 1))
	require.Error(t, err)

	var incomplete *IncompleteDataError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []entity.WorkloadCategory{entity.WorkloadSmall}, incomplete.StatsCategories)
}

func TestAssemble_EmptyInputsAreValid(t *testing.T) {
	start := mustTime(t, "2026-08-10T00:00:00Z")

	report, err := Assemble(nil, nil, 0, nil, start, start)
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.TotalQueryCount)
	for _, c := range entity.WorkloadCategories {
		assert.Equal(t, 0.0, report.PerDayAvgActivityPct[c])
	}
}
