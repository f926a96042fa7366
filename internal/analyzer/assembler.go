package analyzer

import (
	"time"

	"github.com/rahmatrdn/go-ch-insight/entity"
)

// Assemble joins category statistics and daily utilization into the final
// report, adding the cross-day averages. Pure merge: nothing already
// aggregated is recomputed here.
//
// Returns *IncompleteDataError when the two inputs cover disjoint category
// sets. Impossible with the shared enumeration, guarded anyway.
func Assemble(
	catStats map[entity.WorkloadCategory]entity.CategoryStats,
	perDay []entity.DayUtilization,
	totalQueryCount int64,
	rejected []entity.RejectedRecord,
	windowStart, windowEnd time.Time,
) (*entity.AggregateReport, error) {
	if err := checkCategoryCoverage(catStats, perDay); err != nil {
		return nil, err
	}

	avgPct := make(map[entity.WorkloadCategory]float64, len(entity.WorkloadCategories))
	avgMinutes := make(map[entity.WorkloadCategory]float64, len(entity.WorkloadCategories))
	for _, c := range entity.WorkloadCategories {
		var pctSum, minSum float64
		for _, d := range perDay {
			pctSum += d.ActivityPct[c]
			minSum += float64(d.ActiveMinutes[c])
		}
		// An empty window has no days to average over; report zero.
		if n := len(perDay); n > 0 {
			avgPct[c] = round1(pctSum / float64(n))
			avgMinutes[c] = round1(minSum / float64(n))
		} else {
			avgPct[c] = 0
			avgMinutes[c] = 0
		}
	}

	ids := make([]string, 0, len(rejected))
	for _, r := range rejected {
		ids = append(ids, r.QueryID)
	}

	return &entity.AggregateReport{
		PerCategory:            catStats,
		PerDay:                 perDay,
		PerDayAvgActivityPct:   avgPct,
		PerDayAvgActiveMinutes: avgMinutes,
		TotalQueryCount:        totalQueryCount,
		RejectedRecordCount:    len(rejected),
		RejectedQueryIDs:       ids,
		WindowStart:            windowStart,
		WindowEnd:              windowEnd,
	}, nil
}

func checkCategoryCoverage(
	catStats map[entity.WorkloadCategory]entity.CategoryStats,
	perDay []entity.DayUtilization,
) error {
	if len(catStats) == 0 || len(perDay) == 0 {
		return nil
	}

	utilCats := make(map[entity.WorkloadCategory]bool)
	for _, d := range perDay {
		for c := range d.ActiveMinutes {
			utilCats[c] = true
		}
	}

	for c := range catStats {
		if utilCats[c] {
			return nil
		}
	}

	err := &IncompleteDataError{}
	for c := range catStats {
		err.StatsCategories = append(err.StatsCategories, c)
	}
	for c := range utilCats {
		err.UtilizationCategories = append(err.UtilizationCategories, c)
	}
	return err
}
