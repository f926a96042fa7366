package analyzer

import (
	"math"
	"time"

	"github.com/rahmatrdn/go-ch-insight/entity"
)

// DefaultBucketWidth is the discretization step for utilization
// accounting: one bucket per minute, 1440 per fully covered day.
const DefaultBucketWidth = time.Minute

// Analyzer runs the full record pipeline: classify, bin, aggregate,
// assemble. It holds no state between runs; every method is a pure
// function over its inputs, so repeated runs over the same records yield
// bit-identical reports.
type Analyzer struct {
	bucketWidth time.Duration
}

func New(bucketWidth time.Duration) *Analyzer {
	if bucketWidth <= 0 {
		bucketWidth = DefaultBucketWidth
	}
	return &Analyzer{bucketWidth: bucketWidth}
}

// FilterMalformed splits records into the valid set and the rejected set.
// Rejection is not silent: the caller receives every rejected record with
// its reason and is expected to surface them.
func FilterMalformed(records []entity.QueryRecord) ([]entity.QueryRecord, []entity.RejectedRecord) {
	valid := make([]entity.QueryRecord, 0, len(records))
	var rejected []entity.RejectedRecord
	for _, r := range records {
		if reason, bad := r.Malformed(); bad {
			rejected = append(rejected, entity.RejectedRecord{
				QueryID: r.QueryID,
				Reason:  reason,
			})
			continue
		}
		valid = append(valid, r)
	}
	return valid, rejected
}

// Analyze produces the utilization report for the given window. Malformed
// records are filtered out first and reported back alongside the result;
// an input consisting solely of malformed records still yields a valid
// zero report.
func (a *Analyzer) Analyze(windowStart, windowEnd time.Time, records []entity.QueryRecord) (*entity.AggregateReport, []entity.RejectedRecord, error) {
	valid, rejected := FilterMalformed(records)

	buckets := GenerateBuckets(windowStart, windowEnd, a.bucketWidth)
	catStats := aggregateByCategory(valid)
	perDay := dailyUtilization(valid, buckets)

	report, err := Assemble(catStats, perDay, int64(len(valid)), rejected, windowStart, windowEnd)
	if err != nil {
		return nil, rejected, err
	}
	return report, rejected, nil
}

type categoryAccum struct {
	count     int64
	sumMicros int64
	minMicros int64
	maxMicros int64
	samples   []int64
}

// aggregateByCategory computes execution-time statistics per workload
// category across the whole window. Sums are carried in integer
// microseconds and converted to seconds only at the boundary, so the
// result does not drift between runs. Every category is present in the
// output, zero-valued when no query fell into it.
func aggregateByCategory(records []entity.QueryRecord) map[entity.WorkloadCategory]entity.CategoryStats {
	accums := make(map[entity.WorkloadCategory]*categoryAccum, len(entity.WorkloadCategories))
	for _, c := range entity.WorkloadCategories {
		accums[c] = &categoryAccum{}
	}

	var totalMicros int64
	for _, r := range records {
		acc := accums[Classify(r.MaxScanBytes)]
		m := r.TotalExecTimeMicros
		if acc.count == 0 || m < acc.minMicros {
			acc.minMicros = m
		}
		if acc.count == 0 || m > acc.maxMicros {
			acc.maxMicros = m
		}
		acc.count++
		acc.sumMicros += m
		acc.samples = append(acc.samples, m)
		totalMicros += m
	}

	stats := make(map[entity.WorkloadCategory]entity.CategoryStats, len(accums))
	for c, acc := range accums {
		s := entity.CategoryStats{Count: acc.count}
		if acc.count > 0 {
			s.SumSec = microsToSec(acc.sumMicros)
			s.AvgSec = round3(float64(acc.sumMicros) / float64(acc.count) / 1e6)
			s.MinSec = microsToSec(acc.minMicros)
			s.MaxSec = microsToSec(acc.maxMicros)
			s.P95Sec = round3(percentileContMicros(acc.samples, 0.95) / 1e6)
		}
		// A zero total leaves every share at 0 rather than dividing.
		if totalMicros > 0 {
			s.PctOfTotal = round1(float64(acc.sumMicros) / float64(totalMicros) * 100)
		}
		stats[c] = s
	}
	return stats
}

// dailyUtilization marks, for every bucket, which categories had at least
// one active query, then folds the marks into per-calendar-day active
// bucket counts and percentages. The denominator is the number of buckets
// generated for that day; empty buckets count toward it, which is why
// bucket generation must be exhaustive. A fully covered day at the default
// width has 1440 bucket-minutes. Days are keyed by the UTC date of the
// bucket start and returned in window order.
func dailyUtilization(records []entity.QueryRecord, buckets []TimeBucket) []entity.DayUtilization {
	active := make([]map[entity.WorkloadCategory]bool, len(buckets))

	for _, r := range records {
		cat := Classify(r.MaxScanBytes)
		for _, i := range OverlappingBuckets(r, buckets) {
			if active[i] == nil {
				active[i] = make(map[entity.WorkloadCategory]bool, len(entity.WorkloadCategories))
			}
			active[i][cat] = true
		}
	}

	var days []entity.DayUtilization
	var totals []int
	dayIdx := make(map[string]int)
	for i, b := range buckets {
		date := b.Start.UTC().Format("2006-01-02")
		j, ok := dayIdx[date]
		if !ok {
			j = len(days)
			dayIdx[date] = j
			day := entity.DayUtilization{
				Date:          date,
				ActiveMinutes: make(map[entity.WorkloadCategory]int, len(entity.WorkloadCategories)),
				ActivityPct:   make(map[entity.WorkloadCategory]float64, len(entity.WorkloadCategories)),
			}
			for _, c := range entity.WorkloadCategories {
				day.ActiveMinutes[c] = 0
				day.ActivityPct[c] = 0
			}
			days = append(days, day)
			totals = append(totals, 0)
		}
		totals[j]++
		for c := range active[i] {
			days[j].ActiveMinutes[c]++
		}
	}

	for j := range days {
		for _, c := range entity.WorkloadCategories {
			if totals[j] > 0 {
				days[j].ActivityPct[c] = round1(float64(days[j].ActiveMinutes[c]) / float64(totals[j]) * 100)
			}
		}
	}
	return days
}

func microsToSec(micros int64) float64 {
	return round3(float64(micros) / 1e6)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
