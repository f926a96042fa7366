package entity

import (
	"time"
)

// CategoryStats holds execution-time statistics for one workload category
// across the whole analysis window. Seconds carry 3 decimal places,
// percentages 1.
type CategoryStats struct {
	Count      int64   `json:"count"`
	SumSec     float64 `json:"sum_sec"`
	AvgSec     float64 `json:"avg_sec"`
	MinSec     float64 `json:"min_sec"`
	MaxSec     float64 `json:"max_sec"`
	P95Sec     float64 `json:"p95_sec"`
	PctOfTotal float64 `json:"pct_of_total"`
}

// DayUtilization is the per-calendar-day activity breakdown: for each
// category, how many minutes of the day had at least one active query and
// what fraction of the day's 1440 minutes that is.
type DayUtilization struct {
	Date          string                       `json:"date"` // YYYY-MM-DD, UTC
	ActiveMinutes map[WorkloadCategory]int     `json:"active_minutes"`
	ActivityPct   map[WorkloadCategory]float64 `json:"activity_pct"`
}

// AggregateReport is the analyzer's final output. Immutable once produced.
type AggregateReport struct {
	PerCategory            map[WorkloadCategory]CategoryStats `json:"per_category"`
	PerDay                 []DayUtilization                   `json:"per_day"`
	PerDayAvgActivityPct   map[WorkloadCategory]float64       `json:"per_day_avg_activity_pct"`
	PerDayAvgActiveMinutes map[WorkloadCategory]float64       `json:"per_day_avg_active_minutes"`
	TotalQueryCount        int64                              `json:"total_query_count"`
	RejectedRecordCount    int                                `json:"rejected_record_count"`
	RejectedQueryIDs       []string                           `json:"rejected_query_ids,omitempty"`
	WindowStart            time.Time                          `json:"window_start"`
	WindowEnd              time.Time                          `json:"window_end"`
}

// WorkloadReportRow is the persisted form of one category's slice of an
// AggregateReport snapshot. A refresh writes one row per category, all
// sharing a batch ID.
type WorkloadReportRow struct {
	ID                    int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	ConnectionID          int64            `gorm:"index" json:"connection_id"`
	BatchID               string           `gorm:"index;type:text;not null" json:"batch_id"`
	Category              WorkloadCategory `gorm:"type:text;not null" json:"category"`
	QueryCount            int64            `json:"query_count"`
	SumSec                float64          `json:"sum_sec"`
	AvgSec                float64          `json:"avg_sec"`
	MinSec                float64          `json:"min_sec"`
	MaxSec                float64          `json:"max_sec"`
	P95Sec                float64          `json:"p95_sec"`
	PctOfTotal            float64          `json:"pct_of_total"`
	AvgDailyActivityPct   float64          `json:"avg_daily_activity_pct"`
	AvgDailyActiveMinutes float64          `json:"avg_daily_active_minutes"`
	TotalQueryCount       int64            `json:"total_query_count"`
	RejectedRecordCount   int              `json:"rejected_record_count"`
	WindowStart           time.Time        `json:"window_start"`
	WindowEnd             time.Time        `json:"window_end"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// TableName overrides the table name used by gorm to `workload_report_rows`
func (WorkloadReportRow) TableName() string {
	return "workload_report_rows"
}
