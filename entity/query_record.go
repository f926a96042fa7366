package entity

import "time"

// QueryRecord is a read-only snapshot of one finished warehouse query,
// as fetched from system.query_log. The analyzer never mutates it.
type QueryRecord struct {
	QueryID             string
	StartTime           time.Time
	EndTime             time.Time
	TotalExecTimeMicros int64
	MaxScanBytes        int64
}

// MalformedReason explains why a record was rejected before analysis.
type MalformedReason string

const (
	ReasonEndBeforeStart   MalformedReason = "end_before_start"
	ReasonNegativeScan     MalformedReason = "negative_scan_bytes"
	ReasonNegativeExecTime MalformedReason = "negative_exec_time"
)

// Malformed reports whether the record violates the source invariants
// (end_time >= start_time, non-negative counters). Malformed records
// must not enter the analysis pipeline.
func (r QueryRecord) Malformed() (MalformedReason, bool) {
	switch {
	case r.EndTime.Before(r.StartTime):
		return ReasonEndBeforeStart, true
	case r.MaxScanBytes < 0:
		return ReasonNegativeScan, true
	case r.TotalExecTimeMicros < 0:
		return ReasonNegativeExecTime, true
	}
	return "", false
}

// RejectedRecord is the audit entry kept for every malformed record,
// persisted per connection and pruned to a bounded history.
type RejectedRecord struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ConnectionID int64           `gorm:"index;not null" json:"connection_id"`
	QueryID      string          `gorm:"type:text;not null" json:"query_id"`
	Reason       MalformedReason `gorm:"type:text;not null" json:"reason"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
