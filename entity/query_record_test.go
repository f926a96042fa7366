package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueryRecord_Malformed(t *testing.T) {
	at := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		record    QueryRecord
		reason    MalformedReason
		malformed bool
	}{
		{
			name:   "well-formed",
			record: QueryRecord{StartTime: at, EndTime: at.Add(time.Second), TotalExecTimeMicros: 1, MaxScanBytes: 1},
		},
		{
			name:   "zero duration is valid",
			record: QueryRecord{StartTime: at, EndTime: at},
		},
		{
			name:      "end before start",
			record:    QueryRecord{StartTime: at, EndTime: at.Add(-time.Second)},
			reason:    ReasonEndBeforeStart,
			malformed: true,
		},
		{
			name:      "negative scan bytes",
			record:    QueryRecord{StartTime: at, EndTime: at, MaxScanBytes: -1},
			reason:    ReasonNegativeScan,
			malformed: true,
		},
		{
			name:      "negative exec time",
			record:    QueryRecord{StartTime: at, EndTime: at, TotalExecTimeMicros: -1},
			reason:    ReasonNegativeExecTime,
			malformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, bad := tt.record.Malformed()
			assert.Equal(t, tt.malformed, bad)
			assert.Equal(t, tt.reason, reason)
		})
	}
}
