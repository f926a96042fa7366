package clickhouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewQueryRecord_Mapping(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	start := time.Date(2026, 8, 20, 17, 0, 0, 0, loc)
	end := start.Add(3 * time.Second)

	rec := newQueryRecord("query-1", start, end, 3125, 42_000_000)

	assert.Equal(t, "query-1", rec.QueryID)
	// Millisecond durations widen to microseconds.
	assert.Equal(t, int64(3_125_000), rec.TotalExecTimeMicros)
	assert.Equal(t, int64(42_000_000), rec.MaxScanBytes)
	// Timestamps normalize to UTC for bucket/day alignment.
	assert.Equal(t, time.UTC, rec.StartTime.Location())
	assert.True(t, rec.StartTime.Equal(start))
	assert.True(t, rec.EndTime.Equal(end))
}

func TestQueryRecordsSQL_Shape(t *testing.T) {
	// The fetch must pre-filter to finished, initial, non-internal
	// queries; the analyzer relies on the source doing this.
	assert.Contains(t, queryRecordsSQL, "type = 'QueryFinish'")
	assert.Contains(t, queryRecordsSQL, "is_initial_query = 1")
	assert.Contains(t, queryRecordsSQL, "system.query_log")
}
