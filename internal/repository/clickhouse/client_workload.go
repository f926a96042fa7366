package clickhouse

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rahmatrdn/go-ch-insight/entity"
)

// client_workload.go implements query-record fetching for clientImpl

// queryRecordsSQL reads finished initial user queries from system.query_log
// inside a half-open window. Internal housekeeping queries (non-initial
// queries and the server's own users) are excluded at the source; the
// analyzer never sees them.
const queryRecordsSQL = `
SELECT
    query_id,
    query_start_time,
    event_time,
    query_duration_ms,
    read_bytes
FROM system.query_log
WHERE
    type = 'QueryFinish'
    AND is_initial_query = 1
    AND user NOT IN ('system', '')
    AND event_time >= ?
    AND event_time < ?
ORDER BY query_start_time
`

// FetchQueryRecords returns one QueryRecord per finished query in
// [from, to). Rows the driver cannot scan are skipped with a log line
// rather than failing the whole fetch; malformed values that scan fine
// (e.g. end before start) are left for the analyzer to reject, so the
// rejection is visible in the report.
func (c *clientImpl) FetchQueryRecords(ctx context.Context, conn *entity.CHConnection, from, to time.Time) ([]entity.QueryRecord, error) {
	db, err := c.getConnection(conn)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, queryRecordsSQL, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []entity.QueryRecord
	for rows.Next() {
		var (
			queryID    string
			startTime  time.Time
			endTime    time.Time
			durationMs uint64
			readBytes  uint64
		)
		if err := rows.Scan(&queryID, &startTime, &endTime, &durationMs, &readBytes); err != nil {
			c.logger.Warn("skipping unscannable query_log row", zap.Error(err))
			continue
		}
		records = append(records, newQueryRecord(queryID, startTime, endTime, durationMs, readBytes))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// newQueryRecord maps one query_log row to the analyzer's input shape:
// millisecond durations widen to microseconds, read_bytes stands in for
// peak scan volume.
func newQueryRecord(queryID string, start, end time.Time, durationMs, readBytes uint64) entity.QueryRecord {
	return entity.QueryRecord{
		QueryID:             queryID,
		StartTime:           start.UTC(),
		EndTime:             end.UTC(),
		TotalExecTimeMicros: int64(durationMs) * 1000,
		MaxScanBytes:        int64(readBytes),
	}
}
