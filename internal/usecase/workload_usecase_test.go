package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rahmatrdn/go-ch-insight/entity"
	"github.com/rahmatrdn/go-ch-insight/internal/analyzer"
	"github.com/rahmatrdn/go-ch-insight/internal/repository/sqlite"
)

type fakeCHClient struct {
	records    []entity.QueryRecord
	fetchErr   error
	fetchCalls int
}

func (f *fakeCHClient) Ping(ctx context.Context, conn *entity.CHConnection) error { return nil }

func (f *fakeCHClient) GetServerInfo(ctx context.Context, conn *entity.CHConnection) (string, error) {
	return "ClickHouse Server 24.1 (UTC)", nil
}

func (f *fakeCHClient) FetchQueryRecords(ctx context.Context, conn *entity.CHConnection, from, to time.Time) ([]entity.QueryRecord, error) {
	f.fetchCalls++
	return f.records, f.fetchErr
}

func (f *fakeCHClient) Close() error { return nil }

type workloadFixture struct {
	usecase      WorkloadUsecase
	client       *fakeCHClient
	connectionID int64
}

func newWorkloadFixture(t *testing.T, records []entity.QueryRecord) *workloadFixture {
	t.Helper()

	db, err := gorm.Open(sqlitedriver.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.CHConnection{},
		&entity.WorkloadReportRow{},
		&entity.RejectedRecord{},
	))

	connectionRepo := sqlite.NewConnectionRepository(db, "test-key")
	conn := &entity.CHConnection{Name: "test", Host: "localhost", Port: 9000, Username: "u", Password: "p"}
	require.NoError(t, connectionRepo.Create(context.Background(), conn))

	client := &fakeCHClient{records: records}
	u := NewWorkloadUsecase(
		sqlite.NewWorkloadReportRepository(db),
		sqlite.NewRejectedRecordRepository(db),
		connectionRepo,
		client,
		analyzer.New(time.Minute),
		zap.NewNop(),
		7,
	)
	return &workloadFixture{usecase: u, client: client, connectionID: conn.ID}
}

func testRecords(now time.Time) []entity.QueryRecord {
	start := now.Add(-2 * time.Hour)
	return []entity.QueryRecord{
		{QueryID: "q1", StartTime: start, EndTime: start.Add(2 * time.Second), TotalExecTimeMicros: 2_000_000, MaxScanBytes: 1000},
		{QueryID: "q2", StartTime: start, EndTime: start.Add(10 * time.Second), TotalExecTimeMicros: 10_000_000, MaxScanBytes: 200_000_000},
	}
}

func TestWorkloadUsecase_RefreshAndCache(t *testing.T) {
	f := newWorkloadFixture(t, testRecords(time.Now().UTC()))
	ctx := context.Background()

	// First call finds no snapshot and refreshes.
	report, lastRefresh, err := f.usecase.GetUtilizationReport(ctx, f.connectionID, false)
	require.NoError(t, err)
	require.NotNil(t, lastRefresh)
	assert.Equal(t, 1, f.client.fetchCalls)
	assert.Equal(t, int64(2), report.TotalQueryCount)
	assert.Equal(t, int64(1), report.PerCategory[entity.WorkloadSmall].Count)
	assert.Equal(t, int64(1), report.PerCategory[entity.WorkloadMedium].Count)

	// Second call serves the sqlite snapshot without touching ClickHouse.
	cached, _, err := f.usecase.GetUtilizationReport(ctx, f.connectionID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, f.client.fetchCalls)
	assert.Equal(t, report.PerCategory, cached.PerCategory)
	assert.Equal(t, report.TotalQueryCount, cached.TotalQueryCount)

	// Forced refresh goes back to the warehouse.
	_, _, err = f.usecase.GetUtilizationReport(ctx, f.connectionID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, f.client.fetchCalls)
}

func TestWorkloadUsecase_ConnectionNotFound(t *testing.T) {
	f := newWorkloadFixture(t, nil)

	_, _, err := f.usecase.GetUtilizationReport(context.Background(), 9999, true)
	assert.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestWorkloadUsecase_PersistsRejectedRecords(t *testing.T) {
	now := time.Now().UTC()
	records := testRecords(now)
	records = append(records, entity.QueryRecord{
		QueryID:   "bad",
		StartTime: now,
		EndTime:   now.Add(-time.Minute),
	})
	f := newWorkloadFixture(t, records)
	ctx := context.Background()

	report, _, err := f.usecase.GetUtilizationReport(ctx, f.connectionID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.TotalQueryCount)
	assert.Equal(t, 1, report.RejectedRecordCount)
	assert.Equal(t, []string{"bad"}, report.RejectedQueryIDs)

	logged, err := f.usecase.GetRejectedRecords(ctx, f.connectionID)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, "bad", logged[0].QueryID)
	assert.Equal(t, entity.ReasonEndBeforeStart, logged[0].Reason)
	assert.Equal(t, f.connectionID, logged[0].ConnectionID)
}

func TestWorkloadUsecase_FetchErrorPropagates(t *testing.T) {
	f := newWorkloadFixture(t, nil)
	f.client.fetchErr = assert.AnError

	_, _, err := f.usecase.GetUtilizationReport(context.Background(), f.connectionID, true)
	assert.ErrorIs(t, err, assert.AnError)
}
