package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	errwrap "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rahmatrdn/go-ch-insight/entity"
	"github.com/rahmatrdn/go-ch-insight/internal/analyzer"
	"github.com/rahmatrdn/go-ch-insight/internal/repository/clickhouse"
	"github.com/rahmatrdn/go-ch-insight/internal/repository/sqlite"
)

// rejectedLogLimit bounds the per-connection rejected-record history.
const rejectedLogLimit = 200

type WorkloadUsecase interface {
	GetUtilizationReport(ctx context.Context, connectionID int64, forceRefresh bool) (*entity.AggregateReport, *time.Time, error)
	GetRejectedRecords(ctx context.Context, connectionID int64) ([]*entity.RejectedRecord, error)
}

type workloadUsecase struct {
	reportRepo     sqlite.WorkloadReportRepository
	rejectedRepo   sqlite.RejectedRecordRepository
	connectionRepo sqlite.ConnectionRepository
	chClient       clickhouse.ClickHouseClient
	analyzer       *analyzer.Analyzer
	logger         *zap.Logger
	windowDays     int
	now            func() time.Time
}

func NewWorkloadUsecase(
	reportRepo sqlite.WorkloadReportRepository,
	rejectedRepo sqlite.RejectedRecordRepository,
	connectionRepo sqlite.ConnectionRepository,
	chClient clickhouse.ClickHouseClient,
	an *analyzer.Analyzer,
	logger *zap.Logger,
	windowDays int,
) WorkloadUsecase {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &workloadUsecase{
		reportRepo:     reportRepo,
		rejectedRepo:   rejectedRepo,
		connectionRepo: connectionRepo,
		chClient:       chClient,
		analyzer:       an,
		logger:         logger,
		windowDays:     windowDays,
		now:            time.Now,
	}
}

// GetUtilizationReport serves the cached sqlite snapshot unless a refresh
// is forced or no snapshot exists yet; otherwise it fetches the trailing
// window of query records, runs the analyzer and persists the result.
func (u *workloadUsecase) GetUtilizationReport(ctx context.Context, connectionID int64, forceRefresh bool) (*entity.AggregateReport, *time.Time, error) {
	funcName := "WorkloadUsecase.GetUtilizationReport"

	// 1. Serve the snapshot if we have one and no refresh was asked for.
	if !forceRefresh {
		existing, err := u.reportRepo.GetWorkloadReportRows(ctx, connectionID)
		if err != nil {
			return nil, nil, errwrap.Wrap(err, funcName)
		}
		if len(existing) > 0 {
			lastRef := existing[0].CreatedAt
			return reportFromRows(existing), &lastRef, nil
		}
	}

	// 2. Resolve the stored connection.
	conn, err := u.connectionRepo.FindByID(ctx, connectionID)
	if err != nil {
		return nil, nil, errwrap.Wrap(err, funcName)
	}
	if conn == nil {
		return nil, nil, ErrConnectionNotFound
	}

	// 3. Fetch the raw records and run the pipeline.
	window := analyzer.TrailingWindow(u.now(), u.windowDays)
	records, err := u.chClient.FetchQueryRecords(ctx, conn, window.Start, window.End)
	if err != nil {
		return nil, nil, errwrap.Wrap(err, funcName)
	}

	report, rejected, err := u.analyzer.Analyze(window.Start, window.End, records)
	if err != nil {
		return nil, nil, errwrap.Wrap(err, funcName)
	}
	if len(rejected) > 0 {
		u.logger.Warn("rejected malformed query records",
			zap.Int64("connection_id", connectionID),
			zap.Int("count", len(rejected)))
	}

	// 4. Persist the snapshot and the rejection log.
	now := u.now()
	batchID := uuid.NewString()
	if err := u.reportRepo.SaveWorkloadReportRows(ctx, connectionID, rowsFromReport(connectionID, batchID, report, now)); err != nil {
		return nil, nil, errwrap.Wrap(err, funcName)
	}
	if err := u.saveRejected(ctx, connectionID, rejected); err != nil {
		return nil, nil, errwrap.Wrap(err, funcName)
	}

	return report, &now, nil
}

func (u *workloadUsecase) GetRejectedRecords(ctx context.Context, connectionID int64) ([]*entity.RejectedRecord, error) {
	return u.rejectedRepo.FindByConnectionID(ctx, connectionID, rejectedLogLimit)
}

func (u *workloadUsecase) saveRejected(ctx context.Context, connectionID int64, rejected []entity.RejectedRecord) error {
	if len(rejected) == 0 {
		return nil
	}

	batch := make([]*entity.RejectedRecord, 0, len(rejected))
	for i := range rejected {
		rec := rejected[i]
		rec.ConnectionID = connectionID
		batch = append(batch, &rec)
	}
	if err := u.rejectedRepo.CreateBatch(ctx, batch); err != nil {
		return err
	}
	return u.rejectedRepo.Prune(ctx, connectionID, rejectedLogLimit)
}

// rowsFromReport flattens a report into its persisted per-category rows.
func rowsFromReport(connectionID int64, batchID string, report *entity.AggregateReport, now time.Time) []*entity.WorkloadReportRow {
	rows := make([]*entity.WorkloadReportRow, 0, len(entity.WorkloadCategories))
	for _, c := range entity.WorkloadCategories {
		stats := report.PerCategory[c]
		rows = append(rows, &entity.WorkloadReportRow{
			ConnectionID:          connectionID,
			BatchID:               batchID,
			Category:              c,
			QueryCount:            stats.Count,
			SumSec:                stats.SumSec,
			AvgSec:                stats.AvgSec,
			MinSec:                stats.MinSec,
			MaxSec:                stats.MaxSec,
			P95Sec:                stats.P95Sec,
			PctOfTotal:            stats.PctOfTotal,
			AvgDailyActivityPct:   report.PerDayAvgActivityPct[c],
			AvgDailyActiveMinutes: report.PerDayAvgActiveMinutes[c],
			TotalQueryCount:       report.TotalQueryCount,
			RejectedRecordCount:   report.RejectedRecordCount,
			WindowStart:           report.WindowStart,
			WindowEnd:             report.WindowEnd,
			CreatedAt:             now,
			UpdatedAt:             now,
		})
	}
	return rows
}

// reportFromRows reconstructs a report from a persisted snapshot. The
// per-day breakdown is not persisted, only its cross-day averages; a
// forced refresh recomputes the full report.
func reportFromRows(rows []*entity.WorkloadReportRow) *entity.AggregateReport {
	report := &entity.AggregateReport{
		PerCategory:            make(map[entity.WorkloadCategory]entity.CategoryStats, len(rows)),
		PerDayAvgActivityPct:   make(map[entity.WorkloadCategory]float64, len(rows)),
		PerDayAvgActiveMinutes: make(map[entity.WorkloadCategory]float64, len(rows)),
	}
	for _, row := range rows {
		report.PerCategory[row.Category] = entity.CategoryStats{
			Count:      row.QueryCount,
			SumSec:     row.SumSec,
			AvgSec:     row.AvgSec,
			MinSec:     row.MinSec,
			MaxSec:     row.MaxSec,
			P95Sec:     row.P95Sec,
			PctOfTotal: row.PctOfTotal,
		}
		report.PerDayAvgActivityPct[row.Category] = row.AvgDailyActivityPct
		report.PerDayAvgActiveMinutes[row.Category] = row.AvgDailyActiveMinutes
		report.TotalQueryCount = row.TotalQueryCount
		report.RejectedRecordCount = row.RejectedRecordCount
		report.WindowStart = row.WindowStart
		report.WindowEnd = row.WindowEnd
	}
	return report
}
