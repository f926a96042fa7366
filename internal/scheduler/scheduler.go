package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/rahmatrdn/go-ch-insight/internal/queue"
	"github.com/rahmatrdn/go-ch-insight/internal/repository/sqlite"
	"github.com/rahmatrdn/go-ch-insight/internal/usecase"
)

// refreshTimeout bounds one full refresh pass across all connections.
const refreshTimeout = 10 * time.Minute

// Scheduler refreshes every stored connection's utilization report on a
// fixed interval and, when a publisher is configured, announces each
// completed refresh.
type Scheduler struct {
	s              gocron.Scheduler
	workload       usecase.WorkloadUsecase
	connectionRepo sqlite.ConnectionRepository
	publisher      *queue.Publisher
	logger         *zap.Logger
}

func New(
	interval time.Duration,
	workload usecase.WorkloadUsecase,
	connectionRepo sqlite.ConnectionRepository,
	publisher *queue.Publisher,
	logger *zap.Logger,
) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	sch := &Scheduler{
		s:              s,
		workload:       workload,
		connectionRepo: connectionRepo,
		publisher:      publisher,
		logger:         logger,
	}

	if _, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sch.refreshAll),
	); err != nil {
		return nil, err
	}

	return sch, nil
}

func (s *Scheduler) Start() {
	s.s.Start()
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	conns, err := s.connectionRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("scheduled refresh: listing connections failed", zap.Error(err))
		return
	}

	for _, conn := range conns {
		report, refreshedAt, err := s.workload.GetUtilizationReport(ctx, conn.ID, true)
		if err != nil {
			// One broken warehouse must not stop the rest of the pass.
			s.logger.Error("scheduled refresh failed",
				zap.Int64("connection_id", conn.ID),
				zap.String("connection", conn.Name),
				zap.Error(err))
			continue
		}

		s.logger.Info("workload report refreshed",
			zap.Int64("connection_id", conn.ID),
			zap.Int64("total_queries", report.TotalQueryCount),
			zap.Int("rejected", report.RejectedRecordCount))

		if s.publisher == nil {
			continue
		}
		ev := queue.ReportEvent{
			ConnectionID:        conn.ID,
			TotalQueryCount:     report.TotalQueryCount,
			RejectedRecordCount: report.RejectedRecordCount,
			WindowStart:         report.WindowStart,
			WindowEnd:           report.WindowEnd,
			RefreshedAt:         *refreshedAt,
		}
		if err := s.publisher.PublishRefresh(ctx, ev); err != nil {
			s.logger.Warn("publishing refresh event failed",
				zap.Int64("connection_id", conn.ID),
				zap.Error(err))
		}
	}
}
