package sqlite

import (
	"context"

	errwrap "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/rahmatrdn/go-ch-insight/entity"
	"github.com/rahmatrdn/go-ch-insight/internal/helper"
)

type WorkloadReportRepository interface {
	GetWorkloadReportRows(ctx context.Context, connectionID int64) ([]*entity.WorkloadReportRow, error)
	SaveWorkloadReportRows(ctx context.Context, connectionID int64, rows []*entity.WorkloadReportRow) error
}

type workloadReportRepo struct {
	db *gorm.DB
}

func NewWorkloadReportRepository(db *gorm.DB) WorkloadReportRepository {
	return &workloadReportRepo{db: db}
}

// GetWorkloadReportRows returns the latest persisted snapshot (one row per
// workload category) for a connection.
func (r *workloadReportRepo) GetWorkloadReportRows(ctx context.Context, connectionID int64) ([]*entity.WorkloadReportRow, error) {
	funcName := "WorkloadReportRepository.GetWorkloadReportRows"
	if err := helper.CheckDeadline(ctx); err != nil {
		return nil, errwrap.Wrap(err, funcName)
	}

	var rows []*entity.WorkloadReportRow
	err := r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("category ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errwrap.Wrap(err, funcName)
	}

	return rows, nil
}

// SaveWorkloadReportRows replaces a connection's snapshot atomically: the
// previous batch is deleted and the new one inserted in one transaction,
// so readers never observe a half-written report.
func (r *workloadReportRepo) SaveWorkloadReportRows(ctx context.Context, connectionID int64, rows []*entity.WorkloadReportRow) error {
	funcName := "WorkloadReportRepository.SaveWorkloadReportRows"
	if err := helper.CheckDeadline(ctx); err != nil {
		return errwrap.Wrap(err, funcName)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("connection_id = ?", connectionID).Delete(&entity.WorkloadReportRow{}).Error; err != nil {
			return errwrap.Wrap(err, funcName)
		}

		if len(rows) > 0 {
			if err := tx.Create(rows).Error; err != nil {
				return errwrap.Wrap(err, funcName)
			}
		}
		return nil
	})
}
