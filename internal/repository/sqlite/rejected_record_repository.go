package sqlite

import (
	"context"

	errwrap "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/rahmatrdn/go-ch-insight/entity"
	"github.com/rahmatrdn/go-ch-insight/internal/helper"
)

type RejectedRecordRepository interface {
	CreateBatch(ctx context.Context, records []*entity.RejectedRecord) error
	FindByConnectionID(ctx context.Context, connectionID int64, limit int) ([]*entity.RejectedRecord, error)
	Prune(ctx context.Context, connectionID int64, maxLimit int) error
}

type RejectedRecordLog struct {
	db *gorm.DB
}

func NewRejectedRecordRepository(db *gorm.DB) *RejectedRecordLog {
	return &RejectedRecordLog{db: db}
}

func (r *RejectedRecordLog) CreateBatch(ctx context.Context, records []*entity.RejectedRecord) error {
	funcName := "RejectedRecordRepository.CreateBatch"
	if err := helper.CheckDeadline(ctx); err != nil {
		return errwrap.Wrap(err, funcName)
	}
	if len(records) == 0 {
		return nil
	}

	return errwrap.Wrap(r.db.WithContext(ctx).Create(records).Error, funcName)
}

func (r *RejectedRecordLog) FindByConnectionID(ctx context.Context, connectionID int64, limit int) ([]*entity.RejectedRecord, error) {
	funcName := "RejectedRecordRepository.FindByConnectionID"
	if err := helper.CheckDeadline(ctx); err != nil {
		return nil, errwrap.Wrap(err, funcName)
	}

	var records []*entity.RejectedRecord
	// Order by CreatedAt DESC to get the latest rejections
	err := r.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, errwrap.Wrap(err, funcName)
	}
	return records, nil
}

// Prune keeps only the most recent maxLimit rejections per connection.
// DELETE ... WHERE id NOT IN (SELECT id ... ORDER BY created_at DESC LIMIT ?)
func (r *RejectedRecordLog) Prune(ctx context.Context, connectionID int64, maxLimit int) error {
	funcName := "RejectedRecordRepository.Prune"
	if err := helper.CheckDeadline(ctx); err != nil {
		return errwrap.Wrap(err, funcName)
	}

	return errwrap.Wrap(r.db.WithContext(ctx).
		Where("connection_id = ? AND id NOT IN (?)", connectionID,
			r.db.Model(&entity.RejectedRecord{}).
				Select("id").
				Where("connection_id = ?", connectionID).
				Order("created_at desc").
				Limit(maxLimit),
		).
		Delete(&entity.RejectedRecord{}).Error, funcName)
}
