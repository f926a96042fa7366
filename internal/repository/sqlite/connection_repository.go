package sqlite

import (
	"context"

	errwrap "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/rahmatrdn/go-ch-insight/entity"
	"github.com/rahmatrdn/go-ch-insight/internal/helper"
)

type ConnectionRepository interface {
	Create(ctx context.Context, conn *entity.CHConnection) error
	Update(ctx context.Context, conn *entity.CHConnection) error
	FindAll(ctx context.Context) ([]*entity.CHConnection, error)
	FindByID(ctx context.Context, id int64) (*entity.CHConnection, error)
	Delete(ctx context.Context, id int64) error
}

type connectionRepository struct {
	db        *gorm.DB
	secretKey string
}

func NewConnectionRepository(db *gorm.DB, secretKey string) ConnectionRepository {
	return &connectionRepository{db: db, secretKey: secretKey}
}

func (r *connectionRepository) Create(ctx context.Context, conn *entity.CHConnection) error {
	funcName := "ConnectionRepository.Create"
	if err := helper.CheckDeadline(ctx); err != nil {
		return errwrap.Wrap(err, funcName)
	}

	sealed, err := helper.Seal(conn.Password, r.secretKey)
	if err != nil {
		return errwrap.Wrap(err, funcName)
	}

	stored := *conn
	stored.Password = sealed
	if err := r.db.WithContext(ctx).Create(&stored).Error; err != nil {
		return errwrap.Wrap(err, funcName)
	}
	conn.ID = stored.ID
	conn.CreatedAt = stored.CreatedAt
	conn.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *connectionRepository) Update(ctx context.Context, conn *entity.CHConnection) error {
	funcName := "ConnectionRepository.Update"
	if err := helper.CheckDeadline(ctx); err != nil {
		return errwrap.Wrap(err, funcName)
	}

	sealed, err := helper.Seal(conn.Password, r.secretKey)
	if err != nil {
		return errwrap.Wrap(err, funcName)
	}

	stored := *conn
	stored.Password = sealed
	return errwrap.Wrap(r.db.WithContext(ctx).Save(&stored).Error, funcName)
}

func (r *connectionRepository) FindAll(ctx context.Context) ([]*entity.CHConnection, error) {
	funcName := "ConnectionRepository.FindAll"
	if err := helper.CheckDeadline(ctx); err != nil {
		return nil, errwrap.Wrap(err, funcName)
	}

	var conns []*entity.CHConnection
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Find(&conns).Error
	if err != nil {
		return nil, errwrap.Wrap(err, funcName)
	}

	for _, c := range conns {
		if err := r.unseal(c); err != nil {
			return nil, errwrap.Wrap(err, funcName)
		}
	}
	return conns, nil
}

func (r *connectionRepository) FindByID(ctx context.Context, id int64) (*entity.CHConnection, error) {
	funcName := "ConnectionRepository.FindByID"
	if err := helper.CheckDeadline(ctx); err != nil {
		return nil, errwrap.Wrap(err, funcName)
	}

	var conn entity.CHConnection
	err := r.db.WithContext(ctx).
		First(&conn, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errwrap.Wrap(err, funcName)
	}

	if err := r.unseal(&conn); err != nil {
		return nil, errwrap.Wrap(err, funcName)
	}
	return &conn, nil
}

func (r *connectionRepository) Delete(ctx context.Context, id int64) error {
	funcName := "ConnectionRepository.Delete"
	if err := helper.CheckDeadline(ctx); err != nil {
		return errwrap.Wrap(err, funcName)
	}

	return errwrap.Wrap(r.db.WithContext(ctx).Delete(&entity.CHConnection{}, id).Error, funcName)
}

func (r *connectionRepository) unseal(conn *entity.CHConnection) error {
	if conn.Password == "" {
		return nil
	}
	plain, err := helper.Open(conn.Password, r.secretKey)
	if err != nil {
		return err
	}
	conn.Password = plain
	return nil
}
