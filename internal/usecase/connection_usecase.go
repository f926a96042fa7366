package usecase

import (
	"context"
	"time"

	"github.com/rahmatrdn/go-ch-insight/entity"
	"github.com/rahmatrdn/go-ch-insight/internal/repository/clickhouse"
	"github.com/rahmatrdn/go-ch-insight/internal/repository/sqlite"
)

type ConnectionUsecase struct {
	repo     sqlite.ConnectionRepository
	chClient clickhouse.ClickHouseClient
}

func NewConnectionUsecase(repo sqlite.ConnectionRepository, chClient clickhouse.ClickHouseClient) *ConnectionUsecase {
	return &ConnectionUsecase{
		repo:     repo,
		chClient: chClient,
	}
}

func (u *ConnectionUsecase) CreateConnection(ctx context.Context, conn *entity.CHConnection) error {
	conn.CreatedAt = time.Now()
	conn.UpdatedAt = time.Now()

	// Reject unreachable warehouses before saving.
	if err := u.chClient.Ping(ctx, conn); err != nil {
		return err
	}

	// Fetch and save server info
	info, err := u.chClient.GetServerInfo(ctx, conn)
	if err == nil {
		conn.ServerInfo = info
	}

	return u.repo.Create(ctx, conn)
}

func (u *ConnectionUsecase) UpdateConnection(ctx context.Context, id int64, conn *entity.CHConnection) error {
	existing, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrConnectionNotFound
	}

	conn.ID = id
	conn.UpdatedAt = time.Now()
	conn.CreatedAt = existing.CreatedAt // Preserve created_at

	if err := u.chClient.Ping(ctx, conn); err != nil {
		return err
	}

	info, err := u.chClient.GetServerInfo(ctx, conn)
	if err == nil {
		conn.ServerInfo = info
	}

	return u.repo.Update(ctx, conn)
}

func (u *ConnectionUsecase) GetAllConnections(ctx context.Context) ([]*entity.CHConnection, error) {
	return u.repo.FindAll(ctx)
}

func (u *ConnectionUsecase) GetConnection(ctx context.Context, id int64) (*entity.CHConnection, error) {
	return u.repo.FindByID(ctx, id)
}

func (u *ConnectionUsecase) DeleteConnection(ctx context.Context, id int64) error {
	return u.repo.Delete(ctx, id)
}

func (u *ConnectionUsecase) TestConnection(ctx context.Context, id int64) error {
	conn, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if conn == nil {
		return ErrConnectionNotFound
	}
	return u.chClient.Ping(ctx, conn)
}
