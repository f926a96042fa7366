package clickhouse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/rahmatrdn/go-ch-insight/entity"
)

type ClickHouseClient interface {
	Ping(ctx context.Context, conn *entity.CHConnection) error
	GetServerInfo(ctx context.Context, conn *entity.CHConnection) (string, error)
	FetchQueryRecords(ctx context.Context, conn *entity.CHConnection, from, to time.Time) ([]entity.QueryRecord, error)
	Close() error
}

type clientImpl struct {
	logger *zap.Logger

	mu    sync.Mutex
	conns map[int64]driver.Conn
}

func NewClient(logger *zap.Logger) *clientImpl {
	return &clientImpl{
		logger: logger,
		conns:  make(map[int64]driver.Conn),
	}
}

// getConnection returns a cached native connection for the stored
// connection, dialing on first use.
func (c *clientImpl) getConnection(conn *entity.CHConnection) (driver.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if db, ok := c.conns[conn.ID]; ok {
		return db, nil
	}

	db, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{conn.Addr()},
		Auth: clickhouse.Auth{
			Database: conn.Database,
			Username: conn.Username,
			Password: conn.Password,
		},
	})
	if err != nil {
		return nil, err
	}

	c.conns[conn.ID] = db
	return db, nil
}

func (c *clientImpl) Ping(ctx context.Context, conn *entity.CHConnection) error {
	db, err := c.getConnection(conn)
	if err != nil {
		return err
	}
	return db.Ping(ctx)
}

// GetServerInfo returns a short human-readable server description.
// Falls back to a version-only query on servers without displayName().
func (c *clientImpl) GetServerInfo(ctx context.Context, conn *entity.CHConnection) (string, error) {
	db, err := c.getConnection(conn)
	if err != nil {
		return "", err
	}

	var version, timezone, displayName string
	var uptime uint64
	if err := db.QueryRow(ctx, "SELECT version(), uptime(), timezone(), displayName()").
		Scan(&version, &uptime, &timezone, &displayName); err != nil {
		if err2 := db.QueryRow(ctx, "SELECT version()").Scan(&version); err2 != nil {
			return "", err2
		}
		displayName = "ClickHouse Server"
	}

	return fmt.Sprintf("%s %s (%s)", displayName, version, timezone), nil
}

func (c *clientImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for id, db := range c.conns {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.conns, id)
	}
	return firstErr
}
