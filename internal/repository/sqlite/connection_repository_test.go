package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahmatrdn/go-ch-insight/entity"
)

const testSecretKey = "unit-test-secret"

func TestConnectionRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewConnectionRepository(db, testSecretKey)
	ctx := context.Background()

	conn := &entity.CHConnection{
		Name:     "staging",
		Host:     "ch.internal",
		Port:     9000,
		Username: "insight",
		Password: "s3cret",
	}
	require.NoError(t, repo.Create(ctx, conn))
	require.NotZero(t, conn.ID)

	// Stored form must not contain the plaintext password.
	var raw entity.CHConnection
	require.NoError(t, db.First(&raw, conn.ID).Error)
	assert.NotEqual(t, "s3cret", raw.Password)
	assert.NotEmpty(t, raw.Password)

	// Read path unseals it again.
	found, err := repo.FindByID(ctx, conn.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "s3cret", found.Password)
	assert.Equal(t, "staging", found.Name)
}

func TestConnectionRepository_FindByIDMissing(t *testing.T) {
	repo := NewConnectionRepository(newTestDB(t), testSecretKey)

	found, err := repo.FindByID(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestConnectionRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewConnectionRepository(db, testSecretKey)
	ctx := context.Background()

	conn := &entity.CHConnection{Name: "old", Host: "a", Port: 9000, Username: "u", Password: "p"}
	require.NoError(t, repo.Create(ctx, conn))

	conn.Name = "new"
	conn.Password = "p2"
	require.NoError(t, repo.Update(ctx, conn))

	found, err := repo.FindByID(ctx, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", found.Name)
	assert.Equal(t, "p2", found.Password)

	require.NoError(t, repo.Delete(ctx, conn.ID))
	found, err = repo.FindByID(ctx, conn.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestConnectionRepository_CancelledContext(t *testing.T) {
	repo := NewConnectionRepository(newTestDB(t), testSecretKey)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Create(ctx, &entity.CHConnection{Name: "x", Host: "h", Port: 1, Username: "u"})
	assert.Error(t, err)
}
