package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockedMySQLStorage(t *testing.T) (*MySQLStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewMySQLStorage(gormDb), mock
}

func TestMySQLStorage_GetHit(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockedMySQLStorage(t)

	mock.ExpectQuery("SELECT \\* FROM `key_values`").
		WithArgs("access_token").
		WillReturnRows(sqlmock.NewRows([]string{"k", "v"}).AddRow("access_token", "tok"))

	v, ok, err := store.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStorage_GetMiss(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockedMySQLStorage(t)

	mock.ExpectQuery("SELECT \\* FROM `key_values`").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"k", "v"}))

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStorage_SetUpserts(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockedMySQLStorage(t)

	mock.ExpectExec("INSERT INTO `key_values`").
		WithArgs("access_token", "tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set(ctx, "access_token", "tok"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStorage_Remove(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockedMySQLStorage(t)

	mock.ExpectExec("DELETE FROM `key_values`").
		WithArgs("access_token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Remove(ctx, "access_token"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStorage_KeysWithPrefix(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockedMySQLStorage(t)

	mock.ExpectQuery("SELECT `k` FROM `key_values`").
		WithArgs("youtube_analytics_%").
		WillReturnRows(sqlmock.NewRows([]string{"k"}).
			AddRow("youtube_analytics_a").
			AddRow("youtube_analytics_b"))

	keys, err := store.KeysWithPrefix(ctx, "youtube_analytics_")
	require.NoError(t, err)
	assert.Equal(t, []string{"youtube_analytics_a", "youtube_analytics_b"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}
