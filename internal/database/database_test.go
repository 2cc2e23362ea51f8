package database_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/database"
)

func TestDB_PingAndClose(t *testing.T) {
	t.Parallel()

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectClose()

	db := database.NewFromSQLX(sqlx.NewDb(sqlDB, "postgres"), logger.NewNop())
	require.NoError(t, db.Ping(context.Background()))
	require.NoError(t, db.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_CloseNil(t *testing.T) {
	t.Parallel()

	require.NoError(t, database.NewFromSQLX(nil, logger.NewNop()).Close())
}
