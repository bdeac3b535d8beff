package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS properties").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, EnsureSchema(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))
	err = EnsureSchema(context.Background(), db)
	require.ErrorContains(t, err, "failed to apply schema")
}

func TestConfigDSN(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: 5432, User: "registry", Password: "dev", Database: "rentalregistry"}
	require.Equal(t, "host=localhost port=5432 user=registry password=dev dbname=rentalregistry sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	require.Contains(t, cfg.DSN(), "sslmode=require")
}

func TestOrDefault(t *testing.T) {
	require.Equal(t, 25, orDefault(0, 25))
	require.Equal(t, 10, orDefault(10, 25))
	require.Equal(t, 5*time.Minute, orDefault(time.Duration(0), 5*time.Minute))
}

func TestApplyPoolLimits(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	applyPoolLimits(db, &Config{})
	require.Equal(t, 25, db.Stats().MaxOpenConnections)

	applyPoolLimits(db, &Config{MaxOpenConns: 7})
	require.Equal(t, 7, db.Stats().MaxOpenConnections)
}

func TestOpenGorm(t *testing.T) {
	db, err := OpenGorm("sqlite", filepath.Join(t.TempDir(), "open.db"), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
	require.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())

	_, err = OpenGorm("oracle", "", nil)
	require.ErrorContains(t, err, "unsupported gorm driver")
}
