// Package database opens the application database described by the resolved
// connection descriptor.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"

	"github.com/alx-travel/alx-travel-app/internal/config"
)

const defaultPingTimeout = 3 * time.Second

// ErrUnsupportedEngine is returned for engines without a wired driver.
var ErrUnsupportedEngine = errors.New("database engine not supported")

// Open connects to the database named by desc and verifies connectivity.
func Open(ctx context.Context, desc config.ConnectionDescriptor, logger *zap.Logger) (*bun.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		db  *bun.DB
		err error
	)
	switch desc.Engine {
	case config.EngineSQLite:
		db, err = openSQLite(ctx, desc, logger)
	case config.EnginePostgres:
		db, err = openPostgres(desc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEngine, desc.Engine)
	}
	if err != nil {
		return nil, err
	}

	if err := Ping(ctx, db, defaultPingTimeout); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", desc, err)
	}

	logger.Info("database connected",
		zap.String("engine", string(desc.Engine)),
		zap.String("database", desc.String()),
	)
	return db, nil
}

// Ping checks connectivity within timeout.
func Ping(parent context.Context, db *bun.DB, timeout time.Duration) error {
	if db == nil {
		return errors.New("database: not configured")
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	return db.PingContext(ctx)
}

func openSQLite(ctx context.Context, desc config.ConnectionDescriptor, logger *zap.Logger) (*bun.DB, error) {
	if err := ensureSQLiteDir(desc); err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(sqliteshim.DriverName(), desc.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: open sqlite: %w", err)
	}
	if desc.IsMemory() {
		// every pooled connection would otherwise see its own empty database
		sqldb.SetMaxOpenConns(1)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := sqldb.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		logger.Warn("database: enable sqlite foreign keys", zap.Error(err))
	}
	return db, nil
}

func openPostgres(desc config.ConnectionDescriptor) (*bun.DB, error) {
	sqldb, err := sql.Open("pgx", desc.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: open postgres: %w", err)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func ensureSQLiteDir(desc config.ConnectionDescriptor) error {
	if desc.IsMemory() || desc.Name == "" {
		return nil
	}
	dir := filepath.Dir(desc.Name)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("database: create sqlite dir: %w", err)
	}
	return nil
}
