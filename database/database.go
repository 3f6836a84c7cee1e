package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"salescast/logging"
)

// ErrNoURL is returned when no database URL is configured.
var ErrNoURL = errors.New("DATABASE_URL is not set")

// Connect sets up the database connection pool and checks it with a ping.
func Connect(ctx context.Context, databaseURL string, logger *zap.Logger) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, ErrNoURL
	}
	logger = logging.OrNop(logger)

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("connected to the database")
	return pool, nil
}

// Close closes the database connection pool.
func Close(pool *pgxpool.Pool, logger *zap.Logger) {
	if pool == nil {
		return
	}
	pool.Close()
	logging.OrNop(logger).Info("database connection pool closed")
}
