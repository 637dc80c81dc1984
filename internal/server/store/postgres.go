// Package store persists users, gifts, and categories in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/config"

	_ "github.com/lib/pq"
)

// Postgres wraps the SQL database connection.
type Postgres struct {
	DB *sql.DB
}

// NewPostgres opens a connection pool against the configured database.
func NewPostgres(cfg config.PostgresConfig) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &Postgres{DB: db}, nil
}

// NewPostgresWithDB wraps an existing handle, used by tests.
func NewPostgresWithDB(db *sql.DB) *Postgres {
	return &Postgres{DB: db}
}

// Ping tests the database connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

// Close closes the database connection.
func (p *Postgres) Close() error {
	if p.DB != nil {
		return p.DB.Close()
	}
	return nil
}
