// Package postgres provides a PostgreSQL-backed page cache for locsearch.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// DefaultConnectTimeout bounds establishing a connection.
	DefaultConnectTimeout = 5 * time.Second

	// DefaultQueryTimeout bounds a single cache statement.
	DefaultQueryTimeout = 5 * time.Second
)

// DB represents a PostgreSQL connection pool.
type DB struct {
	pool           *pgxpool.Pool
	dsn            string
	connectTimeout time.Duration
	queryTimeout   time.Duration
}

// Option configures a DB.
type Option func(*DB)

// WithConnectTimeout sets the connect timeout used when the connection
// string does not set connect_timeout. Defaults to DefaultConnectTimeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(db *DB) {
		db.connectTimeout = d
	}
}

// WithQueryTimeout sets the per-statement timeout. Defaults to DefaultQueryTimeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(db *DB) {
		db.queryTimeout = d
	}
}

// NewDB creates a new DB instance for the given connection string.
// Both URL ("postgres://...") and keyword/value forms are accepted.
func NewDB(dsn string, opts ...Option) *DB {
	db := &DB{
		dsn:            dsn,
		connectTimeout: DefaultConnectTimeout,
		queryTimeout:   DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Open connects to the database and creates the web_cache table if needed.
func (db *DB) Open(ctx context.Context) error {
	cfg, err := pgxpool.ParseConfig(db.dsn)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.ConnConfig.ConnectTimeout == 0 {
		cfg.ConnConfig.ConnectTimeout = db.connectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnConfig.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel = db.withQueryTimeout(ctx)
	defer cancel()
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS web_cache (
			url TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		pool.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	db.pool = pool
	return nil
}

// withQueryTimeout bounds ctx by the per-statement timeout.
func (db *DB) withQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.queryTimeout)
}

// Close closes all pooled connections.
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// ConnParams holds discrete connection parameters.
type ConnParams struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// DSN renders the parameters as a keyword/value connection string.
// Empty parameters are omitted so libpq defaults apply.
func (p ConnParams) DSN() string {
	pairs := []struct{ key, value string }{
		{"host", p.Host},
		{"port", p.Port},
		{"dbname", p.Name},
		{"user", p.User},
		{"password", p.Password},
	}

	var parts []string
	for _, kv := range pairs {
		if kv.value == "" {
			continue
		}
		parts = append(parts, kv.key+"="+quote(kv.value))
	}
	return strings.Join(parts, " ")
}

// quote escapes a keyword/value connection string value.
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
