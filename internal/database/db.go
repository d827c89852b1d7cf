// Package database provides the sqlite-backed repositories for media records
// and lists. Migrations are embedded and applied with goose on startup.
package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDatabasePathRequired is returned when no sqlite path is configured.
var ErrDatabasePathRequired = errors.New("database path not provided")

// Config holds database connection settings.
type Config struct {
	DatabasePath string
}

// DB owns the sqlite connection and exposes the repositories built on it.
type DB struct {
	conn  *sql.DB
	Media *MediaRepository
	Lists *ListRepository
}

// NewDB opens (creating if needed) the sqlite database at the configured path
// and runs any pending migrations.
func NewDB(cfg Config) (*DB, error) {
	path := strings.TrimSpace(cfg.DatabasePath)
	if path == "" {
		return nil, ErrDatabasePathRequired
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// sqlite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY churn between the repositories.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DB{
		conn:  conn,
		Media: NewMediaRepository(conn),
		Lists: NewListRepository(conn),
	}, nil
}

// Connection exposes the underlying *sql.DB.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
