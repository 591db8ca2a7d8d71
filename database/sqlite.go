package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"learnbase/logger"
	"learnbase/tags"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mattn/go-sqlite3"
)

// driverName is go-sqlite3 with the casefold and tag_text SQL functions.
const driverName = "sqlite3_learnbase"

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02 15:04:05.000000000"

//go:embed migrations/*.sql
var migrationFiles embed.FS

var DB *sql.DB

// execQuerier is satisfied by both *sql.DB and *sql.Tx.
type execQuerier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if err := conn.RegisterFunc("casefold", strings.ToLower, true); err != nil {
				return fmt.Errorf("registering casefold: %w", err)
			}
			if err := conn.RegisterFunc("tag_text", tagText, true); err != nil {
				return fmt.Errorf("registering tag_text: %w", err)
			}
			return nil
		},
	})
}

// tagText flattens a stored tag encoding to its values for searching.
func tagText(raw string) string {
	return strings.Join(tags.Normalize(raw), ", ")
}

func dbTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func InitDB(dataSourceName string) error {
	inMemory := dataSourceName == ":memory:"
	if !inMemory {
		dbDir := filepath.Dir(dataSourceName)
		if dbDir != "." && dbDir != "" {
			if err := os.MkdirAll(dbDir, 0750); err != nil {
				logger.Error("Failed to create database directory %s: %v", dbDir, err)
				return fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	db, err := sql.Open(driverName, dataSourceName+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		logger.Error("Failed to open database: %v", err)
		return fmt.Errorf("failed to open database: %w", err)
	}
	if inMemory {
		// Every new connection to :memory: would be a separate, empty database.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		logger.Error("Failed to connect to database: %v", err)
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return err
	}
	DB = db
	return nil
}

func migrateUp(db *sql.DB) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to initialize migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		logger.Error("Failed to initialize migrations: %v", err)
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	logger.Info("Applying database migrations...")
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Failed to apply migrations: %v", err)
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully (or no changes).")
	return nil
}

// Close releases the global connection pool.
func Close() error {
	if DB == nil {
		return nil
	}
	err := DB.Close()
	DB = nil
	return err
}

func columnExists(db *sql.DB, tableName string, columnName string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var typeStr string
		var notnull int
		var dfltValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &typeStr, &notnull, &dfltValue, &pk); err == nil {
			if name == columnName {
				return true, nil
			}
		}
	}
	return false, rows.Err()
}

func tableExists(db *sql.DB, tableName string) (bool, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", tableName).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", tableName, err)
	}
	return n > 0, nil
}

func isConstraintError(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == code
}

func requireDB() error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}
	return nil
}
