package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the raw bootstrap connection used for connectivity checks
// and schema setup before GORM takes over.
type DB struct {
	conn *sql.DB
}

// Config holds database configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// DSN renders the connection string for this configuration.
func (cfg Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName,
	)
}

// NewConnection opens the bootstrap connection and verifies the
// database is reachable.
func NewConnection(cfg Config) (*DB, error) {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Modest pool: this connection only runs schema setup and health checks.
	conn.SetMaxOpenConns(5)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")

	return &DB{conn: conn}, nil
}

// Migrate creates the metadata tables if they do not exist yet. Plain
// DDL instead of AutoMigrate so the schema is explicit and reviewable.
func (db *DB) Migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_metadata (
			id VARCHAR(36) PRIMARY KEY,
			signal_type VARCHAR(16) NOT NULL,
			sample_count INTEGER NOT NULL,
			frequency DECIMAL(15,6),
			amplitude DECIMAL(15,6),
			phase DECIMAL(15,6),
			duration DECIMAL(15,6),
			sample_rate DECIMAL(15,6),
			created_at TIMESTAMPTZ NOT NULL,
			original_signal_id VARCHAR(36),
			operation VARCHAR(16),
			cutoff_frequency DECIMAL(15,6),
			low_cutoff DECIMAL(15,6),
			high_cutoff DECIMAL(15,6),
			filter_order INTEGER,
			gain_factor DECIMAL(15,6)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signal_metadata_created_at ON signal_metadata (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_signal_metadata_original ON signal_metadata (original_signal_id)`,
		`CREATE TABLE IF NOT EXISTS trigger_events (
			id BIGSERIAL PRIMARY KEY,
			value DECIMAL(20,6) NOT NULL,
			threshold DECIMAL(20,6) NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trigger_events_timestamp ON trigger_events (timestamp)`,
		`CREATE TABLE IF NOT EXISTS trigger_config (
			id BIGINT PRIMARY KEY,
			threshold DECIMAL(20,6) NOT NULL,
			enabled BOOLEAN NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("Migrate: %w", err)
		}
	}

	log.Println("✅ Database schema ready")
	return nil
}

// Ping checks if the database connection is alive
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// Close closes the bootstrap connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
