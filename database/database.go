// Package database provides connection management for the signal-studio
// metadata store (PostgreSQL).
//
// Two connection paths exist, mirroring how they are used:
//   - a raw database/sql bootstrap connection (connection.go) that
//     verifies reachability and runs the schema DDL at startup
//   - a GORM connection used by the repositories for all row traffic
//
// Data models live in the models_pkg package to avoid circular import
// dependencies between the repositories and the packages that consume
// their records.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "signal-studio/database/models_pkg"
)

// Database holds the GORM connection shared by the repositories.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM instance for repository construction.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes the GORM connection using the same configuration
// as the bootstrap path.
func Connect(cfg Config) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the GORM connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Type aliases so callers holding a *Database don't need a second
// import for the record types.
type SignalMeta = models.SignalMeta
type TriggerEvent = models.TriggerEvent
type TriggerConfig = models.TriggerConfig
