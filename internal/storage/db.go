package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tg-cognito/internal/config"
	"tg-cognito/internal/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Initialize opens the database described by the configuration and runs
// the schema migration for the registry table.
func Initialize(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg.Database, cfg.Logger.Level)
	if err != nil {
		return nil, err
	}

	if err := NewRegistrationRepository(db).MigrateTable(); err != nil {
		return nil, fmt.Errorf("failed to migrate registrations table: %w", err)
	}

	return db, nil
}

// Open connects to the configured driver and applies the pool settings.
func Open(cfg config.DatabaseConfig, logLevel string) (*gorm.DB, error) {
	dial, isSqlite, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{
		TranslateError: true,
		Logger:         NewCustomGormLogger(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	openConns := cfg.MaxOpenConns
	if isSqlite {
		// a second connection to ":memory:" would see an empty database
		openConns = 1
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if openConns > 0 {
		sqlDB.SetMaxOpenConns(openConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Infof("Database connection established (%s)", cfg.Driver)
	return db, nil
}

func dialector(cfg config.DatabaseConfig) (gorm.Dialector, bool, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
				cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.Charset)
		}
		logger.Infof("Connecting to mysql: %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
		return mysql.Open(dsn), false, nil

	case config.DriverPostgres:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBName, cfg.SSLMode)
		}
		logger.Infof("Connecting to postgres: %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
		return postgres.Open(dsn), false, nil

	case config.DriverSQLite:
		path := cfg.DSN
		if path == "" {
			path = cfg.Path
		}
		if path == "" {
			return nil, false, fmt.Errorf("sqlite database path is empty")
		}
		if !strings.HasPrefix(path, ":memory:") && !strings.HasPrefix(path, "file:") {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, false, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		logger.Infof("Opening sqlite database: %s", path)
		return sqlite.Open(path), true, nil

	default:
		return nil, false, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
