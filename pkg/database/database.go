package database

import (
	"fmt"
	"time"

	"trade-journal/config"
	"trade-journal/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB is a wrapper around the gorm.DB client.
type DB struct {
	*gorm.DB
	log *logger.Logger
}

// DSN builds the postgres connection string used by both gorm and golang-migrate.
func DSN(cfg config.Database) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode)
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "Silent":
		return gormlogger.Silent
	case "Error":
		return gormlogger.Error
	case "Warn":
		return gormlogger.Warn
	case "Info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func dialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		dsn := DSN(cfg)
		if cfg.TimeZone != "" {
			dsn += "&TimeZone=" + cfg.TimeZone
		}
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewDB opens a GORM connection for the configured driver.
func NewDB(cfg config.Database, log *logger.Logger) (*DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime != "" {
		duration, err := time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("invalid connection max lifetime format '%s': %w", cfg.ConnMaxLifetime, err)
		}
		sqlDB.SetConnMaxLifetime(duration)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	log.Info("Connected to database", logger.StringField("driver", cfg.Driver))
	return &DB{DB: db, log: log}, nil
}

// Close closes the underlying *sql.DB connection pool.
func (d *DB) Close() error {
	if d.DB != nil {
		sqlDB, err := d.DB.DB()
		d.log.Info("Closing database connection")
		if err != nil {
			return fmt.Errorf("failed to get underlying sql.DB from GORM for closing: %w", err)
		}
		return sqlDB.Close()
	}
	return nil
}
