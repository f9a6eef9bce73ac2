// Package database manages the relational store: connection setup, schema
// migrations and the ownership-scoped Storage used by the services.
package database

import (
	"embed"
	"errors"
	"os"

	"github.com/vocabnest/vocabnest/config"
	"github.com/vocabnest/vocabnest/logger"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations
var migrationsFS embed.FS

var (
	db       *gorm.DB
	dbConfig *config.DatabaseConfig
)

// gooseLogger routes migration output to the application logger.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	logger.Infof(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...any) {
	logger.Errorf(format, v...)
	os.Exit(1)
}

func openDialector(c *config.DatabaseConfig) gorm.Dialector {
	switch {
	case c.IsPostgreSQL():
		return postgres.Open(c.GetDSN())
	case c.IsMySQL():
		return mysql.Open(c.GetDSN())
	default:
		return sqlite.Open(c.GetDSN())
	}
}

// gooseDialect returns the goose dialect and the embedded migration directory.
func gooseDialect(c *config.DatabaseConfig) (string, string) {
	switch {
	case c.IsPostgreSQL():
		return "postgres", "migrations/postgres"
	case c.IsMySQL():
		return "mysql", "migrations/mysql"
	default:
		return "sqlite3", "migrations/sqlite"
	}
}

// InitDB opens the configured database and brings its schema up to date.
func InitDB(c *config.DatabaseConfig) error {
	if err := c.ValidateConfig(); err != nil {
		return err
	}
	if err := c.EnsureDirectoryExists(); err != nil {
		return err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	gc := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}

	conn, err := gorm.Open(openDialector(c), gc)
	if err != nil {
		return err
	}
	db = conn
	dbConfig = c

	if c.IsSQLite() {
		if err := db.Exec("PRAGMA temp_store = MEMORY;").Error; err != nil {
			return err
		}
	}

	return Migrate()
}

// Migrate applies all pending schema migrations for the active dialect.
func Migrate() error {
	if db == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	dialect, dir := gooseDialect(dbConfig)

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.Up(sqlDB, dir)
}

func CloseDB() error {
	if db != nil {
		if err := Checkpoint(); err != nil {
			logger.Warningf("error executing checkpoint: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		err = sqlDB.Close()
		db = nil
		return err
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound)
}

// Checkpoint folds the SQLite write-ahead log into the main database file.
// It is a no-op for the server databases.
func Checkpoint() error {
	if db == nil || dbConfig == nil || !dbConfig.IsSQLite() {
		return nil
	}
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
