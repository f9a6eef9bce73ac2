package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DatabaseType represents the type of database
type DatabaseType string

const (
	DatabaseTypeSQLite     DatabaseType = "sqlite"
	DatabaseTypePostgreSQL DatabaseType = "postgres"
	DatabaseTypeMySQL      DatabaseType = "mysql"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type     DatabaseType   `json:"type"`
	SQLite   SQLiteConfig   `json:"sqlite"`
	Postgres PostgresConfig `json:"postgres"`
	MySQL    MySQLConfig    `json:"mysql"`
}

// SQLiteConfig holds SQLite specific configuration
type SQLiteConfig struct {
	Path string `json:"path"`
}

// PostgresConfig holds PostgreSQL specific configuration
type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
	TimeZone string `json:"timeZone"`
}

// MySQLConfig holds MySQL specific configuration
type MySQLConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// GetDSN returns the data source name for the database
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case DatabaseTypePostgreSQL:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
			c.Postgres.Host,
			c.Postgres.Username,
			c.Postgres.Password,
			c.Postgres.Database,
			c.Postgres.Port,
			c.Postgres.SSLMode,
			c.Postgres.TimeZone,
		)
	case DatabaseTypeMySQL:
		// parseTime maps DATETIME columns onto time.Time
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
			c.MySQL.Username,
			c.MySQL.Password,
			c.MySQL.Host,
			c.MySQL.Port,
			c.MySQL.Database,
		)
	default:
		// foreign keys must be enabled per connection, so they go into the DSN
		return c.SQLite.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=5000"
	}
}

// GetDefaultDatabaseConfig returns default database configuration
func GetDefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type: DatabaseTypeSQLite,
		SQLite: SQLiteConfig{
			Path: getDefaultSQLitePath(),
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "vocabnest",
			Username: "vocabnest",
			Password: "",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		MySQL: MySQLConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "vocabnest",
			Username: "vocabnest",
		},
	}
}

// GetDatabaseConfig builds the database configuration from VOCAB_DB_*,
// VOCAB_PG_* and VOCAB_MYSQL_* environment variables on top of the defaults
// and validates the result.
func GetDatabaseConfig() (*DatabaseConfig, error) {
	c := GetDefaultDatabaseConfig()
	if t := os.Getenv("VOCAB_DB_TYPE"); t != "" {
		c.Type = DatabaseType(t)
	}
	if p := os.Getenv("VOCAB_DB_PATH"); p != "" {
		c.SQLite.Path = p
	}

	setString(&c.Postgres.Host, "VOCAB_PG_HOST")
	c.Postgres.Port = getInt("VOCAB_PG_PORT", c.Postgres.Port)
	setString(&c.Postgres.Database, "VOCAB_PG_DATABASE")
	setString(&c.Postgres.Username, "VOCAB_PG_USER")
	setString(&c.Postgres.Password, "VOCAB_PG_PASSWORD")
	setString(&c.Postgres.SSLMode, "VOCAB_PG_SSLMODE")
	setString(&c.Postgres.TimeZone, "VOCAB_PG_TIMEZONE")

	setString(&c.MySQL.Host, "VOCAB_MYSQL_HOST")
	c.MySQL.Port = getInt("VOCAB_MYSQL_PORT", c.MySQL.Port)
	setString(&c.MySQL.Database, "VOCAB_MYSQL_DATABASE")
	setString(&c.MySQL.Username, "VOCAB_MYSQL_USER")
	setString(&c.MySQL.Password, "VOCAB_MYSQL_PASSWORD")

	if err := c.ValidateConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// NewSQLiteConfig returns a SQLite configuration for the given file.
func NewSQLiteConfig(path string) *DatabaseConfig {
	c := GetDefaultDatabaseConfig()
	c.Type = DatabaseTypeSQLite
	c.SQLite.Path = path
	return c
}

// getDefaultSQLitePath returns the default SQLite database path
func getDefaultSQLitePath() string {
	if IsDebug() {
		return "db/vocabnest.db"
	}
	return GetDBPath()
}

// ValidateConfig validates the database configuration
func (c *DatabaseConfig) ValidateConfig() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLite path cannot be empty")
		}
	case DatabaseTypePostgreSQL:
		return validateServer("PostgreSQL", c.Postgres.Host, c.Postgres.Database, c.Postgres.Username, c.Postgres.Port)
	case DatabaseTypeMySQL:
		return validateServer("MySQL", c.MySQL.Host, c.MySQL.Database, c.MySQL.Username, c.MySQL.Port)
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

func validateServer(name, host, database, username string, port int) error {
	if host == "" {
		return fmt.Errorf("%s host cannot be empty", name)
	}
	if database == "" {
		return fmt.Errorf("%s database name cannot be empty", name)
	}
	if username == "" {
		return fmt.Errorf("%s username cannot be empty", name)
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s port must be between 1 and 65535", name)
	}
	return nil
}

// IsPostgreSQL returns true if the database type is PostgreSQL
func (c *DatabaseConfig) IsPostgreSQL() bool {
	return c.Type == DatabaseTypePostgreSQL
}

// IsMySQL returns true if the database type is MySQL
func (c *DatabaseConfig) IsMySQL() bool {
	return c.Type == DatabaseTypeMySQL
}

// IsSQLite returns true if the database type is SQLite
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Type == DatabaseTypeSQLite
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	if c.Type == DatabaseTypeSQLite {
		dir := filepath.Dir(c.SQLite.Path)
		return os.MkdirAll(dir, 0o750)
	}
	return nil
}
