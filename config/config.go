// Package config provides environment-driven configuration for the vocabnest server.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

const (
	defaultPort             = 5000
	defaultSessionMaxAge    = 7 * 24 * 60 // minutes
	defaultLoginRateLimit   = 10
	defaultPublicDir        = "public"
	defaultSessionCookieKey = "vocabnest"
)

// LoadEnv reads a .env file from the working directory, if present.
// Variables already set in the environment take precedence.
func LoadEnv() {
	_ = godotenv.Load()
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("VOCAB_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("VOCAB_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("VOCAB_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/vocabnest"
	}
	return dbFolderPath
}

func GetDBPath() string {
	if p := os.Getenv("VOCAB_DB_PATH"); p != "" {
		return p
	}
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("VOCAB_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

func GetListen() string {
	return os.Getenv("VOCAB_LISTEN")
}

func GetPort() int {
	return getInt("VOCAB_PORT", defaultPort)
}

func GetCertFile() string {
	return os.Getenv("VOCAB_CERT_FILE")
}

func GetKeyFile() string {
	return os.Getenv("VOCAB_KEY_FILE")
}

func GetWebDomain() string {
	return os.Getenv("VOCAB_WEB_DOMAIN")
}

func GetPublicDir() string {
	dir := os.Getenv("VOCAB_PUBLIC_DIR")
	if dir == "" {
		dir = defaultPublicDir
	}
	return dir
}

// GetSessionSecret returns the key used to sign session cookies.
// An empty value makes the server generate a per-process key.
func GetSessionSecret() string {
	return os.Getenv("VOCAB_SESSION_SECRET")
}

func GetSessionCookieName() string {
	if v := os.Getenv("VOCAB_SESSION_COOKIE"); v != "" {
		return v
	}
	return defaultSessionCookieKey
}

// GetSessionMaxAge returns the session idle timeout in minutes.
func GetSessionMaxAge() int {
	v := getInt("VOCAB_SESSION_MAX_AGE", defaultSessionMaxAge)
	if v <= 0 {
		return defaultSessionMaxAge
	}
	return v
}

func IsCookieSecure() bool {
	return os.Getenv("VOCAB_COOKIE_SECURE") == "true"
}

func GetRedisAddr() string {
	return os.Getenv("VOCAB_REDIS_ADDR")
}

func GetRedisPassword() string {
	return os.Getenv("VOCAB_REDIS_PASSWORD")
}

// GetBcryptCost returns the configured bcrypt cost, 0 meaning the library default.
func GetBcryptCost() int {
	return getInt("VOCAB_BCRYPT_COST", 0)
}

// GetLoginRateLimit returns the allowed login attempts per client IP and minute.
// Zero or a negative value disables the limiter.
func GetLoginRateLimit() int {
	return getInt("VOCAB_LOGIN_RATE_LIMIT", defaultLoginRateLimit)
}

// GetTrustedProxies returns the comma-separated addresses or CIDRs of reverse
// proxies whose X-Forwarded-For header is believed. Unset means none, and
// the client IP is the connection's peer address.
func GetTrustedProxies() []string {
	raw := os.Getenv("VOCAB_TRUSTED_PROXIES")
	if raw == "" {
		return nil
	}
	var proxies []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
