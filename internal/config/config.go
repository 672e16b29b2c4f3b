package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DefaultDBPath is the file the registry has always written to.
	DefaultDBPath = "etudiants_cartes.db"
)

type Database struct {
	Driver string
	// URL, when set, is used as the PostgreSQL connection string as is.
	URL      string
	Path     string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	Echo     bool
}

// DSN returns the connection string for the configured driver.
func (d Database) DSN() string {
	if d.Driver == DriverPostgres {
		if d.URL != "" {
			return d.URL
		}
		return "host=" + d.Host + " user=" + d.User + " password=" + d.Password + " dbname=" + d.Name + " port=" + d.Port + " sslmode=disable"
	}
	return d.Path
}

type Config struct {
	Database    Database
	HTTPAddr    string
	CORSOrigins []string
	UploadDir   string
	LogLevel    string
	LogPretty   bool
}

// Load reads the configuration from the environment. Values found in a .env
// file in the working directory are used when the variable is not already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	echo, err := getBool("DB_ECHO", false)
	if err != nil {
		return Config{}, err
	}
	pretty, err := getBool("LOG_PRETTY", true)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Database: Database{
			Driver:   strings.ToLower(getString("DB_DRIVER", DriverSQLite)),
			URL:      os.Getenv("DB_URL"),
			Path:     getString("DB_PATH", DefaultDBPath),
			Host:     getString("DB_HOST", "localhost"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getString("DB_NAME", "studentdb"),
			Port:     getString("DB_PORT", "5432"),
			Echo:     echo,
		},
		HTTPAddr:    getString("HTTP_ADDR", "127.0.0.1:8080"),
		CORSOrigins: splitList(getString("CORS_ORIGINS", "http://localhost:3000")),
		UploadDir:   getString("UPLOAD_DIR", "uploads"),
		LogLevel:    getString("LOG_LEVEL", "info"),
		LogPretty:   pretty,
	}

	switch cfg.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
