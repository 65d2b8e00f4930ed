package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store targets for derived OBIS records.
const (
	StoreCSV      = "csv"
	StorePostgres = "postgres"
)

// Config holds all exporter settings, populated from environment variables.
type Config struct {
	// Andes survey database (read side).
	AndesDBHost     string `envconfig:"ANDES_DB_HOST" required:"true"`
	AndesDBPort     int    `envconfig:"ANDES_DB_PORT" default:"5432"`
	AndesDBUser     string `envconfig:"ANDES_DB_USER" required:"true"`
	AndesDBPassword string `envconfig:"ANDES_DB_PASSWORD" required:"true"`
	AndesDBName     string `envconfig:"ANDES_DB_NAME" default:"andes"`

	// Store selects where derived records go: a Darwin Core archive
	// directory ("csv") or the dedicated OBIS database ("postgres").
	Store     string `envconfig:"STORE" default:"csv"`
	OutputDir string `envconfig:"OUTPUT_DIR" default:"dwca"`

	// OBIS database (write side, used when Store is "postgres").
	OBISDBHost     string `envconfig:"OBIS_DB_HOST"`
	OBISDBPort     int    `envconfig:"OBIS_DB_PORT" default:"5432"`
	OBISDBUser     string `envconfig:"OBIS_DB_USER"`
	OBISDBPassword string `envconfig:"OBIS_DB_PASSWORD"`
	OBISDBName     string `envconfig:"OBIS_DB_NAME" default:"obisdb"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// MetricsAddr exposes /healthz and /metrics while the export runs.
	// Empty disables the listener.
	MetricsAddr string `envconfig:"METRICS_ADDR"`
}

// Load reads configuration from the environment (and a .env file when
// present), applying defaults and validating the store selection.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	switch cfg.Store {
	case StoreCSV:
		if cfg.OutputDir == "" {
			return nil, errors.New("OUTPUT_DIR is required when STORE is csv")
		}
	case StorePostgres:
		if cfg.OBISDBHost == "" || cfg.OBISDBUser == "" {
			return nil, errors.New("OBIS_DB_HOST and OBIS_DB_USER are required when STORE is postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE %q (expected csv or postgres)", cfg.Store)
	}

	return &cfg, nil
}

// AndesDSN returns the connection string for the survey database.
func (c *Config) AndesDSN() string {
	return dsn(c.AndesDBHost, c.AndesDBUser, c.AndesDBPassword, c.AndesDBName, c.AndesDBPort)
}

// OBISDSN returns the connection string for the OBIS record database.
func (c *Config) OBISDSN() string {
	return dsn(c.OBISDBHost, c.OBISDBUser, c.OBISDBPassword, c.OBISDBName, c.OBISDBPort)
}

func dsn(host, user, password, name string, port int) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, name, port)
}
