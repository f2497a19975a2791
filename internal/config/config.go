package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"vitalstat/domain/timegrid"
	"vitalstat/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data    DataConfig
	Output  OutputConfig
	Stats   StatsConfig
	Logging LoggingConfig
}

// DataConfig holds input data settings
type DataConfig struct {
	Dir         string // directory holding monitoring workbooks
	Parallelism int    // concurrent workbook loads
}

// OutputConfig holds report export settings
type OutputConfig struct {
	Dir string
}

// StatsConfig holds statistical analysis settings
type StatsConfig struct {
	PremortemWindow int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from the environment (with optional .env file)
// and validates it
func Load() (*Config, error) {
	// .env is a developer convenience; a missing file is not an error
	_ = godotenv.Load()

	config := &Config{
		Data: DataConfig{
			Dir:         getEnv("VITALSTAT_DATA_DIR", "."),
			Parallelism: getEnvInt("VITALSTAT_PARALLELISM", 4),
		},
		Output: OutputConfig{
			Dir: getEnv("VITALSTAT_OUTPUT_DIR", "."),
		},
		Stats: StatsConfig{
			PremortemWindow: getEnvInt("VITALSTAT_PREMORTEM_WINDOW", 6),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}

	if err := validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validate(c *Config) error {
	if c.Data.Parallelism < 1 {
		return errors.ConfigInvalid("VITALSTAT_PARALLELISM must be at least 1")
	}
	if c.Stats.PremortemWindow < 1 || c.Stats.PremortemWindow > timegrid.MaxPremortemWindow {
		return errors.ConfigInvalid("VITALSTAT_PREMORTEM_WINDOW outside the admissible window range")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
