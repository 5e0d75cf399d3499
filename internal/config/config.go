// Package config loads server settings from defaults, an optional YAML file,
// a .env file and the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port                string        `yaml:"port"`
	GinMode             string        `yaml:"gin_mode"`
	StoreDriver         string        `yaml:"store_driver"`
	SQLitePath          string        `yaml:"sqlite_path"`
	DatabaseURL         string        `yaml:"database_url"`
	SampleSize          int           `yaml:"sample_size"`
	DataLimit           int           `yaml:"data_limit"`
	MaxUploadBytes      int64         `yaml:"max_upload_bytes"`
	PythonBin           string        `yaml:"python_bin"`
	ForecastTimeout     time.Duration `yaml:"forecast_timeout"`
	ForecastConcurrency int           `yaml:"forecast_concurrency"`
	AllowOrigins        []string      `yaml:"allow_origins"`
	StaticDir           string        `yaml:"static_dir"`
}

func Default() *Config {
	return &Config{
		Port:                "8080",
		GinMode:             "release",
		StoreDriver:         "sqlite",
		SQLitePath:          "medplat.db",
		SampleSize:          100,
		DataLimit:           1000,
		MaxUploadBytes:      10 << 20,
		PythonBin:           "python3",
		ForecastTimeout:     2 * time.Minute,
		ForecastConcurrency: 2,
		AllowOrigins:        []string{"*"},
	}
}

// Load builds the configuration. path names a YAML file; when empty,
// CONFIG_FILE is consulted, and no file at all is fine.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", c.StoreDriver))
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.PythonBin = getEnv("PYTHON_BIN", c.PythonBin)
	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)

	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.AllowOrigins = origins
	}

	var err error
	if c.SampleSize, err = getEnvInt("SAMPLE_SIZE", c.SampleSize); err != nil {
		return err
	}
	if c.DataLimit, err = getEnvInt("DATA_LIMIT", c.DataLimit); err != nil {
		return err
	}
	if c.ForecastConcurrency, err = getEnvInt("FORECAST_CONCURRENCY", c.ForecastConcurrency); err != nil {
		return err
	}
	maxUpload, err := getEnvInt("MAX_UPLOAD_BYTES", int(c.MaxUploadBytes))
	if err != nil {
		return err
	}
	c.MaxUploadBytes = int64(maxUpload)

	if v := os.Getenv("FORECAST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FORECAST_TIMEOUT: %w", err)
		}
		c.ForecastTimeout = d
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required when STORE_DRIVER=sqlite"))
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be sqlite or postgres, got %q", c.StoreDriver))
	}
	if c.SampleSize < 1 {
		errs = append(errs, errors.New("SAMPLE_SIZE must be positive"))
	}
	if c.DataLimit < 1 {
		errs = append(errs, errors.New("DATA_LIMIT must be positive"))
	}
	if c.MaxUploadBytes < 1 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.ForecastConcurrency < 1 {
		errs = append(errs, errors.New("FORECAST_CONCURRENCY must be positive"))
	}
	if c.ForecastTimeout <= 0 {
		errs = append(errs, errors.New("FORECAST_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
