// Package config centralises runtime configuration for freepool tooling.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PoolSettings controls the shared pool exercised by the churn command.
type PoolSettings struct {
	Name     string `yaml:"name"`
	WarmSize int    `yaml:"warmSize"`
}

// ChurnSettings sizes the churn workload.
type ChurnSettings struct {
	Workers    int     `yaml:"workers"`
	Iterations int     `yaml:"iterations"`
	RatePerSec float64 `yaml:"ratePerSec"`
	Burst      int     `yaml:"burst"`
}

// TelemetrySettings configures the OTLP metric exporter (metrics only).
type TelemetrySettings struct {
	OTLPEndpoint string `yaml:"otlpEndpoint"`
	ServiceName  string `yaml:"serviceName"`
}

// Settings is the configuration tree loaded from defaults, an optional YAML
// file, and environment overrides.
type Settings struct {
	Pool      PoolSettings      `yaml:"pool"`
	Churn     ChurnSettings     `yaml:"churn"`
	Telemetry TelemetrySettings `yaml:"telemetry"`
}

// Default returns the default configuration.
func Default() Settings {
	return Settings{
		Pool: PoolSettings{
			Name:     "churn",
			WarmSize: 64,
		},
		Churn: ChurnSettings{
			Workers:    8,
			Iterations: 10000,
			RatePerSec: 50000,
			Burst:      1000,
		},
		Telemetry: TelemetrySettings{
			OTLPEndpoint: "",
			ServiceName:  "freepool-churn",
		},
	}
}

// LoadOrDefault reads configuration from the YAML file at path, falling back
// to defaults when the file does not exist. Environment overrides apply in
// both cases. The boolean reports whether a file was loaded.
func LoadOrDefault(path string) (Settings, bool, error) {
	cfg := Default()

	loaded := false
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Settings{}, false, fmt.Errorf("parse config %s: %w", path, err)
		}
		loaded = true
	case errors.Is(err, os.ErrNotExist):
	default:
		return Settings{}, false, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Settings{}, loaded, err
	}
	return cfg, loaded, nil
}

// Validate rejects configurations the churn command cannot run with.
func (s Settings) Validate() error {
	if s.Churn.Workers <= 0 {
		return fmt.Errorf("config: workers must be positive, got %d", s.Churn.Workers)
	}
	if s.Churn.Iterations <= 0 {
		return fmt.Errorf("config: iterations must be positive, got %d", s.Churn.Iterations)
	}
	if s.Churn.RatePerSec <= 0 {
		return fmt.Errorf("config: ratePerSec must be positive, got %v", s.Churn.RatePerSec)
	}
	if s.Churn.Burst <= 0 {
		return fmt.Errorf("config: burst must be positive, got %d", s.Churn.Burst)
	}
	if s.Pool.WarmSize < 0 {
		return fmt.Errorf("config: warmSize must not be negative, got %d", s.Pool.WarmSize)
	}
	return nil
}

func applyEnv(cfg *Settings) {
	if v := strings.TrimSpace(os.Getenv("FREEPOOL_OTLP_ENDPOINT")); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("FREEPOOL_SERVICE_NAME")); v != "" {
		cfg.Telemetry.ServiceName = v
	}
	if v := strings.TrimSpace(os.Getenv("FREEPOOL_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Churn.Workers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("FREEPOOL_ITERATIONS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Churn.Iterations = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("FREEPOOL_WARM_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pool.WarmSize = n
		}
	}
}
