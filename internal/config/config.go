package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Worker pool
	WorkerCount     int
	QueueSize       int
	AnalysisTimeout time.Duration

	// Simulation
	Trials     int
	Shards     int
	Jitter     float64
	Seed       int64
	StarPreset string

	// StarPresetsFile optionally overrides or adds star presets by name
	StarPresetsFile string
	StarPresets     map[string][][]float64

	// Strength ranking
	StrengthTopN int
}

// presetFile is the layout of STAR_PRESETS_FILE:
//
//	presets:
//	  league:
//	    buckets:
//	      - [0.85, 0.12, 0.03, 0.00]   # delta <= -3
//	      ...                          # six rows up to delta >= +2
type presetFile struct {
	Presets map[string]struct {
		Buckets [][]float64 `yaml:"buckets"`
	} `yaml:"presets"`
}

// Load loads configuration from environment variables.
// It returns an error if a value is out of range or the presets file is unreadable.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		WorkerCount:     getEnvInt("WORKER_COUNT", 4),
		QueueSize:       getEnvInt("QUEUE_SIZE", 64),
		AnalysisTimeout: getEnvDuration("ANALYSIS_TIMEOUT", 10*time.Second),

		Trials:     getEnvInt("SIM_TRIALS", 10000),
		Shards:     getEnvInt("SIM_SHARDS", 4),
		Jitter:     getEnvFloat("SIM_JITTER", 0),
		Seed:       getEnvInt64("SIM_SEED", 0),
		StarPreset: getEnv("STAR_PRESET", "league"),

		StarPresetsFile: getEnv("STAR_PRESETS_FILE", ""),

		StrengthTopN: getEnvInt("STRENGTH_TOP_N", 10),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:8501")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.StarPresetsFile != "" {
		presets, err := LoadPresetFile(cfg.StarPresetsFile)
		if err != nil {
			return nil, err
		}
		cfg.StarPresets = presets
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Trials < 8000 || c.Trials > 100000:
		return fmt.Errorf("SIM_TRIALS must be within 8000..100000, got %d", c.Trials)
	case c.Shards <= 0:
		return fmt.Errorf("SIM_SHARDS must be positive, got %d", c.Shards)
	case c.Jitter < 0 || c.Jitter > 0.5:
		return fmt.Errorf("SIM_JITTER must be within 0..0.5, got %v", c.Jitter)
	case c.StrengthTopN <= 0:
		return fmt.Errorf("STRENGTH_TOP_N must be positive, got %d", c.StrengthTopN)
	case c.AnalysisTimeout <= 0:
		return fmt.Errorf("ANALYSIS_TIMEOUT must be positive, got %s", c.AnalysisTimeout)
	}
	return nil
}

// LoadPresetFile reads star presets from a YAML file. Bucket contents are
// validated when a preset is resolved, not here.
func LoadPresetFile(path string) (map[string][][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}

	var pf presetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse presets file %s: %w", path, err)
	}

	out := make(map[string][][]float64, len(pf.Presets))
	for name, p := range pf.Presets {
		out[name] = p.Buckets
	}
	return out, nil
}

// IsDevelopment reports whether ENV selects development logging.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
