package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/medscan-io/medscan/constants"
)

// Config holds all application configuration
type Config struct {
	LLM      LLMConfig
	Pipeline PipelineConfig
	Limits   Limits
}

// LLMConfig holds inference-service configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// PipelineConfig holds document-processing behavior flags
type PipelineConfig struct {
	MaxConcurrent int    // parallel per-document anonymization+extraction
	LimitsFile    string // optional YAML file overriding Limits
}

// Limits carries the plausibility bounds and classification margins.
// Defaults come from the constants package; a limits file may override
// any subset of them.
type Limits struct {
	AgeMin      int     `yaml:"age_min"`
	AgeMax      int     `yaml:"age_max"`
	WeightMinKg float64 `yaml:"weight_min_kg"`
	WeightMaxKg float64 `yaml:"weight_max_kg"`
	HeightMinCm int     `yaml:"height_min_cm"`
	HeightMaxCm int     `yaml:"height_max_cm"`
	TestYearMin int     `yaml:"test_year_min"`
	TestYearMax int     `yaml:"test_year_max"`

	OptimalMargin    float64 `yaml:"optimal_margin"`
	SuboptimalMargin float64 `yaml:"suboptimal_margin"`
	RangeCeiling     float64 `yaml:"range_ceiling"`
}

// DefaultLimits returns the built-in bounds and margins.
func DefaultLimits() Limits {
	return Limits{
		AgeMin:           constants.AgeMin,
		AgeMax:           constants.AgeMax,
		WeightMinKg:      constants.WeightMinKg,
		WeightMaxKg:      constants.WeightMaxKg,
		HeightMinCm:      constants.HeightMinCm,
		HeightMaxCm:      constants.HeightMaxCm,
		TestYearMin:      constants.TestYearMin,
		TestYearMax:      constants.TestYearMax,
		OptimalMargin:    constants.OptimalMarginFactor,
		SuboptimalMargin: constants.SuboptimalMarginFactor,
		RangeCeiling:     constants.RangeMaxCeiling,
	}
}

// LoadLimitsFile overlays values from a YAML limits file on top of the
// defaults. Fields absent from the file keep their default values.
func LoadLimitsFile(path string) (Limits, error) {
	limits := DefaultLimits()
	b, err := os.ReadFile(path)
	if err != nil {
		return limits, fmt.Errorf("read limits file: %w", err)
	}
	if err := yaml.Unmarshal(b, &limits); err != nil {
		return limits, fmt.Errorf("parse limits file: %w", err)
	}
	return limits, nil
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Pipeline: PipelineConfig{
			MaxConcurrent: getEnvAsInt("MEDSCAN_MAX_CONCURRENT", 4),
			LimitsFile:    getEnv("MEDSCAN_LIMITS_FILE", ""),
		},
		Limits: DefaultLimits(),
	}
	if cfg.Pipeline.LimitsFile != "" {
		limits, err := LoadLimitsFile(cfg.Pipeline.LimitsFile)
		if err != nil {
			return nil, err
		}
		cfg.Limits = limits
	}
	return cfg, nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Limits.OptimalMargin < 0 || c.Limits.SuboptimalMargin < c.Limits.OptimalMargin {
		return NewAppError("CONFIG_ERROR", "classification margins must satisfy 0 <= optimal <= suboptimal", ErrInvalidInput)
	}
	if c.Pipeline.MaxConcurrent < 1 {
		return NewAppError("CONFIG_ERROR", "MEDSCAN_MAX_CONCURRENT must be at least 1", ErrInvalidInput)
	}
	return nil
}
