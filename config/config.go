package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bnema/recode/internal/domain"
)

// Config is the environment-driven configuration. The root path to
// convert is the binary's positional argument, everything else is
// RECODE_* variables with defaults.
type Config struct {
	Target        string
	MaxParallel   int
	Limit         int
	ListOnly      bool
	OutputDir     string
	PreserveTimes bool
	UseAccel      bool
	CRF           int
	Preset        string
	HistoryDB     string
	ReportPath    string
	PrintHistory  bool
}

func Load() (*Config, error) {
	maxParallel, err := getEnvInt("RECODE_MAX_PARALLEL", 2)
	if err != nil {
		return nil, err
	}
	if maxParallel < 1 {
		return nil, fmt.Errorf("RECODE_MAX_PARALLEL must be >= 1")
	}

	limit, err := getEnvInt("RECODE_LIMIT", 0)
	if err != nil {
		return nil, err
	}

	crf, err := getEnvInt("RECODE_CRF", 24)
	if err != nil {
		return nil, err
	}

	return &Config{
		Target:        getEnv("RECODE_TARGET", "hevc"),
		MaxParallel:   maxParallel,
		Limit:         limit,
		ListOnly:      getEnvBool("RECODE_LIST_ONLY"),
		OutputDir:     os.Getenv("RECODE_OUTPUT_DIR"),
		PreserveTimes: getEnvBool("RECODE_PRESERVE_TIMES"),
		UseAccel:      getEnvBool("RECODE_ACCEL"),
		CRF:           crf,
		Preset:        getEnv("RECODE_PRESET", "medium"),
		HistoryDB:     os.Getenv("RECODE_HISTORY_DB"),
		ReportPath:    os.Getenv("RECODE_REPORT"),
		PrintHistory:  getEnvBool("RECODE_PRINT_HISTORY"),
	}, nil
}

// JobOptions maps the configuration onto a run's options, validating
// the target codec name.
func (c *Config) JobOptions() (domain.JobOptions, error) {
	target, err := domain.ParseTarget(c.Target)
	if err != nil {
		return domain.JobOptions{}, fmt.Errorf("RECODE_TARGET %q: %w", c.Target, err)
	}
	return domain.JobOptions{
		Target:             target,
		UseAcceleration:    c.UseAccel,
		MaxParallel:        c.MaxParallel,
		Limit:              c.Limit,
		ListOnly:           c.ListOnly,
		OutputRoot:         c.OutputDir,
		PreserveTimestamps: c.PreserveTimes,
		CRF:                c.CRF,
		Preset:             c.Preset,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "yes":
		return true
	}
	return false
}
