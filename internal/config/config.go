// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and environment variables on top.
// - Validation errors wrap ErrInvalidConfig; loader errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// RequestTimeoutMS bounds each HTTP request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// CORSOrigins lists the dashboard origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`

	// Grading holds the engine policy constants.
	Grading Grading `koanf:"grading"`
}

// Grading holds the named policy constants of the grading engine.
type Grading struct {
	// CorrectionFactorCeiling is the factor above which a group correction
	// factor is flagged as unusually high.
	CorrectionFactorCeiling float64 `koanf:"correction_factor_ceiling"`

	// PassThreshold is the lowest passing grade used for pass rates and labels.
	PassThreshold float64 `koanf:"pass_threshold"`

	// LessonBlockMinutes is the length of one lesson block.
	LessonBlockMinutes int `koanf:"lesson_block_minutes"`

	// GradeDecimals is the display precision of a grade.
	GradeDecimals int `koanf:"grade_decimals"`

	// DefaultWeight is used for criteria submitted without a weight.
	DefaultWeight float64 `koanf:"default_weight"`
}

// LessonBlock returns the lesson block length as a duration.
func (g Grading) LessonBlock() time.Duration {
	return time.Duration(g.LessonBlockMinutes) * time.Minute
}

// RequestTimeout returns the request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		RequestTimeoutMS: 5000,
		CORSOrigins:      []string{"http://localhost:3000"},
		Grading: Grading{
			CorrectionFactorCeiling: 2.0,
			PassThreshold:           5.5,
			LessonBlockMinutes:      75,
			GradeDecimals:           1,
			DefaultWeight:           1.0,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RequestTimeoutMS <= 0:
		return fmt.Errorf("%w: request_timeout_ms must be positive", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.Grading.CorrectionFactorCeiling <= 0:
		return fmt.Errorf("%w: grading.correction_factor_ceiling must be positive", ErrInvalidConfig)
	case c.Grading.PassThreshold < 1 || c.Grading.PassThreshold > 10:
		return fmt.Errorf("%w: grading.pass_threshold must be within 1-10", ErrInvalidConfig)
	case c.Grading.LessonBlockMinutes <= 0:
		return fmt.Errorf("%w: grading.lesson_block_minutes must be positive", ErrInvalidConfig)
	case c.Grading.GradeDecimals < 0:
		return fmt.Errorf("%w: grading.grade_decimals must not be negative", ErrInvalidConfig)
	case c.Grading.DefaultWeight <= 0:
		return fmt.Errorf("%w: grading.default_weight must be positive", ErrInvalidConfig)
	}
	return nil
}
