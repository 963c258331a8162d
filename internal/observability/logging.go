// Package observability provides structured logging for the resource indexer.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/resources/internal/config"
)

// NewLogger creates a structured logger from the given logging configuration.
// The logger is named after service and, in json format, every entry also
// carries a "service" field so aggregated streams can be filtered.
//
// Logs always go to stderr; resindex writes its payload to stdout.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig, service string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	zapCfg, err := baseConfig(cfg.Format)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	// Every failed load is logged once; sampling would drop repeats.
	zapCfg.Sampling = nil
	if service != "" && cfg.Format == "json" {
		zapCfg.InitialFields = map[string]interface{}{"service": service}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	if service != "" {
		logger = logger.Named(service)
	}
	return logger, nil
}

func baseConfig(format string) (zap.Config, error) {
	switch format {
	case "json":
		c := zap.NewProductionConfig()
		c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		c.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
		return c, nil
	case "console":
		c := zap.NewDevelopmentConfig()
		c.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		c.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
		// fetch and parse failures are expected conditions, not bugs.
		c.DisableStacktrace = true
		return c, nil
	default:
		return zap.Config{}, fmt.Errorf("unknown log format %q", format)
	}
}
