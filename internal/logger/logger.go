// Package logger builds the process-wide zap logger. Log entries never
// contain token material or message bodies; callers log identifiers and
// outcomes only.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New creates a logger for the given environment. "production" gets
// JSON output at info level; anything else gets the console encoder
// with the level optionally lowered to debug.
func New(env string, debug bool) (*zap.Logger, error) {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	level := zap.NewAtomicLevel()
	if debug {
		level.SetLevel(zap.DebugLevel)
	} else {
		level.SetLevel(zap.InfoLevel)
	}
	config.Level = level

	log, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return log, nil
}
