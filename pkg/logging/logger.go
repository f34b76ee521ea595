// Package logging provides the shared zap logger and helpers for keeping
// secrets out of log output.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the process logger for the given environment. Local and test
// environments get the human-readable development encoder at debug level;
// everything else gets production JSON at info level.
func New(env string) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	switch env {
	case "local", "test":
		logger, err = zap.NewDevelopment()
	default:
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}
