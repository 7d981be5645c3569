package logger

import (
	"github.com/cozy-creator/cropscan/internal/config"

	"go.uber.org/zap"
)

var logger *zap.Logger

// NewLogger builds a logger for the configured environment: JSON output in
// prod, the example logger in test, and a console development logger with
// debug level everywhere else.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	switch cfg.Environment {
	case "prod":
		l, err = zap.NewProduction()
	case "test":
		l = zap.NewExample()
	default:
		l, err = zap.NewDevelopment()
	}

	return l, err
}

func InitLogger(cfg *config.Config) (*zap.Logger, error) {
	var err error
	logger, err = NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	return logger, nil
}

func GetLogger() *zap.Logger {
	if logger == nil {
		panic("logger not initialized")
	}

	return logger
}
