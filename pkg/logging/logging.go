package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. POSEE_DEBUG=1 switches to a development
// config with debug-level output.
func New() (*zap.Logger, error) {
	if os.Getenv("POSEE_DEBUG") == "1" {
		return zap.NewDevelopment()
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return config.Build()
}

// Must is New but fatal on failure, for use in main.
func Must() *zap.Logger {
	logger, err := New()
	if err != nil {
		panic(err)
	}
	return logger
}
