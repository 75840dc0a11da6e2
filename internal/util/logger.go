// internal/util/logger.go
package util

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger      zerolog.Logger
	loggerMu    sync.RWMutex
	initialized bool
)

// InitLogger (re)configures the global structured logger.
// It writes JSON lines to stdout at the given level; an unknown level falls back to info.
func InitLogger(level string) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = NewLogger(os.Stdout, level)
	initialized = true
}

// NewLogger builds a zerolog logger writing to w.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "coupon-manager").
		Logger()
}

// GetLogger returns the global logger, initializing it at info level on first use.
func GetLogger() zerolog.Logger {
	loggerMu.RLock()
	if initialized {
		defer loggerMu.RUnlock()
		return logger
	}
	loggerMu.RUnlock()

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if !initialized {
		logger = NewLogger(os.Stdout, "info")
		initialized = true
	}
	return logger
}
