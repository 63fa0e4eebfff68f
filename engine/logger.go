package engine

import (
	"sync"

	"go.uber.org/zap"
)

var (
	loggerMu  sync.RWMutex
	pkgLogger *zap.Logger
)

// SetLogger installs a logger for the engine package. Nil restores the
// no-op logger.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	pkgLogger = l
}

// logger returns the engine's logger instance.
// It uses a no-op logger by default.
func logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if pkgLogger == nil {
		return zap.NewNop()
	}
	return pkgLogger
}
