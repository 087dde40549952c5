//go:build (linux || freebsd) && (amd64 || arm64)

package eglgbm

import (
	"fmt"
	"sync"
)

// LogLevel classifies shim log messages.
type LogLevel int32

// Log levels, most to least severe.
const (
	LogQuiet   LogLevel = -8 // Print no output
	LogError   LogLevel = 16 // Operation failed, caller sees an error
	LogWarning LogLevel = 24 // Something unexpected but recoverable
	LogInfo    LogLevel = 32 // Standard information
	LogDebug   LogLevel = 48 // Event and slot tracing
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch {
	case l <= LogQuiet:
		return "quiet"
	case l <= LogError:
		return "error"
	case l <= LogWarning:
		return "warning"
	case l <= LogInfo:
		return "info"
	default:
		return "debug"
	}
}

// LogCallback is called for each shim log message.
type LogCallback func(level LogLevel, message string)

var (
	logMu       sync.Mutex
	logCallback LogCallback
	logLevel    = LogWarning
)

// SetLogCallback installs a callback receiving shim log messages at or above
// the level set by SetLogLevel. Pass nil to disable logging.
func SetLogCallback(cb LogCallback) {
	logMu.Lock()
	defer logMu.Unlock()
	logCallback = cb
}

// SetLogLevel sets the maximum level delivered to the log callback.
func SetLogLevel(level LogLevel) {
	logMu.Lock()
	defer logMu.Unlock()
	logLevel = level
}

func logf(level LogLevel, format string, args ...any) {
	logMu.Lock()
	cb := logCallback
	limit := logLevel
	logMu.Unlock()

	if cb == nil || level > limit {
		return
	}
	cb(level, fmt.Sprintf(format, args...))
}
