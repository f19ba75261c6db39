package logger

import (
	"go.uber.org/zap"
)

// Log is the shared structured logger. It is a no-op until Init or InitDebug is called
// so packages can log unconditionally, including from tests.
var Log = zap.NewNop()

// Init installs a production logger.
func Init() {
	l, err := zap.NewProduction()
	if err != nil {
		return
	}
	Log = l
}

// InitDebug installs a development logger with debug level enabled.
func InitDebug() {
	l, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	Log = l
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
