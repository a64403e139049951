// Package logging configures the process-wide structured logger used by
// the orchestrator and CLI. It wraps github.com/phuslu/log so call sites
// elsewhere in the module use the same chained builder style throughout.
package logging

import (
	"os"

	"github.com/phuslu/log"
)

// Setup installs a console-friendly logger at the given level ("debug",
// "info", "warn", "error") and returns it. Call once from main.
func Setup(level string) log.Logger {
	logger := log.Logger{
		Level:  parseLevel(level),
		Writer: &log.ConsoleWriter{Writer: os.Stderr},
	}
	log.DefaultLogger = logger
	return logger
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
