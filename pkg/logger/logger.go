package logger

import (
	"fmt"
	"log"
	"log/slog"
	"os"
)

// New returns a stdlib logger for libraries that only accept *log.Logger.
// With a base slog logger the output is routed through it at warn level,
// otherwise it writes to stdout with a component prefix.
func New(component string, base *slog.Logger) *log.Logger {
	if base == nil {
		prefix := fmt.Sprintf("[%s] ", component)
		return log.New(os.Stdout, prefix, log.LstdFlags|log.Lshortfile)
	}
	return slog.NewLogLogger(base.With("component", component).Handler(), slog.LevelWarn)
}
