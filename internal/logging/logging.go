package logging

import (
	"io"
	"os"

	"github.com/phuslu/log"

	"docverify/internal/config"
)

// Setup configures the package-level phuslu logger from cfg.
func Setup(cfg config.LogConfig) {
	log.DefaultLogger = New(cfg, os.Stderr)
}

// New builds a logger writing to w. Format "json" emits one JSON object per
// line; anything else renders for a terminal.
func New(cfg config.LogConfig, w io.Writer) log.Logger {
	logger := log.Logger{
		Level:      log.ParseLevel(cfg.Level),
		Caller:     1,
		TimeFormat: "15:04:05",
	}
	if cfg.Format == "json" {
		logger.TimeFormat = ""
		logger.Writer = &log.IOWriter{Writer: w}
		return logger
	}
	logger.Writer = &log.ConsoleWriter{
		Writer:      w,
		ColorOutput: isTerminal(w),
		QuoteString: true,
	}
	return logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return log.IsTerminal(f.Fd())
}
