// Package logging routes the standard logger to a rotated log file.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ezrec/hwrw/config"
)

// Setup directs the standard logger per the configuration. Logs go to
// stderr when no file is configured. The returned closer releases the log
// file.
func Setup(cfg config.LogConfig) (closer io.Closer) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if len(cfg.File) == 0 {
		log.SetOutput(os.Stderr)
		closer = io.NopCloser(nil)
		return
	}

	logger := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	log.SetOutput(logger)
	closer = logger

	return
}
