package command

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joeycumines/super-document/internal/config"
	"github.com/joeycumines/super-document/internal/logging"
)

// Rotation defaults, used when the config has no usable value.
const (
	defaultLogMaxSizeMB = 10
	defaultLogMaxFiles  = 5
)

// logConfig holds the resolved logging settings of a command run.
type logConfig struct {
	level      slog.Level
	logFile    io.WriteCloser // nil if no file logging
	bufferSize int
}

// resolveLogConfig resolves log settings from flags, then the config, then
// defaults. A flag counts as unset at its zero value (or "info" for the
// level, its flag default). The caller owns logConfig.logFile.
func resolveLogConfig(flagPath, flagLevel string, flagBufferSize int, cfg *config.Config) (logConfig, error) {
	schema := config.DefaultSchema()
	var lc logConfig

	levelStr := flagLevel
	if levelStr == "" || levelStr == "info" {
		if v := schema.Resolve(cfg, "log.level"); v != "" {
			levelStr = v
		}
	}
	level, err := logging.ParseLevel(levelStr)
	if err != nil {
		return lc, err
	}
	lc.level = level

	lc.bufferSize = flagBufferSize
	if lc.bufferSize <= 0 {
		lc.bufferSize = schema.ResolveInt(cfg, "", "log.buffer-size")
		if lc.bufferSize <= 0 {
			lc.bufferSize = logging.DefaultBufferSize
		}
	}

	logPath := flagPath
	if logPath == "" {
		logPath = schema.Resolve(cfg, "log.file")
	}
	if logPath != "" {
		maxSizeMB := schema.ResolveInt(cfg, "", "log.max-size-mb")
		if maxSizeMB <= 0 {
			maxSizeMB = defaultLogMaxSizeMB
		}
		// zero keeps no backups
		maxFiles := schema.ResolveInt(cfg, "", "log.max-files")
		if maxFiles < 0 {
			maxFiles = defaultLogMaxFiles
		}
		w, err := logging.NewRotatingFileWriter(logPath, maxSizeMB, maxFiles)
		if err != nil {
			return lc, fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		lc.logFile = w
	}

	return lc, nil
}

// newLogger builds the run's logger. Closing it closes lc.logFile.
func (lc logConfig) newLogger() *logging.Logger {
	opts := logging.Options{Level: lc.level, BufferSize: lc.bufferSize}
	if lc.logFile != nil {
		opts.File = lc.logFile
	}
	return logging.New(opts)
}
