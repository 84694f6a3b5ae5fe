/*
Process-wide structured logger.
Every package logs through this package instead of creating its own slog.Logger,
so that the level and the destination are configured only once (cmd/heapdump does it from flags).
When nothing is configured, the first GetLogger() call initializes the default text logger on stderr.
*/
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var (
	logger   *slog.Logger
	loggerMu sync.RWMutex
	// logFile is tracked for Close()
	logFile  *os.File
	isInited bool
	initOnce sync.Once
)

// LogLevel is logging verbosity
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// Config is logger configuration
type Config struct {
	Level LogLevel
	// OutputPath is empty for stderr
	OutputPath string
	// Format is "json" or "text"
	Format string
	// Writer overrides OutputPath when set. this is intended to be used in test
	Writer io.Writer
}

// Init initializes the global logger
// this must be called at most once before Close()
func Init(config Config) error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if isInited {
		return errors.New("logger already initialized")
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
		if config.OutputPath != "" {
			if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0o750); err != nil {
				return errors.Wrap(err, "os.MkdirAll failed")
			}
			f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				return errors.Wrap(err, "os.OpenFile failed")
			}
			writer = f
			logFile = f
		}
	}

	opts := &slog.HandlerOptions{Level: config.Level.slogLevel()}
	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	logger = slog.New(handler)
	isInited = true
	return nil
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitDefault initializes the logger with INFO level text output on stderr
// this can be called multiple times
func InitDefault() {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if isInited {
		return
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	isInited = true
}

// Close closes the log file if any. Init can be called again afterward.
func Close() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if !isInited {
		return nil
	}
	var err error
	if logFile != nil {
		err = logFile.Close()
		logFile = nil
	}
	logger = nil
	isInited = false
	initOnce = sync.Once{}
	return errors.Wrap(err, "logFile.Close failed")
}

// GetLogger returns the global logger
func GetLogger() *slog.Logger {
	loggerMu.RLock()
	if isInited {
		l := logger
		loggerMu.RUnlock()
		return l
	}
	loggerMu.RUnlock()

	initOnce.Do(InitDefault)

	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

func Debug(msg string, args ...any) { GetLogger().Debug(msg, args...) }
func Info(msg string, args ...any)  { GetLogger().Info(msg, args...) }
func Warn(msg string, args ...any)  { GetLogger().Warn(msg, args...) }
func Error(msg string, args ...any) { GetLogger().Error(msg, args...) }
