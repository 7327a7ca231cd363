package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dshills/inertia/internal/config"
)

// Logging owns the process logger and its rotating file.
//
// The terminal belongs to the UI while the application runs, so logs only
// go to a file. Without a file the logger discards everything.
type Logging struct {
	Logger *zap.Logger
	Level  zap.AtomicLevel
	file   *lumberjack.Logger
}

// NewLogging builds a logger from the logging settings. An unknown level is
// an error; callers usually fall back to info.
func NewLogging(cfg config.LoggingConfig) (*Logging, error) {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
	}

	if cfg.File == "" {
		return &Logging{Logger: zap.NewNop(), Level: level}, nil
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	core := zapcore.NewCore(newEncoder(), zapcore.AddSync(file), level)
	logger := zap.New(core, zap.AddStacktrace(zap.ErrorLevel)).Named("inertia")
	return &Logging{Logger: logger, Level: level, file: file}, nil
}

// newEncoder returns the JSON encoder used for the log file.
func newEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// SetLevel changes the level at runtime. Unknown names are ignored.
func (l *Logging) SetLevel(name string) bool {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return false
	}
	l.Level.SetLevel(lvl)
	return true
}

// Close flushes the logger and closes the log file.
func (l *Logging) Close() error {
	_ = l.Logger.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
