// Package logging builds the application logger. The terminal frontend owns
// stdout in raw mode, so logs only ever go to a rotated file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/cfart/config"
)

// New returns a JSON file logger when cfg.Debug is set, otherwise a no-op
// logger. The returned close func flushes and releases the file.
func New(cfg config.LoggingConfig) (*zap.Logger, func(), error) {
	if !cfg.Debug {
		return zap.NewNop(), func() {}, nil
	}

	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, nil, fmt.Errorf("could not create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Directory, cfg.File),
		MaxSize:    cfg.MaxSize, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge, // days
		Compress:   cfg.Compress,
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zapcore.DebugLevel,
	)
	logger := zap.New(core, zap.AddCaller())

	closeFn := func() {
		_ = logger.Sync()
		_ = rotator.Close()
	}
	return logger, closeFn, nil
}
