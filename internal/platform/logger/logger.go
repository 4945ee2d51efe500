package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level       string // debug, info, warn, error
	Format      string // console or json
	EnableColor bool   // console format only
	File        string // optional rotating JSON log
}

var (
	mu     sync.Mutex
	global *zap.Logger
	level  = zap.NewAtomicLevel()
)

// Initialize installs the process-wide logger. Only the first call has an
// effect; later level changes go through SetLevel.
func Initialize(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		return
	}
	level.SetLevel(parseLevel(cfg.Level))
	global = build(cfg, os.Stderr, level)
}

// New builds a standalone logger writing to stderr.
func New(cfg Config) *zap.Logger {
	return build(cfg, os.Stderr, zap.NewAtomicLevelAt(parseLevel(cfg.Level)))
}

// build writes human output to w. Command output owns stdout, so logs never
// go there.
func build(cfg Config, w io.Writer, lvl zap.AtomicLevel) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	fileEnc := enc

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(enc)
	default:
		enc.EncodeCaller = zapcore.ShortCallerEncoder
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		if cfg.EnableColor {
			enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
			encoder = NewColoredConsoleEncoder(enc)
		} else {
			encoder = zapcore.NewConsoleEncoder(enc)
		}
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), lvl)}
	if cfg.File != "" {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), zapcore.AddSync(rotating(cfg.File)), lvl))
	}

	opts := []zap.Option{zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if lvl.Level() == zapcore.DebugLevel {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(zapcore.NewTee(cores...), opts...)
}

func rotating(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

// SetLevel changes the level of the global logger at runtime.
func SetLevel(lvl string) {
	level.SetLevel(parseLevel(lvl))
}

// Get returns the global logger, initialising it from the environment if
// nothing called Initialize.
func Get() *zap.Logger {
	mu.Lock()
	l := global
	mu.Unlock()
	if l == nil {
		Initialize(Config{
			Level:       envOr("LOG_LEVEL", "info"),
			Format:      envOr("LOG_FORMAT", "console"),
			EnableColor: shouldEnableColor(),
		})
		mu.Lock()
		l = global
		mu.Unlock()
	}
	return l
}

func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		_ = global.Sync()
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return strings.ToLower(v)
	}
	return fallback
}

// parseLevel falls back to info for anything zap does not recognise.
func parseLevel(lvl string) zapcore.Level {
	l, err := zapcore.ParseLevel(strings.ToLower(lvl))
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// shouldEnableColor honours NO_COLOR first, then LOG_COLOR.
func shouldEnableColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if v := os.Getenv("LOG_COLOR"); v != "" {
		return v == "true" || v == "1"
	}
	return true
}
