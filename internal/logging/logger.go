package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "MSGVIEW_LOG_LEVEL"

// Options controls how the global logger is built.
type Options struct {
	// Level is one of debug, info, warn, error. Empty falls back to
	// MSGVIEW_LOG_LEVEL, then to DefaultLevel.
	Level string

	// DefaultLevel is used when neither Level nor the environment is set.
	// Empty means silent.
	DefaultLevel string

	// OutputPaths are zap sink URLs or file paths. Defaults to stderr.
	OutputPaths []string
}

// Initialize builds the global logger from opts.
func Initialize(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// InitializeFromEnv initializes a logger that stays silent unless
// MSGVIEW_LOG_LEVEL is set. Non-interactive commands use this so their
// curated output is not interleaved with log lines.
func InitializeFromEnv() error {
	return Initialize(Options{})
}

// New builds a logger without touching the global instance.
func New(opts Options) (*zap.Logger, error) {
	level := opts.Level
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		level = opts.DefaultLevel
	}
	if level == "" {
		return zap.NewNop(), nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if len(opts.OutputPaths) > 0 {
		config.OutputPaths = opts.OutputPaths
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// SetLogger replaces the global logger. Tests use this with an observer core.
func SetLogger(l *zap.Logger) {
	logger = l
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogFetchStart records an outbound message fetch.
func LogFetchStart(l *zap.Logger, requestID, endpoint string) {
	l.Debug("Fetching message",
		zap.String("request_id", requestID),
		zap.String("endpoint", endpoint),
	)
}

// LogFetchResponse records the transport-level outcome of a fetch.
func LogFetchResponse(l *zap.Logger, requestID string, statusCode int, body []byte) {
	l.Debug("Message response received",
		zap.String("request_id", requestID),
		zap.Int("status_code", statusCode),
		zap.Int("length", len(body)),
		zap.String("body", truncate(body, 256)),
	)
}

// LogFetchFailure records a fetch that did not produce a message. This is
// the single diagnostic entry the display view writes on failure. Extra
// fields describing the error are appended after the standard ones.
func LogFetchFailure(l *zap.Logger, requestID, endpoint string, err error, extra ...zap.Field) {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("endpoint", endpoint),
		zap.Error(err),
	}
	l.Error("Error fetching API", append(fields, extra...)...)
}

func truncate(data []byte, limit int) string {
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
