package logger

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey string

const LoggerKey = contextKey("logger")

var globalLogger *zap.SugaredLogger

// Init initializes the global logger based on configuration.
// Operations are written to cfg.Path; warnings and errors are additionally
// written to cfg.ErrorPath when set, so failed runs can be reviewed separately.
// Init 根据配置初始化全局日志记录器。
// 操作日志写入 cfg.Path；当设置了 cfg.ErrorPath 时，warn 及以上级别额外写入错误日志。
func Init(cfg LoggingConfig) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	level := parseLevel(cfg.Level)

	// Default to stdout if not configured or disabled
	writeSyncer := zapcore.AddSync(os.Stdout)

	if cfg.Enabled && cfg.Path != "" {
		writeSyncer = newRotatingSyncer(cfg, cfg.Path)
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder, writeSyncer, level)}

	if cfg.Enabled && cfg.ErrorPath != "" {
		errSyncer := newRotatingSyncer(cfg, cfg.ErrorPath)
		cores = append(cores, zapcore.NewCore(encoder, errSyncer, zapcore.WarnLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	globalLogger = logger.Sugar()

	globalLogger.Infof("[LOG] Logging initialized (Level: %s, Path: %s)", level, cfg.Path)
}

// newRotatingSyncer builds a lumberjack-backed write syncer for path.
// newRotatingSyncer 为 path 构建基于 lumberjack 的轮转写入器。
func newRotatingSyncer(cfg LoggingConfig, path string) zapcore.WriteSyncer {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		// Log to stdout if we can't create the directory
		// 如果无法创建目录，则输出到 stdout
		fallback := zap.NewExample().Sugar()
		fallback.Warnf("[WARN]  Failed to create log directory: %v", err)
		return zapcore.AddSync(os.Stdout)
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	return zapcore.AddSync(rotator)
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes any buffered log entries.
// Sync 刷新所有缓存的日志条目。
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// Get returns the logger from context or global logger
// Get 从 Context 或全局日志记录器返回 Logger。
func Get(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if logger, ok := ctx.Value(LoggerKey).(*zap.SugaredLogger); ok {
			return logger
		}
	}
	if globalLogger == nil {
		// Fallback to basic stdout logger if not initialized
		l, err := zap.NewDevelopment()
		if err != nil {
			// Ultimate fallback: use example logger
			return zap.NewExample().Sugar()
		}
		return l.Sugar()
	}
	return globalLogger
}

// WithContext adds logger to context
// WithContext 将 Logger 添加到 Context。
func WithContext(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}
