package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/isupersid/stalker-test-client/pkg/constants"
)

// Options configures the zap-backed logger.
type Options struct {
	// Level is one of debug, info, warn, error
	Level string

	// Format is "json" or "console"
	Format string

	// OutputPath, when set, writes rotated log files instead of stdout
	OutputPath string
}

type zapLogger struct {
	logger *zap.Logger
	level  zapcore.Level
}

// NewZapLogger creates the production Logger implementation.
func NewZapLogger(opts Options) (Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if opts.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	if opts.OutputPath != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.OutputPath,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
	} else {
		sink = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return &zapLogger{
		logger: zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)),
		level:  level,
	}, nil
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.logger.Debug(msg, convertFields(fields)...)
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.logger.Info(msg, convertFields(fields)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.logger.Warn(msg, convertFields(fields)...)
}

func (l *zapLogger) Error(ctx context.Context, msg string, err error, fields ...Field) {
	if err != nil {
		fields = append(fields, Err(err))
	}
	l.logger.Error(msg, convertFields(fields)...)
}

func (l *zapLogger) Fatal(ctx context.Context, msg string, err error, fields ...Field) {
	if err != nil {
		fields = append(fields, Err(err))
	}
	l.logger.Fatal(msg, convertFields(fields)...)
}

func (l *zapLogger) WithFields(fields ...Field) Logger {
	return &zapLogger{
		logger: l.logger.With(convertFields(fields)...),
		level:  l.level,
	}
}

func (l *zapLogger) WithComponent(component string) Logger {
	return l.WithFields(String("component", component))
}

func (l *zapLogger) Level() constants.LogLevel {
	switch l.level {
	case zapcore.DebugLevel:
		return constants.LogLevelDebug
	case zapcore.WarnLevel:
		return constants.LogLevelWarn
	case zapcore.ErrorLevel:
		return constants.LogLevelError
	case zapcore.FatalLevel:
		return constants.LogLevelFatal
	default:
		return constants.LogLevelInfo
	}
}

func convertFields(fields []Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}
	return zapFields
}
