// Package log is the process-wide structured logger. It wraps a single zap.Logger and
// enriches every entry with the correlation id carried by the context.
package log

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultLogger = "default"

	OutputStdout = "stdout"
	OutputStderr = "stderr"
)

type Field = zap.Field

var (
	String   = zap.String
	Strings  = zap.Strings
	Int      = zap.Int
	Int64    = zap.Int64
	Bool     = zap.Bool
	Any      = zap.Any
	Time     = zap.Time
	Duration = zap.Duration
	Stringer = zap.Stringer
)

func Err(err error) Field {
	return zap.Error(err)
}

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

type options struct {
	level      zapcore.Level
	env        string
	output     string
	caller     bool
	callerSkip int
}

type Option func(*options)

func WithLevel(level string) Option {
	return func(o *options) {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
			o.level = l
		}
	}
}

func DebugLogLevel() Option {
	return func(o *options) { o.level = zapcore.DebugLevel }
}

func InfoLogLevel() Option {
	return func(o *options) { o.level = zapcore.InfoLevel }
}

func WithLogEnvOption(env string) Option {
	return func(o *options) { o.env = strings.ToLower(env) }
}

// WithLogToOption selects the sink: stdout, stderr or a file path.
func WithLogToOption(output string) Option {
	return func(o *options) {
		if output != "" {
			o.output = output
		}
	}
}

func WithCaller(enabled bool) Option {
	return func(o *options) { o.caller = enabled }
}

func AddCallerSkip(skip int) Option {
	return func(o *options) { o.callerSkip = skip }
}

// Init builds the process logger and installs it as the package default.
func Init(name string, opts ...Option) (*zap.Logger, error) {
	o := &options{
		level:  zapcore.InfoLevel,
		output: OutputStdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	var encoder zapcore.Encoder
	if o.env == "" || o.env == "local" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	sink, err := openSink(o.output)
	if err != nil {
		return nil, err
	}

	zapOpts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if o.caller {
		zapOpts = append(zapOpts, zap.AddCaller(), zap.AddCallerSkip(o.callerSkip))
	}

	l := zap.New(zapcore.NewCore(encoder, sink, o.level), zapOpts...).
		With(zap.String("app", name))
	current.Store(l)

	return l, nil
}

func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "", OutputStdout:
		return zapcore.Lock(os.Stdout), nil
	case OutputStderr:
		return zapcore.Lock(os.Stderr), nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", output, err)
		}
		return zapcore.AddSync(f), nil
	}
}

// InitForTest installs a development logger that only prints warnings and above.
func InitForTest() {
	l, err := zap.NewDevelopment(zap.IncreaseLevel(zapcore.WarnLevel))
	if err != nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// L returns the underlying zap logger.
func L() *zap.Logger {
	return current.Load()
}

func Sync() error {
	return current.Load().Sync()
}

func withContext(ctx context.Context, fields []Field) []Field {
	if id := CorrelationID(ctx); id != "" {
		fields = append(fields, zap.String("correlation_id", id))
	}
	return fields
}

func Debug(ctx context.Context, msg string, fields ...Field) {
	current.Load().Debug(msg, withContext(ctx, fields)...)
}

func Info(ctx context.Context, msg string, fields ...Field) {
	current.Load().Info(msg, withContext(ctx, fields)...)
}

func Warn(ctx context.Context, msg string, fields ...Field) {
	current.Load().Warn(msg, withContext(ctx, fields)...)
}

func Error(ctx context.Context, msg string, fields ...Field) {
	current.Load().Error(msg, withContext(ctx, fields)...)
}

func Panic(ctx context.Context, msg string, fields ...Field) {
	current.Load().Panic(msg, withContext(ctx, fields)...)
}

func Fatal(ctx context.Context, msg string, fields ...Field) {
	current.Load().Fatal(msg, withContext(ctx, fields)...)
}

func Debugf(ctx context.Context, format string, args ...any) {
	Debug(ctx, fmt.Sprintf(format, args...))
}

func Infof(ctx context.Context, format string, args ...any) {
	Info(ctx, fmt.Sprintf(format, args...))
}

func Warnf(ctx context.Context, format string, args ...any) {
	Warn(ctx, fmt.Sprintf(format, args...))
}

func Errorf(ctx context.Context, format string, args ...any) {
	Error(ctx, fmt.Sprintf(format, args...))
}

func Fatalf(ctx context.Context, format string, args ...any) {
	Fatal(ctx, fmt.Sprintf(format, args...))
}
