package logger

import (
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger passed to tasks.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	With(fields ...zap.Field) *zap.Logger
	Sync() error
}

// Options configures the logger.
type Options struct {
	Verbose bool
	Writer  io.Writer
}

// New creates a console logger writing to stderr.
func New(verbose bool) Logger {
	return NewWithOptions(Options{Verbose: verbose, Writer: os.Stderr})
}

// NewWithOptions creates a console logger with colored levels.
func NewWithOptions(opts Options) Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    coloredLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(opts.Writer),
		level,
	)
	return zap.New(core)
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return zap.NewNop()
}

func coloredLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var levelColor *color.Color
	switch l {
	case zapcore.DebugLevel:
		levelColor = color.New(color.FgWhite)
	case zapcore.InfoLevel:
		levelColor = color.New(color.FgBlue)
	case zapcore.WarnLevel:
		levelColor = color.New(color.FgYellow)
	case zapcore.ErrorLevel:
		levelColor = color.New(color.FgRed)
	default:
		levelColor = color.New(color.FgRed, color.Bold)
	}
	enc.AppendString(levelColor.Sprint(l.CapitalString()))
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(color.New(color.FgWhite).Sprintf("[%s]", t.Format("15:04:05")))
}
