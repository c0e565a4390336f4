// internal/logger/pretty.go
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// Keys shared by the JSON encoder and the buffer parser.
const (
	keyTime    = "ts"
	keyLevel   = "level"
	keyName    = "logger"
	keyMessage = "msg"
)

// Options controls how New builds a logger.
type Options struct {
	// Debug lowers the level to debug.
	Debug bool
	// Console receives coloured output. Nil means stdout; set NoConsole to
	// disable console output entirely.
	Console   io.Writer
	NoConsole bool
	// Buffer additionally receives every entry as JSON.
	Buffer *Buffer
}

// New creates a logger with coloured console output and an optional buffer.
func New(opts Options) (*zap.Logger, error) {
	level := levelFor(opts.Debug)

	var cores []zapcore.Core
	if !opts.NoConsole {
		console := opts.Console
		if console == nil {
			console = os.Stdout
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(prettyEncoderConfig()),
			zapcore.Lock(zapcore.AddSync(console)),
			level,
		))
	}
	if opts.Buffer != nil {
		cores = append(cores, bufferCore(opts.Buffer, level))
	}
	if len(cores) == 0 {
		return nil, fmt.Errorf("logger has no output")
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// NewTUI creates a logger that only writes to buffer, so terminal UIs are
// not broken by log output.
func NewTUI(debug bool, buffer *Buffer) (*zap.Logger, error) {
	if buffer == nil {
		return nil, fmt.Errorf("buffer is required for TUI logger")
	}
	return zap.New(bufferCore(buffer, levelFor(debug))), nil
}

func levelFor(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

func bufferCore(buffer *Buffer, level zapcore.Level) zapcore.Core {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     keyMessage,
		LevelKey:       keyLevel,
		TimeKey:        keyTime,
		NameKey:        keyName,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), buffer, level)
}

func prettyEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:       keyMessage,
		LevelKey:         keyLevel,
		TimeKey:          keyTime,
		NameKey:          keyName,
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      customLevelEncoder,
		EncodeTime:       customTimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
}

// customLevelEncoder formats log levels with colors
func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(LevelColor(level.String()) + "[" + level.CapitalString() + "]" + ColorReset)
}

// LevelColor returns the terminal color used for a lowercase level name.
func LevelColor(level string) string {
	switch level {
	case "debug":
		return ColorCyan
	case "info":
		return ColorGreen
	case "warn":
		return ColorYellow
	case "error":
		return ColorRed
	case "dpanic", "panic", "fatal":
		return ColorRed + ColorBold
	default:
		return ColorReset
	}
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}
