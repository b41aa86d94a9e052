// Package logging builds the logr.Logger the demo writes trace lines to.
//
// Two backends are supported: zap (through zapr) in console or JSON
// encoding, and the standard library logger (through stdr).
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format is the log output format.
type Format string

// Output formats.
const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatStd     Format = "std"
)

// Config holds logging configuration.
type Config struct {
	// Output is the writer to send logs to. Defaults to os.Stderr.
	Output io.Writer

	// Format selects the backend and encoding.
	Format Format

	// Verbosity enables logr V-levels up to and including this value.
	Verbosity int
}

// DefaultConfig returns console output on stderr at verbosity 0.
func DefaultConfig() Config {
	return Config{
		Output: os.Stderr,
		Format: FormatConsole,
	}
}

// New builds a logger from cfg. The returned flush function must be called
// before the process exits.
func New(cfg Config) (logr.Logger, func(), error) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	switch cfg.Format {
	case FormatConsole, "":
		return newZap(zapcore.NewConsoleEncoder(encoderConfig()), out, cfg.Verbosity)
	case FormatJSON:
		return newZap(zapcore.NewJSONEncoder(encoderConfig()), out, cfg.Verbosity)
	case FormatStd:
		stdr.SetVerbosity(cfg.Verbosity)
		return stdr.New(stdlog.New(out, "", stdlog.LstdFlags|stdlog.Lmicroseconds)), func() {}, nil
	default:
		return logr.Discard(), func() {}, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

func newZap(enc zapcore.Encoder, out io.Writer, verbosity int) (logr.Logger, func(), error) {
	// logr V(n) maps to zap level -n.
	level := zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	core := zapcore.NewCore(enc, zapcore.AddSync(out), level)
	zl := zap.New(core)
	return zapr.NewLogger(zl), func() { _ = zl.Sync() }, nil
}
