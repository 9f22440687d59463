// Package logging builds the process-wide logr.Logger.
package logging

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the log format and verbosity.
type Options struct {
	// Verbosity is the highest logr V-level that is emitted.
	Verbosity int

	// JSON switches from the console encoder to JSON lines.
	JSON bool

	// Output receives log lines.
	Output io.Writer
}

// New returns a zap-backed logr.Logger.
func New(opts Options) (logr.Logger, error) {
	if opts.Verbosity < 0 {
		return logr.Discard(), fmt.Errorf("verbosity must not be negative, got %d", opts.Verbosity)
	}
	if opts.Output == nil {
		return logr.Discard(), fmt.Errorf("log output is nil")
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	var enc zapcore.Encoder
	if opts.JSON {
		encCfg = zap.NewProductionEncoderConfig()
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	// logr V(n) maps to zap level -n.
	level := zap.NewAtomicLevelAt(zapcore.Level(-opts.Verbosity))
	core := zapcore.NewCore(enc, zapcore.AddSync(opts.Output), level)
	return zapr.NewLogger(zap.New(core)), nil
}
