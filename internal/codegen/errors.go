package codegen

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks fatal configuration problems.
	ErrConfig = errors.New("invalid codegen configuration")

	// ErrGenerator marks a generator process that exited non-zero.
	ErrGenerator = errors.New("code generator failed")
)

// ConfigError reports a setting that is missing or unusable.
type ConfigError struct {
	Field string
	Msg   string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	msg := ErrConfig.Error()
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Msg != "" {
		msg += " " + e.Msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConfig}
	}
	return []error{ErrConfig, e.Cause}
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// GeneratorError reports a non-zero exit from the generator process.
// The process output has already been streamed to the caller unmodified.
type GeneratorError struct {
	ExitCode    int
	CommandLine CommandLine
}

func (e *GeneratorError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: exit status %d: %s", ErrGenerator, e.ExitCode, e.CommandLine)
}

func (e *GeneratorError) Unwrap() error { return ErrGenerator }
