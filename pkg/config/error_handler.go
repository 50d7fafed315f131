package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// CustomError wraps configuration and startup errors with the call site that raised them.
type CustomError struct {
	Msg      string
	Err      error
	File     string
	Line     int
	Function string
}

const maxErrorLength = 1000

func truncate(s string) string {
	if len(s) > maxErrorLength {
		return s[:maxErrorLength] + "..."
	}
	return s
}

func (e *CustomError) Error() string {
	if e.Err == nil {
		return truncate(e.Msg)
	}
	return fmt.Sprintf("%s: %s", truncate(e.Msg), truncate(e.Err.Error()))
}

func (e *CustomError) Unwrap() error { return e.Err }

// Location returns the "file:line (function)" that created the error.
func (e *CustomError) Location() string {
	return fmt.Sprintf("%s:%d (%s)", e.File, e.Line, e.Function)
}

// NewError creates a CustomError with stack information.
// It captures the caller's context by skipping one stack frame (the immediate caller).
func NewError(msg string, err error) *CustomError {
	if msg == "" {
		msg = "unknown error"
	}

	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		return &CustomError{Msg: msg, Err: err, File: "unknown", Function: "unknown"}
	}

	functionName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		functionName = fn.Name()
	}

	return &CustomError{
		Msg:      msg,
		Err:      err,
		File:     file,
		Line:     line,
		Function: functionName,
	}
}

// FormatReport renders err for the terminal. The origin of a CustomError is
// included when verbose is set.
func FormatReport(err error, verbose bool) string {
	var builder strings.Builder
	red := color.New(color.FgRed, color.Bold)
	builder.WriteString(red.Sprint("Error: "))
	builder.WriteString(truncate(err.Error()))
	builder.WriteString("\n")

	if !verbose {
		return builder.String()
	}
	var ce *CustomError
	if errors.As(err, &ce) {
		builder.WriteString(color.New(color.FgWhite).Sprintf("Raised at %s\n", ce.Location()))
	}
	return builder.String()
}
