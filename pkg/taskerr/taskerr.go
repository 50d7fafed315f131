// Package taskerr defines the error taxonomy shared by the task engine, the
// contract bindings and the confirmation waiter. Every failure that reaches
// the CLI boundary is (or wraps) an *Error carrying a Kind, which maps to a
// stable process exit code.
package taskerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies a task failure.
type Kind int

const (
	// TaskExecutionFailed is the catch-all for handler failures not otherwise classified.
	TaskExecutionFailed Kind = iota + 1
	UnknownTask
	MissingParameter
	BindingAddressInvalid
	NetworkRejected
	Reverted
	Timeout
)

var kindNames = map[Kind]string{
	TaskExecutionFailed:   "TaskExecutionFailed",
	UnknownTask:           "UnknownTask",
	MissingParameter:      "MissingParameter",
	BindingAddressInvalid: "BindingAddressInvalid",
	NetworkRejected:       "NetworkRejected",
	Reverted:              "Reverted",
	Timeout:               "Timeout",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ExitCode returns the process exit code for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case UnknownTask:
		return 2
	case MissingParameter:
		return 3
	case BindingAddressInvalid:
		return 4
	case NetworkRejected:
		return 5
	case Reverted:
		return 6
	case Timeout:
		return 7
	default:
		return 1
	}
}

// Error is a classified task failure.
type Error struct {
	Kind    Kind
	Task    string
	Param   string
	TxHash  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Task != "" {
		fmt.Fprintf(&b, "task %q: ", e.Task)
	}
	b.WriteString(e.Message)
	if e.TxHash != "" && !strings.Contains(e.Message, e.TxHash) {
		fmt.Fprintf(&b, " (tx %s)", e.TxHash)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an unwrapped classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause under kind.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithTx attaches a transaction hash and returns the receiver.
func (e *Error) WithTx(hash string) *Error {
	e.TxHash = hash
	return e
}

// WithParam attaches the offending parameter name and returns the receiver.
func (e *Error) WithParam(name string) *Error {
	e.Param = name
	return e
}

// As returns the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// KindOf returns the kind of err, or TaskExecutionFailed when err is not classified.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return TaskExecutionFailed
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// ExitCode maps err to a process exit code; nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}
