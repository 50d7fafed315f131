package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestVerbosityControlsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOptions(Options{Writer: &buf})
	l.Debug("hidden")
	l.Info("shown", zap.String("task", "calc-test"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "calc-test")

	buf.Reset()
	verbose := NewWithOptions(Options{Verbose: true, Writer: &buf})
	verbose.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOptions(Options{Writer: &buf})

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "hello")

	assert.NotNil(t, FromContext(context.Background()))
}
