package taskerr

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "unclassified", err: errors.New("boom"), want: 1},
		{name: "unknown task", err: New(UnknownTask, "unknown task"), want: 2},
		{name: "missing parameter", err: New(MissingParameter, "missing"), want: 3},
		{name: "binding", err: New(BindingAddressInvalid, "no code"), want: 4},
		{name: "rejected", err: New(NetworkRejected, "rejected"), want: 5},
		{name: "reverted", err: New(Reverted, "reverted"), want: 6},
		{name: "timeout", err: New(Timeout, "timeout"), want: 7},
		{name: "wrapped reverted", err: errors.Wrap(New(Reverted, "reverted"), "approve"), want: 6},
		{name: "fmt wrapped timeout", err: fmt.Errorf("wait: %w", New(Timeout, "timeout")), want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(Reverted, errors.New("execution reverted"), "transaction reverted").WithTx("0xabc")
	err.Task = "to-eth"
	assert.Equal(t, `task "to-eth": transaction reverted (tx 0xabc): execution reverted`, err.Error())

	missing := Newf(MissingParameter, "missing required parameter %q", "pool").WithParam("pool")
	assert.Equal(t, "pool", missing.Param)
	assert.Equal(t, `missing required parameter "pool"`, missing.Error())
}

func TestIsAndUnwrap(t *testing.T) {
	root := errors.New("dial tcp: connection refused")
	err := errors.Wrap(Wrap(NetworkRejected, root, "call inRegistry"), "in-register")

	assert.True(t, Is(err, NetworkRejected))
	assert.False(t, Is(err, Reverted))
	assert.ErrorIs(t, err, root)
	assert.Equal(t, "NetworkRejected", KindOf(err).String())
	assert.Equal(t, TaskExecutionFailed, KindOf(root))
}
