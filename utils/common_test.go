package utils

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStringFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "deploy-v1-compatible-recipe"}
	AddStringFlags(cmd, []Flag{
		{Name: "weth", Usage: "The weth address", Required: true},
		{Name: "gas-price-gwei", Usage: "gas price in gwei", Default: "30"},
	})

	weth := cmd.Flags().Lookup("weth")
	require.NotNil(t, weth)
	assert.Equal(t, "The weth address (required)", weth.Usage)
	assert.Empty(t, weth.DefValue)

	gas := cmd.Flags().Lookup("gas-price-gwei")
	require.NotNil(t, gas)
	assert.Equal(t, "30", gas.DefValue)
	assert.Equal(t, "gas price in gwei", gas.Usage)
}

func TestChangedFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected map[string]string
	}{
		{
			name:     "nothing set",
			args:     nil,
			expected: map[string]string{},
		},
		{
			name:     "defaults are not supplied",
			args:     []string{"--weth", "0xabc"},
			expected: map[string]string{"weth": "0xabc"},
		},
		{
			name:     "explicit empty value is supplied",
			args:     []string{"--weth=", "--gas-price-gwei", "5"},
			expected: map[string]string{"weth": "", "gas-price-gwei": "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "deploy"}
			AddStringFlags(cmd, []Flag{{Name: "weth"}, {Name: "gas-price-gwei", Default: "30"}})
			require.NoError(t, cmd.Flags().Parse(tt.args))

			assert.Equal(t, tt.expected, ChangedFlags(cmd, []string{"weth", "gas-price-gwei", "unknown"}))
		})
	}
}
