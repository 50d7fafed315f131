package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatrixETF/SingleAsset/cmd"
)

// PoolAddress is registered in the freshly deployed registry.
const PoolAddress = "0x6B5f6558CB8B3C8Fec2DA0B1edA9b9d5C064ca47"

// requireNode skips unless a local node, a funded key and compiled artifacts are available.
func requireNode(t *testing.T) {
	t.Helper()
	// Skip integration test when running go test ./...
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	for _, key := range []string{"ETH_NODE_URL_LOCALHOST", "LOCALHOST_PRIVATE_KEY"} {
		if os.Getenv(key) == "" {
			t.Skipf("Skipping integration test: %s is not set", key)
		}
	}
	dir := os.Getenv("ARTIFACTS_DIR")
	if dir == "" {
		dir = "artifacts"
	}
	if _, err := os.Stat(filepath.Join(dir, "SmartPoolRegistry.json")); err != nil {
		t.Skipf("Skipping integration test: no SmartPoolRegistry artifact in %s", dir)
	}
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var stdout, stderr bytes.Buffer
	code := cmd.Execute(ctx, append(args, "--network", "localhost"), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	return strings.TrimSpace(stdout.String())
}

func TestRegistryLifecycle(t *testing.T) {
	requireNode(t)

	out := run(t, "deploy-smart-pool-registry")
	registry := strings.TrimSpace(strings.TrimPrefix(out, "smartPoolRegistry deployed to:"))
	require.True(t, common.IsHexAddress(registry), out)

	out = run(t, "in-register", "--register", registry, "--pool", PoolAddress)
	assert.Equal(t, "in-register: false", out)

	out = run(t, "smart-pool-register", "--register", registry, "--pool", PoolAddress)
	assert.Regexp(t, `^addSmartPool tx: 0x[0-9a-f]{64}$`, out)

	out = run(t, "in-register", "--register", registry, "--pool", PoolAddress)
	assert.Equal(t, "in-register: true", out)

	out = run(t, "smart-pools", "--register", registry)
	assert.Contains(t, out, common.HexToAddress(PoolAddress).Hex())
}

func TestMissingCodeIsBindingAddressInvalid(t *testing.T) {
	requireNode(t)

	var stdout, stderr bytes.Buffer
	code := cmd.Execute(context.Background(), []string{
		"in-register",
		"--register", "0x000000000000000000000000000000000000dEaD",
		"--pool", PoolAddress,
		"--network", "localhost",
	}, &stdout, &stderr)
	assert.Equal(t, 4, code, stderr.String())
}
