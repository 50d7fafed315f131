package cmd

import (
	"context"

	"go.uber.org/zap"

	"github.com/MatrixETF/SingleAsset/pkg/config"
	"github.com/MatrixETF/SingleAsset/pkg/contracts"
	"github.com/MatrixETF/SingleAsset/pkg/ethclient"
	"github.com/MatrixETF/SingleAsset/pkg/identity"
	"github.com/MatrixETF/SingleAsset/pkg/logger"
	"github.com/MatrixETF/SingleAsset/pkg/task"
	"github.com/MatrixETF/SingleAsset/pkg/taskerr"
	"github.com/MatrixETF/SingleAsset/pkg/txwait"
)

// envBuilder creates the task environment; the returned func releases it.
type envBuilder func(ctx context.Context, opts *globalOptions, log logger.Logger) (*task.Env, func(), error)

// newEnv loads and freezes the configuration, connects to the selected
// network and wires the collaborators handed to the tasks.
func newEnv(ctx context.Context, opts *globalOptions, log logger.Logger) (*task.Env, func(), error) {
	cfg, err := config.Load(config.LoadOptions{EnvFile: opts.envFile, Network: opts.network})
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Freeze(); err != nil {
		return nil, nil, err
	}

	client, err := ethclient.Dial(ctx, cfg.Network.URL)
	if err != nil {
		return nil, nil, taskerr.Wrap(taskerr.NetworkRejected, err, "network "+cfg.Network.Name+" is unavailable")
	}
	chainID := client.GetChainID()
	if head, err := client.GetCurrentBlockNumber(ctx); err == nil {
		log.Debug("Connected to network",
			zap.String("network", cfg.Network.Name),
			zap.String("chainId", chainID.String()),
			zap.Uint64("block", head),
			zap.String("solc", cfg.Solc.Version))
	}

	ids, err := identity.Load(ctx, cfg, client.RPC(), log)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	if len(ids.Identities()) == 0 {
		log.Warn("No accounts configured for network", zap.String("network", cfg.Network.Name))
	}

	gasPrice := cfg.Network.GasPrice
	env := &task.Env{
		Config:     cfg,
		Identities: ids,
		Binder:     contracts.NewResolver(client, chainID, gasPrice),
		Deployer:   contracts.NewArtifactDeployer(client, contracts.NewArtifactStore(cfg.ArtifactsDir), chainID, gasPrice),
		Waiter:     txwait.NewPollingWaiter(client, txwait.Options{PollInterval: cfg.PollInterval, Timeout: cfg.ConfirmTimeout}),
		Balances:   client,
		Logger:     log,
	}
	return env, client.Close, nil
}
