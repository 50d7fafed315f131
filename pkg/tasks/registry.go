package tasks

import (
	"context"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/MatrixETF/SingleAsset/pkg/contracts"
	"github.com/MatrixETF/SingleAsset/pkg/task"
	"github.com/MatrixETF/SingleAsset/pkg/taskerr"
)

func deploySmartPoolRegistry(ctx context.Context, env *task.Env, args task.Args) (*task.Output, error) {
	addr, err := deploy(ctx, env, contracts.KindSmartPoolRegistry, contracts.DeployOptions{})
	if err != nil {
		return nil, err
	}
	return &task.Output{Label: "smartPoolRegistry deployed to:", Value: addr.Hex()}, nil
}

func smartPoolRegister(ctx context.Context, env *task.Env, args task.Args) (*task.Output, error) {
	registryAddr, err := args.Address("register")
	if err != nil {
		return nil, err
	}
	pool, err := args.Address("pool")
	if err != nil {
		return nil, err
	}
	id, err := env.Signer()
	if err != nil {
		return nil, err
	}

	registry, err := contracts.BindSmartPoolRegistry(env.Binder, registryAddr, id)
	if err != nil {
		return nil, err
	}
	env.Log().Debug("registering pool", zap.Stringer("registry", registry), zap.Stringer("pool", pool))
	tx, err := registry.AddSmartPool(ctx, pool)
	if err != nil {
		return nil, err
	}
	receipt, err := env.Confirm(ctx, tx, "addSmartPool")
	if err != nil {
		return nil, err
	}
	return &task.Output{Label: "addSmartPool tx:", Value: receipt.TxHash.Hex()}, nil
}

func inRegister(ctx context.Context, env *task.Env, args task.Args) (*task.Output, error) {
	registryAddr, err := args.Address("register")
	if err != nil {
		return nil, err
	}
	pool, err := args.Address("pool")
	if err != nil {
		return nil, err
	}
	id, err := env.Signer()
	if err != nil {
		return nil, err
	}

	registry, err := contracts.BindSmartPoolRegistry(env.Binder, registryAddr, id)
	if err != nil {
		return nil, err
	}
	ok, err := registry.InRegistry(ctx, pool)
	if err != nil {
		return nil, err
	}
	return &task.Output{Label: "in-register:", Value: strconv.FormatBool(ok)}, nil
}

func removeSmartPool(ctx context.Context, env *task.Env, args task.Args) (*task.Output, error) {
	registryAddr, err := args.Address("register")
	if err != nil {
		return nil, err
	}
	index, err := args.Uint("index")
	if err != nil {
		return nil, err
	}
	id, err := env.Signer()
	if err != nil {
		return nil, err
	}

	registry, err := contracts.BindSmartPoolRegistry(env.Binder, registryAddr, id)
	if err != nil {
		return nil, err
	}
	tx, err := registry.RemoveSmartPool(ctx, index)
	if err != nil {
		return nil, err
	}
	receipt, err := env.Confirm(ctx, tx, "removeSmartPool")
	if err != nil {
		return nil, err
	}
	return &task.Output{Label: "removeSmartPool tx:", Value: receipt.TxHash.Hex()}, nil
}

func smartPools(ctx context.Context, env *task.Env, args task.Args) (*task.Output, error) {
	registryAddr, err := args.Address("register")
	if err != nil {
		return nil, err
	}
	id, err := env.Signer()
	if err != nil {
		return nil, err
	}

	registry, err := contracts.BindSmartPoolRegistry(env.Binder, registryAddr, id)
	if err != nil {
		return nil, err
	}
	pools, err := registry.GetSmartPools(ctx)
	if err != nil {
		return nil, err
	}
	if len(pools) == 0 {
		return &task.Output{Label: "smartPools:", Value: "none"}, nil
	}
	hexes := make([]string, len(pools))
	for i, p := range pools {
		hexes[i] = p.Hex()
	}
	return &task.Output{Label: "smartPools:", Value: strings.Join(hexes, ", ")}, nil
}

// deploy submits a contract creation with the primary identity and waits for
// it to be mined. The address comes from the receipt when the node reports one.
func deploy(ctx context.Context, env *task.Env, kind contracts.Kind, opts contracts.DeployOptions, ctorArgs ...interface{}) (common.Address, error) {
	id, err := env.Signer()
	if err != nil {
		return common.Address{}, err
	}
	addr, tx, err := env.Deployer.Deploy(ctx, kind, id, opts, ctorArgs...)
	if err != nil {
		return common.Address{}, err
	}
	env.Log().Info("Deploying contract", zap.String("kind", string(kind)), zap.String("address", addr.Hex()))

	receipt, err := env.Confirm(ctx, tx, "deploy "+string(kind))
	if err != nil {
		return common.Address{}, err
	}
	if receipt.ContractAddress != (common.Address{}) {
		addr = receipt.ContractAddress
	}
	if addr == (common.Address{}) {
		return common.Address{}, taskerr.Wrap(taskerr.TaskExecutionFailed,
			errors.New("zero contract address"), "deployment did not create a contract").WithTx(receipt.TxHash.Hex())
	}
	return addr, nil
}
