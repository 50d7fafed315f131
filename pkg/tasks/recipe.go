package tasks

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/MatrixETF/SingleAsset/pkg/contracts"
	"github.com/MatrixETF/SingleAsset/pkg/task"
	"github.com/MatrixETF/SingleAsset/pkg/taskerr"
	"github.com/MatrixETF/SingleAsset/utils"
)

const gweiDecimals = 9

func deployV1CompatibleRecipe(ctx context.Context, env *task.Env, args task.Args) (*task.Output, error) {
	weth, err := args.Address("weth")
	if err != nil {
		return nil, err
	}
	uni, err := args.Address("uni")
	if err != nil {
		return nil, err
	}
	registry, err := args.Address("registry")
	if err != nil {
		return nil, err
	}
	gasPrice, err := utils.ParseUnits(args.Get("gas-price-gwei"), gweiDecimals)
	if err != nil {
		return nil, taskerr.Wrap(taskerr.TaskExecutionFailed, err, "parameter --gas-price-gwei").WithParam("gas-price-gwei")
	}

	addr, err := deploy(ctx, env, contracts.KindV1CompatibleRecipe,
		contracts.DeployOptions{GasPrice: gasPrice}, weth, uni, registry)
	if err != nil {
		return nil, err
	}
	return &task.Output{Label: "v1CompatibleRecipe deployed to:", Value: addr.Hex()}, nil
}

func toETF(ctx context.Context, env *task.Env, args task.Args) (*task.Output, error) {
	recipeAddr, err := args.Address("recipe")
	if err != nil {
		return nil, err
	}
	pool, err := args.Address("pool")
	if err != nil {
		return nil, err
	}
	amount, err := args.Ether("amount")
	if err != nil {
		return nil, err
	}
	id, err := env.Signer()
	if err != nil {
		return nil, err
	}

	recipe, err := contracts.BindRecipe(env.Binder, recipeAddr, id)
	if err != nil {
		return nil, err
	}
	// The ether sent pays for the pool tokens, so the amount is both argument and value.
	tx, err := recipe.ToETF(ctx, pool, amount, amount)
	if err != nil {
		return nil, err
	}
	receipt, err := env.Confirm(ctx, tx, "toETF")
	if err != nil {
		return nil, err
	}
	return &task.Output{Label: "toETF tx:", Value: receipt.TxHash.Hex()}, nil
}

// toETH approves the recipe for the pool token and then converts. An
// approval that was confirmed stays in place if the conversion fails.
func toETH(ctx context.Context, env *task.Env, args task.Args) (*task.Output, error) {
	recipeAddr, err := args.Address("recipe")
	if err != nil {
		return nil, err
	}
	pool, err := args.Address("pool")
	if err != nil {
		return nil, err
	}
	amount, err := args.Ether("amount")
	if err != nil {
		return nil, err
	}
	id, err := env.Signer()
	if err != nil {
		return nil, err
	}

	token, err := contracts.BindERC20(env.Binder, pool, id)
	if err != nil {
		return nil, err
	}
	recipe, err := contracts.BindRecipe(env.Binder, recipeAddr, id)
	if err != nil {
		return nil, err
	}

	env.Log().Info("approving token", zap.Stringer("token", token), zap.Stringer("spender", recipe))
	approval, err := token.Approve(ctx, recipeAddr, contracts.MaxUint256)
	if err != nil {
		return nil, errors.Wrap(err, "approve")
	}
	if _, err := env.Confirm(ctx, approval, "approve"); err != nil {
		return nil, errors.Wrap(err, "approve")
	}

	tx, err := recipe.ToETH(ctx, pool, amount)
	if err != nil {
		return nil, err
	}
	receipt, err := env.Confirm(ctx, tx, "toETH")
	if err != nil {
		return nil, err
	}
	return &task.Output{Label: "toETH tx:", Value: receipt.TxHash.Hex()}, nil
}

// poolBalance reads the signer's pool token balance in the token's own
// decimals. With --recipe it also reports what toETH may spend.
func poolBalance(ctx context.Context, env *task.Env, args task.Args) (*task.Output, error) {
	pool, err := args.Address("pool")
	if err != nil {
		return nil, err
	}
	var spender *common.Address
	if args.Get("recipe") != "" {
		recipeAddr, err := args.Address("recipe")
		if err != nil {
			return nil, err
		}
		spender = &recipeAddr
	}
	id, err := env.Signer()
	if err != nil {
		return nil, err
	}

	token, err := contracts.BindERC20(env.Binder, pool, id)
	if err != nil {
		return nil, err
	}
	decimals, err := token.Decimals(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := token.BalanceOf(ctx, id.Address())
	if err != nil {
		return nil, err
	}
	env.Log().Debug("pool balance", zap.Stringer("token", token), zap.Stringer("owner", id.Address()),
		zap.Uint8("decimals", decimals))

	value := utils.FormatUnits(balance, int(decimals))
	if spender != nil {
		allowance, err := token.Allowance(ctx, id.Address(), *spender)
		if err != nil {
			return nil, err
		}
		value += ", allowance " + formatAllowance(allowance, int(decimals))
	}
	return &task.Output{Label: "poolBalance:", Value: value}, nil
}

func formatAllowance(allowance *big.Int, decimals int) string {
	if allowance.Cmp(contracts.MaxUint256) == 0 {
		return "unlimited"
	}
	return utils.FormatUnits(allowance, decimals)
}

func calcTest(ctx context.Context, env *task.Env, args task.Args) (*task.Output, error) {
	pool, err := args.Address("pool")
	if err != nil {
		return nil, err
	}
	recipeAddr, err := args.Address("recipe")
	if err != nil {
		return nil, err
	}
	amount, err := args.Ether("amount")
	if err != nil {
		return nil, err
	}
	id, err := env.Signer()
	if err != nil {
		return nil, err
	}

	recipe, err := contracts.BindRecipe(env.Binder, recipeAddr, id)
	if err != nil {
		return nil, err
	}
	out, err := recipe.CalcToSmartPool(ctx, pool, amount)
	if err != nil {
		return nil, err
	}
	return &task.Output{Label: "calcToSmartPool:", Value: utils.FormatEther(out)}, nil
}
