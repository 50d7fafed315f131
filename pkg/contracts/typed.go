package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/MatrixETF/SingleAsset/pkg/identity"
	"github.com/MatrixETF/SingleAsset/pkg/taskerr"
)

// MaxUint256 is the unlimited ERC20 allowance.
var MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// SmartPoolRegistry is the typed proxy of ISmartPoolRegistry.
type SmartPoolRegistry struct {
	Contract
}

// BindSmartPoolRegistry resolves a registry handle at address.
func BindSmartPoolRegistry(b Binder, address common.Address, id *identity.Identity) (*SmartPoolRegistry, error) {
	c, err := b.Resolve(KindSmartPoolRegistry, address, id)
	if err != nil {
		return nil, err
	}
	return &SmartPoolRegistry{Contract: c}, nil
}

func (r *SmartPoolRegistry) AddSmartPool(ctx context.Context, pool common.Address) (*types.Transaction, error) {
	return r.Transact(ctx, nil, "addSmartPool", pool)
}

func (r *SmartPoolRegistry) RemoveSmartPool(ctx context.Context, index *big.Int) (*types.Transaction, error) {
	return r.Transact(ctx, nil, "removeSmartPool", index)
}

func (r *SmartPoolRegistry) InRegistry(ctx context.Context, pool common.Address) (bool, error) {
	out, err := r.Call(ctx, "inRegistry", pool)
	if err != nil {
		return false, err
	}
	return single[bool](out, "inRegistry")
}

func (r *SmartPoolRegistry) GetSmartPools(ctx context.Context) ([]common.Address, error) {
	out, err := r.Call(ctx, "getSmartPools")
	if err != nil {
		return nil, err
	}
	return single[[]common.Address](out, "getSmartPools")
}

// Recipe is the typed proxy of V1CompatibleRecipe.
type Recipe struct {
	Contract
}

// BindRecipe resolves a recipe handle at address.
func BindRecipe(b Binder, address common.Address, id *identity.Identity) (*Recipe, error) {
	c, err := b.Resolve(KindV1CompatibleRecipe, address, id)
	if err != nil {
		return nil, err
	}
	return &Recipe{Contract: c}, nil
}

// ToETF calls toETF(address,uint256), attaching value as ether.
func (r *Recipe) ToETF(ctx context.Context, pool common.Address, amount, value *big.Int) (*types.Transaction, error) {
	return r.Transact(ctx, value, "toETF", pool, amount)
}

func (r *Recipe) ToETH(ctx context.Context, pool common.Address, amount *big.Int) (*types.Transaction, error) {
	return r.Transact(ctx, nil, "toETH", pool, amount)
}

func (r *Recipe) CalcToSmartPool(ctx context.Context, pool common.Address, amount *big.Int) (*big.Int, error) {
	out, err := r.Call(ctx, "calcToSmartPool", pool, amount)
	if err != nil {
		return nil, err
	}
	return single[*big.Int](out, "calcToSmartPool")
}

// ERC20 is the typed proxy of the pool token.
type ERC20 struct {
	Contract
}

// BindERC20 resolves a token handle at address.
func BindERC20(b Binder, address common.Address, id *identity.Identity) (*ERC20, error) {
	c, err := b.Resolve(KindERC20, address, id)
	if err != nil {
		return nil, err
	}
	return &ERC20{Contract: c}, nil
}

func (t *ERC20) Approve(ctx context.Context, spender common.Address, amount *big.Int) (*types.Transaction, error) {
	return t.Transact(ctx, nil, "approve", spender, amount)
}

func (t *ERC20) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	out, err := t.Call(ctx, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return single[*big.Int](out, "allowance")
}

func (t *ERC20) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := t.Call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return single[*big.Int](out, "balanceOf")
}

func (t *ERC20) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.Call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	return single[uint8](out, "decimals")
}

func single[T any](out []interface{}, method string) (T, error) {
	var zero T
	if len(out) != 1 {
		return zero, taskerr.Newf(taskerr.TaskExecutionFailed, "%s returned %d values, expected 1", method, len(out))
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, taskerr.Newf(taskerr.TaskExecutionFailed, "%s returned %T, expected %T", method, out[0], zero)
	}
	return v, nil
}

// String renders the handle for logs.
func (r *SmartPoolRegistry) String() string { return fmt.Sprintf("SmartPoolRegistry(%s)", r.Address()) }
func (r *Recipe) String() string            { return fmt.Sprintf("V1CompatibleRecipe(%s)", r.Address()) }
func (t *ERC20) String() string             { return fmt.Sprintf("ERC20(%s)", t.Address()) }
