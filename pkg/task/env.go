package task

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/MatrixETF/SingleAsset/pkg/config"
	"github.com/MatrixETF/SingleAsset/pkg/contracts"
	"github.com/MatrixETF/SingleAsset/pkg/identity"
	"github.com/MatrixETF/SingleAsset/pkg/logger"
	"github.com/MatrixETF/SingleAsset/pkg/txwait"
)

// Confirmations is the depth every state-changing task waits for.
const Confirmations uint64 = 1

// BalanceReader reads native balances at the latest block.
type BalanceReader interface {
	GetAccountBalance(ctx context.Context, account common.Address) (*big.Int, error)
}

// Env carries the collaborators handed to every handler.
type Env struct {
	Config     *config.Config
	Identities identity.Provider
	Binder     contracts.Binder
	Deployer   contracts.Deployer
	Waiter     txwait.Waiter
	// Balances is optional; only the accounts task uses it.
	Balances BalanceReader
	Logger   logger.Logger
}

// Signer returns the identity tasks sign with.
func (e *Env) Signer() (*identity.Identity, error) {
	if e.Identities == nil {
		return nil, identity.ErrNoIdentity
	}
	id, err := e.Identities.Primary()
	if err != nil {
		return nil, errors.Wrap(err, "no signer")
	}
	return id, nil
}

// Confirm waits for tx to reach Confirmations and logs the outcome.
func (e *Env) Confirm(ctx context.Context, tx *types.Transaction, what string) (*txwait.Receipt, error) {
	e.Log().Info("Waiting for confirmation", zap.String("tx", what), zap.String("hash", tx.Hash().Hex()))
	receipt, err := e.Waiter.WaitForConfirmations(ctx, tx, Confirmations)
	if err != nil {
		return receipt, err
	}
	e.Log().Debug("Transaction confirmed",
		zap.String("tx", what),
		zap.Uint64("block", receipt.BlockNumber),
		zap.Uint64("gasUsed", receipt.GasUsed))
	return receipt, nil
}

// Log returns the env logger, or a no-op logger when none is set.
func (e *Env) Log() logger.Logger {
	if e.Logger == nil {
		return logger.Nop()
	}
	return e.Logger
}
