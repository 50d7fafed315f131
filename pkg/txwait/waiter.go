// Package txwait blocks until submitted transactions reach a confirmation depth.
package txwait

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/MatrixETF/SingleAsset/pkg/logger"
	"github.com/MatrixETF/SingleAsset/pkg/taskerr"
)

// Status is the execution outcome of a mined transaction.
type Status string

const (
	StatusSuccess Status = "success"
	StatusRevert  Status = "revert"
)

// Receipt is the confirmation result reported to tasks.
type Receipt struct {
	TxHash          common.Hash
	Status          Status
	BlockNumber     uint64
	Confirmations   uint64
	ContractAddress common.Address
	GasUsed         uint64
}

// Backend is the chain access the waiter needs.
type Backend interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Waiter waits for transactions to be confirmed.
type Waiter interface {
	WaitForConfirmations(ctx context.Context, tx *types.Transaction, count uint64) (*Receipt, error)
}

// Options bounds the wait.
type Options struct {
	PollInterval time.Duration
	Timeout      time.Duration
}

// DefaultOptions polls every two seconds for up to five minutes.
func DefaultOptions() Options {
	return Options{PollInterval: 2 * time.Second, Timeout: 5 * time.Minute}
}

// PollingWaiter polls the node for the receipt and then for new blocks.
type PollingWaiter struct {
	backend Backend
	opts    Options
}

func NewPollingWaiter(backend Backend, opts Options) *PollingWaiter {
	def := DefaultOptions()
	if opts.PollInterval <= 0 {
		opts.PollInterval = def.PollInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	return &PollingWaiter{backend: backend, opts: opts}
}

// WaitForConfirmations returns once tx is mined with at least count
// confirmations (the inclusion block counts as one). A failed execution status
// is reported as Reverted as soon as the receipt is seen.
func (w *PollingWaiter) WaitForConfirmations(ctx context.Context, tx *types.Transaction, count uint64) (*Receipt, error) {
	if tx == nil {
		return nil, errors.New("no transaction to wait for")
	}
	if count == 0 {
		count = 1
	}
	hash := tx.Hash()
	log := logger.FromContext(ctx).With(zap.String("txHash", hash.Hex()))

	waitCtx, cancel := context.WithTimeout(ctx, w.opts.Timeout)
	defer cancel()
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	var (
		receipt *types.Receipt
		mined   uint64
	)
	for {
		if receipt == nil {
			r, err := w.backend.TransactionReceipt(waitCtx, hash)
			switch {
			case err == nil && r != nil:
				receipt = r
				if r.BlockNumber != nil {
					mined = r.BlockNumber.Uint64()
				}
				if r.Status != types.ReceiptStatusSuccessful {
					return toReceipt(hash, r, StatusRevert, 1), taskerr.New(taskerr.Reverted, "transaction reverted on-chain").WithTx(hash.Hex())
				}
				log.Debug("Transaction mined", zap.Uint64("block", mined))
			case err != nil && !errors.Is(err, ethereum.NotFound) && waitCtx.Err() == nil:
				// Transient polling failures are retried until the timeout.
				log.Debug("Receipt not available yet", zap.Error(err))
			}
		}

		if receipt != nil {
			head, err := w.backend.BlockNumber(waitCtx)
			if err == nil {
				confirmations := confirmationsAt(head, mined)
				if confirmations >= count {
					return toReceipt(hash, receipt, StatusSuccess, confirmations), nil
				}
				log.Debug("Waiting for confirmations", zap.Uint64("have", confirmations), zap.Uint64("want", count))
			}
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, errors.Wrapf(ctx.Err(), "waiting for transaction %s", hash.Hex())
			}
			return nil, taskerr.Wrap(taskerr.Timeout, waitCtx.Err(),
				"timed out waiting for confirmations after "+w.opts.Timeout.String()).WithTx(hash.Hex())
		case <-ticker.C:
		}
	}
}

func confirmationsAt(head, block uint64) uint64 {
	if head < block {
		return 0
	}
	return head - block + 1
}

func toReceipt(hash common.Hash, r *types.Receipt, status Status, confirmations uint64) *Receipt {
	out := &Receipt{
		TxHash:          hash,
		Status:          status,
		Confirmations:   confirmations,
		ContractAddress: r.ContractAddress,
		GasUsed:         r.GasUsed,
	}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	return out
}
