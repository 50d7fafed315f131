package identity

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/MatrixETF/SingleAsset/pkg/config"
	"github.com/MatrixETF/SingleAsset/pkg/logger"
)

// RPCCaller is the part of the go-ethereum rpc client used for accounts
// the node keeps unlocked.
type RPCCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// FromNode lists the accounts unlocked on the node. Each one signs through
// eth_signTransaction.
func FromNode(ctx context.Context, node RPCCaller) (*StaticProvider, error) {
	var accounts []common.Address
	if err := node.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, errors.Wrap(err, "failed to list node accounts")
	}
	ids := make([]*Identity, 0, len(accounts))
	for _, addr := range accounts {
		ids = append(ids, &Identity{address: addr, node: node})
	}
	return NewStaticProvider(ids...), nil
}

// Load returns the configured identities. A network without keys falls back
// to the node's own accounts; a node that cannot list them leaves the
// provider empty so read-only tasks still run.
func Load(ctx context.Context, cfg *config.Config, node RPCCaller, log logger.Logger) (*StaticProvider, error) {
	ids, err := FromConfig(cfg)
	if err != nil || len(ids.identities) > 0 || node == nil {
		return ids, err
	}
	nodeIDs, err := FromNode(ctx, node)
	if err != nil {
		log.Warn("Node accounts unavailable", zap.String("network", cfg.Network.Name), zap.Error(err))
		return ids, nil
	}
	if len(nodeIDs.identities) > 0 {
		log.Debug("Signing with node accounts",
			zap.String("network", cfg.Network.Name),
			zap.Int("accounts", len(nodeIDs.identities)))
	}
	return nodeIDs, nil
}

// signTxArgs mirrors the transaction object accepted by eth_signTransaction.
type signTxArgs struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to,omitempty"`
	Gas                  hexutil.Uint64  `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexutil.Big    `json:"value"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	Data                 hexutil.Bytes   `json:"data"`
	ChainID              *hexutil.Big    `json:"chainId,omitempty"`
}

func newSignTxArgs(from common.Address, tx *types.Transaction, chainID *big.Int) signTxArgs {
	args := signTxArgs{
		From:    from,
		To:      tx.To(),
		Gas:     hexutil.Uint64(tx.Gas()),
		Value:   (*hexutil.Big)(tx.Value()),
		Nonce:   hexutil.Uint64(tx.Nonce()),
		Data:    tx.Data(),
		ChainID: (*hexutil.Big)(chainID),
	}
	if tx.Type() == types.DynamicFeeTxType {
		args.MaxFeePerGas = (*hexutil.Big)(tx.GasFeeCap())
		args.MaxPriorityFeePerGas = (*hexutil.Big)(tx.GasTipCap())
	} else {
		args.GasPrice = (*hexutil.Big)(tx.GasPrice())
	}
	return args
}

// nodeSigner asks the node to sign and checks the returned transaction
// recovers to the requested account.
func nodeSigner(ctx context.Context, node RPCCaller, chainID *big.Int) bind.SignerFn {
	txSigner := types.LatestSignerForChainID(chainID)
	return func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
		var res struct {
			Raw hexutil.Bytes `json:"raw"`
		}
		if err := node.CallContext(ctx, &res, "eth_signTransaction", newSignTxArgs(from, tx, chainID)); err != nil {
			return nil, errors.Wrapf(err, "node failed to sign transaction for %s", from)
		}
		signed := new(types.Transaction)
		if err := signed.UnmarshalBinary(res.Raw); err != nil {
			return nil, errors.Wrap(err, "failed to decode signed transaction")
		}
		sender, err := types.Sender(txSigner, signed)
		if err != nil {
			return nil, errors.Wrap(err, "failed to recover signer")
		}
		if sender != from {
			return nil, errors.Errorf("node signed as %s, expected %s", sender, from)
		}
		if signed.Nonce() != tx.Nonce() {
			return nil, errors.Errorf("node signed nonce %d, expected %d", signed.Nonce(), tx.Nonce())
		}
		return signed, nil
	}
}
