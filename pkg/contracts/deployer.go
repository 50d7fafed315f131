package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/MatrixETF/SingleAsset/pkg/identity"
)

// DeployOptions tunes a single deployment.
type DeployOptions struct {
	// GasPrice overrides the network gas price for this deployment only.
	GasPrice *big.Int
}

// Deployer submits contract creation transactions. It does not wait for them
// to be mined; the returned address is derived from the sender and nonce.
type Deployer interface {
	Deploy(ctx context.Context, kind Kind, id *identity.Identity, opts DeployOptions, args ...interface{}) (common.Address, *types.Transaction, error)
}

// ArtifactDeployer deploys contracts from compiled artifacts.
type ArtifactDeployer struct {
	backend   bind.ContractBackend
	artifacts *ArtifactStore
	chainID   *big.Int
	gasPrice  *big.Int
}

func NewArtifactDeployer(backend bind.ContractBackend, artifacts *ArtifactStore, chainID, gasPrice *big.Int) *ArtifactDeployer {
	return &ArtifactDeployer{backend: backend, artifacts: artifacts, chainID: chainID, gasPrice: gasPrice}
}

func (d *ArtifactDeployer) Deploy(ctx context.Context, kind Kind, id *identity.Identity, opts DeployOptions, args ...interface{}) (common.Address, *types.Transaction, error) {
	if id == nil {
		return common.Address{}, nil, identity.ErrNoIdentity
	}
	name, err := ArtifactName(kind)
	if err != nil {
		return common.Address{}, nil, err
	}
	artifact, err := d.artifacts.Load(name)
	if err != nil {
		return common.Address{}, nil, err
	}

	txOpts, err := id.TransactOpts(ctx, d.chainID)
	if err != nil {
		return common.Address{}, nil, err
	}
	switch {
	case opts.GasPrice != nil:
		txOpts.GasPrice = new(big.Int).Set(opts.GasPrice)
	case d.gasPrice != nil:
		txOpts.GasPrice = new(big.Int).Set(d.gasPrice)
	}

	address, tx, _, err := bind.DeployContract(txOpts, artifact.ABI, artifact.Bytecode, d.backend, args...)
	if err != nil {
		return common.Address{}, nil, classify(err, "deploy "+name, common.Address{})
	}
	return address, tx, nil
}
