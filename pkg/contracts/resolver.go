package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/MatrixETF/SingleAsset/pkg/abi"
	"github.com/MatrixETF/SingleAsset/pkg/identity"
)

// Binder resolves contract handles.
type Binder interface {
	Resolve(kind Kind, address common.Address, id *identity.Identity) (Contract, error)
}

// Resolver builds go-ethereum bound contracts. Resolution is purely local:
// nothing checks that address hosts a compatible contract until a call is made.
type Resolver struct {
	backend  bind.ContractBackend
	chainID  *big.Int
	gasPrice *big.Int
}

// NewResolver returns a resolver signing for chainID. A non-nil gasPrice is
// forced on every transaction.
func NewResolver(backend bind.ContractBackend, chainID, gasPrice *big.Int) *Resolver {
	return &Resolver{backend: backend, chainID: chainID, gasPrice: gasPrice}
}

func (r *Resolver) Resolve(kind Kind, address common.Address, id *identity.Identity) (Contract, error) {
	if id == nil {
		return nil, identity.ErrNoIdentity
	}
	info, err := lookupKind(kind)
	if err != nil {
		return nil, err
	}
	parsed, err := abi.Parse(info.abi)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s abi", kind)
	}
	return &boundContract{
		kind:     kind,
		address:  address,
		bound:    bind.NewBoundContract(address, parsed, r.backend, r.backend, r.backend),
		signer:   id,
		chainID:  r.chainID,
		gasPrice: r.gasPrice,
	}, nil
}
