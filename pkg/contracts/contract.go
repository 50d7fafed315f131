package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/MatrixETF/SingleAsset/pkg/identity"
)

// Contract is an address-bound, identity-bound handle over a remote contract.
// Call performs a read-only eth_call; Transact signs and submits a
// transaction without waiting for it to be mined.
type Contract interface {
	Kind() Kind
	Address() common.Address
	Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error)
	Transact(ctx context.Context, value *big.Int, method string, args ...interface{}) (*types.Transaction, error)
}

type boundContract struct {
	kind     Kind
	address  common.Address
	bound    *bind.BoundContract
	signer   *identity.Identity
	chainID  *big.Int
	gasPrice *big.Int
}

func (c *boundContract) Kind() Kind {
	return c.kind
}

func (c *boundContract) Address() common.Address {
	return c.address
}

func (c *boundContract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	opts := &bind.CallOpts{Context: ctx, From: c.signer.Address()}
	var out []interface{}
	if err := c.bound.Call(opts, &out, method, args...); err != nil {
		return nil, classify(err, "call "+method, c.address)
	}
	return out, nil
}

func (c *boundContract) Transact(ctx context.Context, value *big.Int, method string, args ...interface{}) (*types.Transaction, error) {
	opts, err := c.signer.TransactOpts(ctx, c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Value = value
	if c.gasPrice != nil {
		opts.GasPrice = new(big.Int).Set(c.gasPrice)
	}
	tx, err := c.bound.Transact(opts, method, args...)
	if err != nil {
		return nil, classify(err, "submit "+method, c.address)
	}
	return tx, nil
}
