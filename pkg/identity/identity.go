// Package identity provides the ordered signing identities of the active network.
package identity

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stackup-wallet/stackup-bundler/pkg/signer"

	"github.com/MatrixETF/SingleAsset/pkg/config"
)

// ErrNoIdentity is returned when a signer is requested but none is configured.
var ErrNoIdentity = errors.New("no signing identity configured for the active network")

// Identity is an account able to authorize transactions, either with a
// local key or through the node that manages it.
type Identity struct {
	address common.Address
	eoa     *signer.EOA
	node    RPCCaller
}

// Address returns the account address of the identity.
func (i *Identity) Address() common.Address {
	return i.address
}

// TransactOpts returns bind options signing for chainID. ctx bounds every
// call made through the returned options.
func (i *Identity) TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	if i.eoa == nil {
		return &bind.TransactOpts{
			From:    i.address,
			Signer:  nodeSigner(ctx, i.node, chainID),
			Context: ctx,
		}, nil
	}
	opts, err := bind.NewKeyedTransactorWithChainID(i.eoa.PrivateKey, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create transactor")
	}
	opts.Context = ctx
	return opts, nil
}

// FromPrivateKey wraps an existing key.
func FromPrivateKey(key *ecdsa.PrivateKey) *Identity {
	addr := crypto.PubkeyToAddress(key.PublicKey)
	return &Identity{address: addr, eoa: &signer.EOA{
		PrivateKey: key,
		PublicKey:  &key.PublicKey,
		Address:    addr,
	}}
}

// Provider exposes the ordered identities of the active network.
type Provider interface {
	Identities() []*Identity
	// Primary returns the first identity, the one every task signs with.
	Primary() (*Identity, error)
}

// StaticProvider is a read-only list of identities fixed at start-up.
type StaticProvider struct {
	identities []*Identity
}

// NewStaticProvider returns a provider over ids, in order.
func NewStaticProvider(ids ...*Identity) *StaticProvider {
	return &StaticProvider{identities: ids}
}

// FromConfig builds identities from the network's hex keys followed by the
// optional keystore file.
func FromConfig(cfg *config.Config) (*StaticProvider, error) {
	ids := make([]*Identity, 0, len(cfg.Network.Accounts)+1)
	for idx, hexKey := range cfg.Network.Accounts {
		eoa, err := signer.New(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid private key #%d for network %s", idx, cfg.Network.Name)
		}
		ids = append(ids, &Identity{address: eoa.Address, eoa: eoa})
	}
	if cfg.Keystore.Path != "" {
		id, err := fromKeystore(cfg.Keystore.Path, cfg.Keystore.Password)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return NewStaticProvider(ids...), nil
}

func fromKeystore(path, password string) (*Identity, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read keystore file")
	}
	key, err := keystore.DecryptKey(buf, password)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt keystore")
	}
	return FromPrivateKey(key.PrivateKey), nil
}

func (p *StaticProvider) Identities() []*Identity {
	out := make([]*Identity, len(p.identities))
	copy(out, p.identities)
	return out
}

func (p *StaticProvider) Primary() (*Identity, error) {
	if len(p.identities) == 0 {
		return nil, ErrNoIdentity
	}
	return p.identities[0], nil
}
