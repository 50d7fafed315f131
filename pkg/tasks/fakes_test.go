package tasks

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/MatrixETF/SingleAsset/pkg/config"
	"github.com/MatrixETF/SingleAsset/pkg/contracts"
	"github.com/MatrixETF/SingleAsset/pkg/identity"
	"github.com/MatrixETF/SingleAsset/pkg/logger"
	"github.com/MatrixETF/SingleAsset/pkg/task"
	"github.com/MatrixETF/SingleAsset/pkg/txwait"
)

// submission is one call, transaction or deployment seen by the fake chain.
type submission struct {
	kind    contracts.Kind
	address common.Address
	method  string
	args    []interface{}
	value   *big.Int
	tx      *types.Transaction
}

// fakeChain backs the binder, deployer, waiter and balance reader used by
// the task tests. networkCalls counts every operation that would reach a node.
type fakeChain struct {
	mu sync.Mutex

	networkCalls int
	calls        []submission
	txs          []submission
	deploys      []submission
	deployPrices []*big.Int
	waits        []uint64
	waitedFor    []string

	callResults map[string][]interface{}
	callErrs    map[string]error
	transactErr map[string]error
	waitErrs    map[string]error

	nonce     uint64
	txMethods map[common.Hash]string
	created   map[common.Hash]common.Address
	balances  map[common.Address]*big.Int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		callResults: map[string][]interface{}{},
		callErrs:    map[string]error{},
		transactErr: map[string]error{},
		waitErrs:    map[string]error{},
		txMethods:   map[common.Hash]string{},
		created:     map[common.Hash]common.Address{},
		balances:    map[common.Address]*big.Int{},
	}
}

func (c *fakeChain) Resolve(kind contracts.Kind, address common.Address, id *identity.Identity) (contracts.Contract, error) {
	if id == nil {
		return nil, identity.ErrNoIdentity
	}
	return &fakeContract{chain: c, kind: kind, address: address}, nil
}

func (c *fakeChain) Deploy(ctx context.Context, kind contracts.Kind, id *identity.Identity, opts contracts.DeployOptions, args ...interface{}) (common.Address, *types.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.networkCalls++

	tx := types.NewTx(&types.LegacyTx{Nonce: c.nonce, GasPrice: opts.GasPrice, Gas: 3_000_000, Data: []byte(kind)})
	addr := crypto.CreateAddress(id.Address(), c.nonce)
	c.nonce++
	c.txMethods[tx.Hash()] = "deploy"
	c.created[tx.Hash()] = addr
	c.deploys = append(c.deploys, submission{kind: kind, args: args, tx: tx})
	c.deployPrices = append(c.deployPrices, opts.GasPrice)
	return addr, tx, nil
}

func (c *fakeChain) WaitForConfirmations(ctx context.Context, tx *types.Transaction, count uint64) (*txwait.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.networkCalls++
	c.waits = append(c.waits, count)

	method := c.txMethods[tx.Hash()]
	c.waitedFor = append(c.waitedFor, method)
	if err := c.waitErrs[method]; err != nil {
		return nil, err
	}
	return &txwait.Receipt{
		TxHash:          tx.Hash(),
		Status:          txwait.StatusSuccess,
		BlockNumber:     100,
		Confirmations:   count,
		ContractAddress: c.created[tx.Hash()],
	}, nil
}

func (c *fakeChain) GetAccountBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.networkCalls++
	if b, ok := c.balances[account]; ok {
		return b, nil
	}
	return new(big.Int), nil
}

func (c *fakeChain) txMethodsInOrder() []string {
	out := make([]string, len(c.txs))
	for i, s := range c.txs {
		out[i] = s.method
	}
	return out
}

type fakeContract struct {
	chain   *fakeChain
	kind    contracts.Kind
	address common.Address
}

func (f *fakeContract) Kind() contracts.Kind    { return f.kind }
func (f *fakeContract) Address() common.Address { return f.address }

func (f *fakeContract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	c := f.chain
	c.mu.Lock()
	defer c.mu.Unlock()
	c.networkCalls++
	c.calls = append(c.calls, submission{kind: f.kind, address: f.address, method: method, args: args})
	if err := c.callErrs[method]; err != nil {
		return nil, err
	}
	return c.callResults[method], nil
}

func (f *fakeContract) Transact(ctx context.Context, value *big.Int, method string, args ...interface{}) (*types.Transaction, error) {
	c := f.chain
	c.mu.Lock()
	defer c.mu.Unlock()
	c.networkCalls++
	if err := c.transactErr[method]; err != nil {
		return nil, err
	}

	to := f.address
	tx := types.NewTx(&types.LegacyTx{Nonce: c.nonce, To: &to, Value: value, Gas: 100_000, GasPrice: big.NewInt(1), Data: []byte(method)})
	c.nonce++
	c.txMethods[tx.Hash()] = method
	c.txs = append(c.txs, submission{kind: f.kind, address: f.address, method: method, args: args, value: value, tx: tx})
	return tx, nil
}

func testIdentity(t *testing.T) *identity.Identity {
	t.Helper()
	key, err := crypto.HexToECDSA("e8776ff1bf88707b464bda52319a747a71c41a137277161dcabb9f821d6c0bd7")
	require.NoError(t, err)
	return identity.FromPrivateKey(key)
}

// harness wires the registered tasks to a fake chain.
type harness struct {
	chain *fakeChain
	env   *task.Env
	reg   *task.Registry
	exec  *task.Executor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg, err := config.Load(config.LoadOptions{Network: "localhost"})
	require.NoError(t, err)
	require.NoError(t, cfg.Freeze())

	chain := newFakeChain()
	env := &task.Env{
		Config:     cfg,
		Identities: identity.NewStaticProvider(testIdentity(t)),
		Binder:     chain,
		Deployer:   chain,
		Waiter:     chain,
		Balances:   chain,
		Logger:     logger.Nop(),
	}
	reg, err := NewRegistry(env.Logger)
	require.NoError(t, err)
	return &harness{chain: chain, env: env, reg: reg, exec: task.NewExecutor(reg, env)}
}

func (h *harness) run(name string, args map[string]string) (*task.Output, error) {
	return h.exec.Execute(context.Background(), task.Invocation{TaskName: name, SuppliedArgs: args})
}
