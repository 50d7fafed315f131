package task

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MatrixETF/SingleAsset/pkg/taskerr"
	"github.com/MatrixETF/SingleAsset/utils"
)

// Args are the validated parameters passed to a handler.
type Args map[string]string

// Get returns the trimmed raw value of name.
func (a Args) Get(name string) string {
	return strings.TrimSpace(a[name])
}

// Address parses name as a hex account address.
func (a Args) Address(name string) (common.Address, error) {
	raw := a.Get(name)
	if !common.IsHexAddress(raw) {
		return common.Address{}, taskerr.Newf(taskerr.TaskExecutionFailed,
			"parameter --%s: %q is not a hex address", name, raw).WithParam(name)
	}
	return common.HexToAddress(raw), nil
}

// Ether parses name as a decimal ether amount and returns it in wei.
func (a Args) Ether(name string) (*big.Int, error) {
	wei, err := utils.ParseEther(a.Get(name))
	if err != nil {
		return nil, taskerr.Wrap(taskerr.TaskExecutionFailed, err, "parameter --"+name).WithParam(name)
	}
	return wei, nil
}

// Uint parses name as a base-10 unsigned integer.
func (a Args) Uint(name string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(a.Get(name), 10)
	if !ok || n.Sign() < 0 {
		return nil, taskerr.Newf(taskerr.TaskExecutionFailed,
			"parameter --%s: %q is not an unsigned integer", name, a.Get(name)).WithParam(name)
	}
	return n, nil
}
