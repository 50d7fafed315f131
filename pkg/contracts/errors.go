package contracts

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"

	"github.com/MatrixETF/SingleAsset/pkg/taskerr"
)

// RevertError is a decoded revert payload.
type RevertError struct {
	ErrorType string
	Reason    string
	Code      *big.Int
}

func (e *RevertError) Error() string {
	if e.Code != nil {
		return fmt.Sprintf("%s: code=0x%x", e.ErrorType, e.Code)
	}
	return fmt.Sprintf("%s: reason=%s", e.ErrorType, e.Reason)
}

// Known revert selectors
const (
	ErrorStringSelector = "08c379a0"
	PanicSelector       = "4e487b71"
)

// DecodeRevert decodes Error(string) and Panic(uint256) revert payloads.
func DecodeRevert(data []byte) (*RevertError, error) {
	if len(data) < 4 {
		return nil, errors.New("error data too short")
	}
	selector := hex.EncodeToString(data[:4])

	switch selector {
	case ErrorStringSelector:
		stringType, err := abi.NewType("string", "", nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create string type")
		}
		values, err := abi.Arguments{{Name: "reason", Type: stringType}}.Unpack(data[4:])
		if err != nil {
			return nil, errors.Wrap(err, "failed to unpack Error(string)")
		}
		return &RevertError{ErrorType: "Error", Reason: values[0].(string)}, nil
	case PanicSelector:
		uint256Type, err := abi.NewType("uint256", "", nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create uint256 type")
		}
		values, err := abi.Arguments{{Name: "code", Type: uint256Type}}.Unpack(data[4:])
		if err != nil {
			return nil, errors.Wrap(err, "failed to unpack Panic(uint256)")
		}
		return &RevertError{ErrorType: "Panic", Code: values[0].(*big.Int)}, nil
	default:
		return nil, fmt.Errorf("unknown error selector: %s", selector)
	}
}

// revertData extracts the raw revert payload from an RPC data error.
func revertData(err error) []byte {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return nil
	}
	switch data := dataErr.ErrorData().(type) {
	case string:
		b, decodeErr := hex.DecodeString(strings.TrimPrefix(data, "0x"))
		if decodeErr != nil {
			return nil
		}
		return b
	case []byte:
		return data
	case hexutil.Bytes:
		return data
	default:
		return nil
	}
}

// classify maps a go-ethereum call or submission failure onto the task error taxonomy.
func classify(err error, op string, address common.Address) error {
	if err == nil {
		return nil
	}
	msg := op
	if address != (common.Address{}) {
		msg = fmt.Sprintf("%s on %s", op, address.Hex())
	}

	switch {
	case errors.Is(err, bind.ErrNoCode):
		return taskerr.Wrap(taskerr.BindingAddressInvalid, err, fmt.Sprintf("%s: no contract code at address", msg))
	case errors.Is(err, context.DeadlineExceeded):
		return taskerr.Wrap(taskerr.Timeout, err, msg)
	}

	if data := revertData(err); len(data) > 0 {
		if decoded, decodeErr := DecodeRevert(data); decodeErr == nil {
			return taskerr.Wrap(taskerr.Reverted, decoded, msg)
		}
		return taskerr.Wrap(taskerr.Reverted, err, fmt.Sprintf("%s: revert data 0x%x", msg, data))
	}
	if strings.Contains(err.Error(), "execution reverted") {
		return taskerr.Wrap(taskerr.Reverted, err, msg)
	}
	return taskerr.Wrap(taskerr.NetworkRejected, err, msg)
}
