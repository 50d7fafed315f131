package abi

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// SmartPoolRegistryABI is the ISmartPoolRegistry interface.
const SmartPoolRegistryABI = `[
  {
    "inputs": [{"internalType": "address", "name": "_smartPool", "type": "address"}],
    "name": "addSmartPool",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "_index", "type": "uint256"}],
    "name": "removeSmartPool",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "address", "name": "_smartPool", "type": "address"}],
    "name": "inRegistry",
    "outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "getSmartPools",
    "outputs": [{"internalType": "address[]", "name": "", "type": "address[]"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

// V1CompatibleRecipeABI covers the constructor and conversion entry points of the recipe.
const V1CompatibleRecipeABI = `[
  {
    "inputs": [
      {"internalType": "address", "name": "_weth", "type": "address"},
      {"internalType": "address", "name": "_uniRouter", "type": "address"},
      {"internalType": "address", "name": "_poolRegistry", "type": "address"}
    ],
    "stateMutability": "nonpayable",
    "type": "constructor"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "_pool", "type": "address"},
      {"internalType": "uint256", "name": "_poolAmount", "type": "uint256"}
    ],
    "name": "toETF",
    "outputs": [],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "_pool", "type": "address"},
      {"internalType": "uint256", "name": "_poolAmount", "type": "uint256"}
    ],
    "name": "toETH",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "_pool", "type": "address"},
      {"internalType": "uint256", "name": "_poolAmount", "type": "uint256"}
    ],
    "name": "calcToSmartPool",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

// ERC20ABI is the subset of IERC20 the tasks use.
const ERC20ABI = `[
  {
    "inputs": [
      {"name": "_spender", "type": "address"},
      {"name": "_value", "type": "uint256"}
    ],
    "name": "approve",
    "outputs": [{"name": "", "type": "bool"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"name": "_owner", "type": "address"},
      {"name": "_spender", "type": "address"}
    ],
    "name": "allowance",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"name": "_owner", "type": "address"}],
    "name": "balanceOf",
    "outputs": [{"name": "balance", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "decimals",
    "outputs": [{"name": "", "type": "uint8"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	parsedMu sync.Mutex
	parsed   = map[string]abi.ABI{}
)

// Parse parses an ABI JSON document, caching the result by content.
func Parse(def string) (abi.ABI, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()
	if a, ok := parsed[def]; ok {
		return a, nil
	}
	a, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		return abi.ABI{}, errors.Wrap(err, "failed to read abi json")
	}
	parsed[def] = a
	return a, nil
}

// MustParse is Parse for the compiled-in definitions.
func MustParse(def string) abi.ABI {
	a, err := Parse(def)
	if err != nil {
		panic(err)
	}
	return a
}
