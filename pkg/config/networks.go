package config

import (
	"math/big"
)

func builtinNetworks(infuraKey string) map[string]Network {
	infura := func(name string) Network {
		return Network{Name: name, URL: "https://" + name + ".infura.io/v3/" + infuraKey}
	}
	return map[string]Network{
		"localhost": {Name: "localhost", URL: "http://localhost:8545"},
		"mainnet":   infura("mainnet"),
		"kovan":     infura("kovan"),
		"rinkeby":   infura("rinkeby"),
		// coverage launches its own ganache instance
		"coverage": {Name: "coverage", URL: "http://127.0.0.1:8555", GasPrice: big.NewInt(0)},
		"frame":    {Name: "frame", URL: "http://localhost:1248"},
	}
}

// DefaultSolc returns the compiler settings the contracts are built with.
// The optimizer is required to keep the factory under the contract size limit.
func DefaultSolc() Solc {
	return Solc{Version: "0.8.1", OptimizerEnabled: true, OptimizerRuns: 200}
}
