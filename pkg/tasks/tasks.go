// Package tasks defines the deployment and interaction tasks of the smart
// pool registry and the V1 compatible recipe.
package tasks

import (
	"github.com/MatrixETF/SingleAsset/pkg/logger"
	"github.com/MatrixETF/SingleAsset/pkg/task"
)

// Default gas price, in gwei, of the recipe deployment.
const defaultRecipeGasPriceGwei = "30"

type definition struct {
	spec    task.Spec
	handler task.Handler
}

func definitions() []definition {
	return []definition{
		{
			spec: task.Spec{
				Name:        "deploy-smart-pool-registry",
				Description: "deploy smart pool registry",
			},
			handler: deploySmartPoolRegistry,
		},
		{
			spec: task.Spec{
				Name:        "smart-pool-register",
				Description: "smart pool register",
				Parameters: []task.ParameterSpec{
					{Name: "register", Required: true, Description: "the smart pool registry address"},
					{Name: "pool", Required: true, Description: "the register smart pool address"},
				},
			},
			handler: smartPoolRegister,
		},
		{
			spec: task.Spec{
				Name:        "in-register",
				Description: "smart pool is in register",
				Parameters: []task.ParameterSpec{
					{Name: "register", Required: true, Description: "the smart pool registry address"},
					{Name: "pool", Required: true, Description: "the register smart pool address"},
				},
			},
			handler: inRegister,
		},
		{
			spec: task.Spec{
				Name:        "remove-smart-pool",
				Description: "remove a smart pool from the register",
				Parameters: []task.ParameterSpec{
					{Name: "register", Required: true, Description: "the smart pool registry address"},
					{Name: "index", Required: true, Description: "index of the pool in the registry"},
				},
			},
			handler: removeSmartPool,
		},
		{
			spec: task.Spec{
				Name:        "smart-pools",
				Description: "list registered smart pools",
				Parameters: []task.ParameterSpec{
					{Name: "register", Required: true, Description: "the smart pool registry address"},
				},
			},
			handler: smartPools,
		},
		{
			spec: task.Spec{
				Name:        "deploy-v1-compatible-recipe",
				Description: "deploy v1 compatible recipe",
				Parameters: []task.ParameterSpec{
					{Name: "weth", Required: true, Description: "The weth address"},
					{Name: "uni", Required: true, Description: "The uniRouter address"},
					{Name: "registry", Required: true, Description: "The smartPoolRegistry address"},
					{Name: "gas-price-gwei", Description: "gas price of the deployment in gwei", Default: defaultRecipeGasPriceGwei},
				},
			},
			handler: deployV1CompatibleRecipe,
		},
		{
			spec: task.Spec{
				Name:        "to-etf",
				Description: "swap etf",
				Parameters: []task.ParameterSpec{
					{Name: "recipe", Required: true, Description: "the recipe address"},
					{Name: "pool", Required: true, Description: "the smart pool address"},
					{Name: "amount", Required: true, Description: "ether to convert, e.g. 1.5"},
				},
			},
			handler: toETF,
		},
		{
			spec: task.Spec{
				Name:        "to-eth",
				Description: "swap eth",
				Parameters: []task.ParameterSpec{
					{Name: "recipe", Required: true, Description: "the recipe address"},
					{Name: "pool", Required: true, Description: "the smart pool address"},
					{Name: "amount", Required: true, Description: "pool tokens to convert, e.g. 1.5"},
				},
			},
			handler: toETH,
		},
		{
			spec: task.Spec{
				Name:        "pool-balance",
				Description: "pool token balance of the signer",
				Parameters: []task.ParameterSpec{
					{Name: "pool", Required: true, Description: "the smart pool address"},
					{Name: "recipe", Description: "report the allowance granted to this recipe"},
				},
			},
			handler: poolBalance,
		},
		{
			spec: task.Spec{
				Name:        "calc-test",
				Description: "calc test",
				Parameters: []task.ParameterSpec{
					{Name: "pool", Required: true, Description: "the smart pool address"},
					{Name: "recipe", Required: true, Description: "the recipe address"},
					{Name: "amount", Required: true, Description: "ether amount to quote, e.g. 1.5"},
				},
			},
			handler: calcTest,
		},
		{
			spec: task.Spec{
				Name:        "accounts",
				Description: "prints the list of accounts",
			},
			handler: accounts,
		},
	}
}

// Register adds every task to r.
func Register(r *task.Registry) error {
	for _, d := range definitions() {
		if err := r.Register(d.spec, d.handler); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding every task.
func NewRegistry(log logger.Logger) (*task.Registry, error) {
	r := task.NewRegistry(log)
	if err := Register(r); err != nil {
		return nil, err
	}
	return r, nil
}
