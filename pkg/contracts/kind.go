package contracts

import (
	"fmt"

	"github.com/MatrixETF/SingleAsset/pkg/abi"
)

// Kind selects the interface exposed by a resolved contract handle.
type Kind string

const (
	KindSmartPoolRegistry  Kind = "smart-pool-registry"
	KindV1CompatibleRecipe Kind = "v1-compatible-recipe"
	KindERC20              Kind = "erc20"
)

type kindInfo struct {
	abi string
	// artifact is the compiled contract name; empty when the kind is not deployable.
	artifact string
}

var kinds = map[Kind]kindInfo{
	KindSmartPoolRegistry:  {abi: abi.SmartPoolRegistryABI, artifact: "SmartPoolRegistry"},
	KindV1CompatibleRecipe: {abi: abi.V1CompatibleRecipeABI, artifact: "V1CompatibleRecipe"},
	KindERC20:              {abi: abi.ERC20ABI},
}

func lookupKind(kind Kind) (kindInfo, error) {
	info, ok := kinds[kind]
	if !ok {
		return kindInfo{}, fmt.Errorf("unknown contract kind %q", kind)
	}
	return info, nil
}

// ArtifactName returns the compiled contract name deployed for kind.
func ArtifactName(kind Kind) (string, error) {
	info, err := lookupKind(kind)
	if err != nil {
		return "", err
	}
	if info.artifact == "" {
		return "", fmt.Errorf("contract kind %q is not deployable", kind)
	}
	return info.artifact, nil
}
