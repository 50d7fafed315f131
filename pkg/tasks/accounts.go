package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/MatrixETF/SingleAsset/pkg/identity"
	"github.com/MatrixETF/SingleAsset/pkg/task"
	"github.com/MatrixETF/SingleAsset/utils"
)

func accounts(ctx context.Context, env *task.Env, args task.Args) (*task.Output, error) {
	if env.Identities == nil {
		return nil, identity.ErrNoIdentity
	}
	ids := env.Identities.Identities()
	if len(ids) == 0 {
		return nil, identity.ErrNoIdentity
	}

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		if env.Balances == nil {
			lines = append(lines, id.Address().Hex())
			continue
		}
		balance, err := env.Balances.GetAccountBalance(ctx, id.Address())
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("%s (%s ETH)", id.Address().Hex(), utils.FormatEther(balance)))
	}
	return &task.Output{Label: "accounts:", Value: strings.Join(lines, ", ")}, nil
}
