package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MatrixETF/SingleAsset/pkg/logger"
	"github.com/MatrixETF/SingleAsset/pkg/task"
	"github.com/MatrixETF/SingleAsset/utils"
)

type runner struct {
	registry *task.Registry
	opts     *globalOptions
	build    envBuilder
}

func newTaskCmd(spec task.Spec, run *runner) *cobra.Command {
	flags := make([]utils.Flag, 0, len(spec.Parameters))
	names := make([]string, 0, len(spec.Parameters))
	for _, p := range spec.Parameters {
		flags = append(flags, utils.Flag{Name: p.Name, Usage: p.Description, Default: p.Default, Required: p.Required})
		names = append(names, p.Name)
	}

	taskCmd := &cobra.Command{
		Use:   spec.Name,
		Short: spec.Description,
		// Extra arguments and flags are ignored rather than rejected.
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run.run(cmd, task.Invocation{
				TaskName:     spec.Name,
				SuppliedArgs: utils.ChangedFlags(cmd, names),
			})
		},
	}
	utils.AddStringFlags(taskCmd, flags)
	return taskCmd
}

// run validates inv before anything touches the network, then builds the
// environment and executes the task.
func (r *runner) run(cmd *cobra.Command, inv task.Invocation) error {
	if err := r.registry.Validate(inv); err != nil {
		return err
	}

	log := logger.New(r.opts.verbose)
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(cmd.Context(), log)
	env, closeEnv, err := r.build(ctx, r.opts, log)
	if err != nil {
		return err
	}
	defer closeEnv()

	out, err := task.NewExecutor(r.registry, env).Execute(ctx, inv)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.String())
	return nil
}
