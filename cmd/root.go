package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MatrixETF/SingleAsset/pkg/config"
	"github.com/MatrixETF/SingleAsset/pkg/logger"
	"github.com/MatrixETF/SingleAsset/pkg/task"
	"github.com/MatrixETF/SingleAsset/pkg/taskerr"
	"github.com/MatrixETF/SingleAsset/pkg/tasks"
)

// globalOptions are the persistent flags shared by every task.
type globalOptions struct {
	network string
	envFile string
	verbose bool
}

// NewRootCmd builds the CLI with one sub-command per registered task.
func NewRootCmd() (*cobra.Command, error) {
	return newRootCmd(newEnv)
}

func newRootCmd(build envBuilder) (*cobra.Command, error) {
	registry, err := tasks.NewRegistry(logger.New(false))
	if err != nil {
		return nil, err
	}

	opts := &globalOptions{}
	run := &runner{registry: registry, opts: opts, build: build}

	rootCmd := &cobra.Command{
		Use:   "singleasset",
		Short: "SingleAsset deployment and interaction tasks",
		Long: `SingleAsset deploys the smart pool registry and the V1 compatible recipe
and drives them: registering pools, converting between ether and pool tokens.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Every sub-command is a registered task.
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		// Unknown task names reach RunE so they are reported as UnknownTask.
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return run.run(cmd, task.Invocation{TaskName: args[0]})
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.network, "network", config.DefaultNetwork, "network to run the task against")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "env file with keys and node URLs (default \".env\" when present)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	for _, spec := range registry.Specs() {
		rootCmd.AddCommand(newTaskCmd(spec, run))
	}
	return rootCmd, nil
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, newEnv, args, stdout, stderr)
}

func execute(ctx context.Context, build envBuilder, args []string, stdout, stderr io.Writer) int {
	rootCmd, err := newRootCmd(build)
	if err != nil {
		fmt.Fprint(stderr, config.FormatReport(err, true))
		return 1
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err = rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	fmt.Fprint(stderr, config.FormatReport(err, verbose))
	return taskerr.ExitCode(err)
}
