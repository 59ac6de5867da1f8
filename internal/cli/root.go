// Package cli is the taskflow command line client.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
)

// Execute runs the command line with args, printing any failure to stderr.
func Execute(ctx context.Context, opts Options, args []string) error {
	a := &app{opts: opts.withDefaults()}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetIn(a.opts.Stdin)
	root.SetOut(a.opts.Stdout)
	root.SetErr(a.opts.Stderr)

	err := root.ExecuteContext(ctx)
	if tErr := a.teardown(context.Background()); tErr != nil && a.logger != nil {
		a.logger.Warn("teardown failed", zap.Error(tErr))
	}
	if err != nil {
		fmt.Fprintln(a.opts.Stderr, "Error:", domain.Reason(err))
	}
	return err
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskflow",
		Short: "TaskFlow - projects and tasks from the terminal",
		Long: `TaskFlow keeps your projects and their tasks on a remote store.

Every change is written to the store first and then the whole workspace is
loaded again, so what you see is always what the store holds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch a.output {
			case outputText, outputJSON, outputYAML:
			default:
				return domain.ValidationError(fmt.Sprintf("unknown output format %q (text, json or yaml)", a.output))
			}
			return a.setup(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.output, "output", "o", outputText, "Output format: text, json or yaml")
	flags.StringVar(&a.apiURL, "api-url", "", "Remote store base URL (overrides TASKFLOW_API_URL)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&a.assumeYes, "yes", "y", false, "Answer yes to confirmation prompts")

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newRegisterCommand(a),
		newStatusCommand(a),
		newProjectsCommand(a),
		newProjectCommand(a),
		newBoardCommand(a),
		newTaskCommand(a),
		newSummaryCommand(a),
		newWatchCommand(a),
	)
	return root
}
