package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fastygo/taskflow/usecase/board"
)

func newProjectsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			rows := board.Summarize(snapshot).Projects
			return a.emit(rows, func(w io.Writer) {
				renderProgressTable(w, rows)
			})
		},
	}
}

func newProjectCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create or delete projects",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a project",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.requireLogin(); err != nil {
					return err
				}
				name := strings.Join(args, " ")
				if err := a.engine.CreateProject(cmd.Context(), name); err != nil {
					return err
				}
				a.say("Created project %q.", name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <project>",
			Short: "Delete a project and all of its tasks",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				snapshot, err := a.load(cmd.Context())
				if err != nil {
					return err
				}
				project, err := resolveProject(snapshot, args[0])
				if err != nil {
					return err
				}
				if err := a.engine.DeleteProject(cmd.Context(), project.ID); err != nil {
					return err
				}
				a.say("Deleted project %q.", project.Name)
				return nil
			},
		},
	)
	return cmd
}

func newBoardCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "board <project>",
		Short: "Show a project's tasks by status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			project, err := resolveProject(snapshot, args[0])
			if err != nil {
				return err
			}
			b, _ := board.Build(snapshot, project.ID)
			return a.emit(b, func(w io.Writer) {
				renderBoard(w, b, a.opts.Now())
			})
		},
	}
}

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals across all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			summary := board.Summarize(snapshot)
			return a.emit(summary, func(w io.Writer) {
				renderSummary(w, summary)
			})
		},
	}
}
