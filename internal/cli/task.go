package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/usecase/board"
)

type taskFlags struct {
	title       string
	description string
	priority    string
	status      string
	due         string
}

func (f *taskFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Task title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "Low, Medium or High")
	cmd.Flags().StringVarP(&f.status, "status", "s", "", `"To Do", "In Progress" or "Done"`)
	cmd.Flags().StringVar(&f.due, "due", "", "Due date, YYYY-MM-DD (empty clears it on edit)")
}

func newTaskCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add, edit, move or delete tasks",
	}
	cmd.AddCommand(
		newTaskAddCommand(a),
		newTaskEditCommand(a),
		newTaskMoveCommand(a),
		newTaskDeleteCommand(a),
	)
	return cmd
}

func newTaskAddCommand(a *app) *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "add <project> [title]",
		Short: "Add a task to a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := f.title
			if title == "" && len(args) > 1 {
				title = strings.Join(args[1:], " ")
			}
			draft := domain.TaskDraft{Title: title, Description: f.description, DueDate: f.due}
			var err error
			if f.priority != "" {
				if draft.Priority, err = domain.ParsePriority(f.priority); err != nil {
					return err
				}
			}
			if f.status != "" {
				if draft.Status, err = domain.ParseStatus(f.status); err != nil {
					return err
				}
			}
			if strings.TrimSpace(draft.Title) == "" {
				return domain.ErrEmptyTaskTitle
			}

			snapshot, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			project, err := resolveProject(snapshot, args[0])
			if err != nil {
				return err
			}
			if err := a.engine.CreateTask(cmd.Context(), project.ID, draft); err != nil {
				return err
			}
			a.say("Added %q to %s.", draft.Title, project.Name)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newTaskEditCommand(a *app) *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.findTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				task.Title = f.title
			}
			if flags.Changed("description") {
				task.Description = f.description
			}
			if flags.Changed("priority") {
				if task.Priority, err = domain.ParsePriority(f.priority); err != nil {
					return err
				}
			}
			if flags.Changed("status") {
				if task.Status, err = domain.ParseStatus(f.status); err != nil {
					return err
				}
			}
			if flags.Changed("due") {
				due, err := domain.NormalizeDate(f.due)
				if err != nil {
					return domain.ValidationError("due date must be YYYY-MM-DD")
				}
				task.DueDate = due
			}
			if err := a.engine.UpdateTask(cmd.Context(), task); err != nil {
				return err
			}
			a.say("Updated task #%s.", task.ID)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newTaskMoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <status>",
		Short: "Move a task to another status",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.findTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			target, err := domain.ParseStatus(strings.Join(args[1:], " "))
			if err != nil {
				return domain.ValidationError(fmt.Sprintf("unknown status, move #%s to one of %s", task.ID, quoteStatuses(board.Targets(task.Status))))
			}
			if err := a.engine.MoveTask(cmd.Context(), task, target); err != nil {
				return err
			}
			a.say("Moved #%s to %s.", task.ID, target)
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 1 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return strings.Split(quoteStatuses(domain.Statuses), ", "), cobra.ShellCompDirectiveNoFileComp
		},
	}
}

func newTaskDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.findTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.engine.DeleteTask(cmd.Context(), task.ID); err != nil {
				return err
			}
			a.say("Deleted task #%s.", task.ID)
			return nil
		},
	}
}

// findTask loads the workspace and looks up a task by id, with or without
// a leading '#'.
func (a *app) findTask(ctx context.Context, ref string) (domain.Task, error) {
	snapshot, err := a.load(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	task, ok := snapshot.Task(domain.ID(strings.TrimPrefix(ref, "#")))
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return task, nil
}

func quoteStatuses(statuses []domain.Status) string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(out, ", ")
}
