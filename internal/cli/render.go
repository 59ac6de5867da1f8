package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/usecase/board"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// emit writes value in the selected machine format, or calls text.
func (a *app) emit(value interface{}, text func(w io.Writer)) error {
	w := a.opts.Stdout
	switch a.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(w)
		return nil
	}
}

// say prints a one-line confirmation in text mode only.
func (a *app) say(format string, args ...interface{}) {
	if a.output == outputText {
		fmt.Fprintf(a.opts.Stdout, format+"\n", args...)
	}
}

var (
	columnColors = map[domain.Status]lipgloss.Color{
		domain.StatusToDo:       lipgloss.Color("#89b4fa"),
		domain.StatusInProgress: lipgloss.Color("#f9e2af"),
		domain.StatusDone:       lipgloss.Color("#a6e3a1"),
	}
	priorityColors = map[domain.Priority]lipgloss.Color{
		domain.PriorityHigh:   lipgloss.Color("#f38ba8"),
		domain.PriorityMedium: lipgloss.Color("#fab387"),
		domain.PriorityLow:    lipgloss.Color("#9399b2"),
	}
	subtle  = lipgloss.Color("#6c7086")
	overdue = lipgloss.Color("#f38ba8")
)

const boardColumnWidth = 30

func renderBoard(w io.Writer, b board.Board, now time.Time) {
	title := lipgloss.NewStyle().Bold(true).Render(b.Project.Name)
	fmt.Fprintf(w, "%s  %d of %d done (%d%%)\n", title, b.Progress.Done, b.Progress.Total, b.Progress.Percent)

	columnStyle := lipgloss.NewStyle().
		Width(boardColumnWidth).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(subtle).
		Padding(0, 1)

	cols := make([]string, 0, len(b.Columns))
	for _, col := range b.Columns {
		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(columnColors[col.Status]).
			Render(fmt.Sprintf("%s (%d)", col.Status, len(col.Tasks)))

		items := []string{header}
		if len(col.Tasks) == 0 {
			items = append(items, lipgloss.NewStyle().Foreground(subtle).Render("No tasks"))
		}
		for _, t := range col.Tasks {
			items = append(items, renderCard(t, now))
		}
		cols = append(cols, columnStyle.Render(strings.Join(items, "\n\n")))
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}

func renderCard(t domain.Task, now time.Time) string {
	priority := lipgloss.NewStyle().Foreground(priorityColors[t.Priority]).Render(string(t.Priority))
	lines := []string{
		fmt.Sprintf("#%s %s", t.ID, t.Title),
		fmt.Sprintf("%s  %s", priority, dueLabel(t, now)),
	}
	if t.Description != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(subtle).Render(t.Description))
	}
	return strings.Join(lines, "\n")
}

func dueLabel(t domain.Task, now time.Time) string {
	if t.DueDate == nil {
		return "No date"
	}
	label := "due " + t.DueDate.String()
	if t.IsOverdue(now) {
		return lipgloss.NewStyle().Foreground(overdue).Render(label + " (overdue)")
	}
	return label
}

func renderProgressTable(w io.Writer, rows []board.Progress) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No projects yet. Create one with `taskflow project create <name>`.")
		return
	}
	idWidth, nameWidth := 2, 4
	for _, r := range rows {
		idWidth = max(idWidth, len(r.ProjectID))
		nameWidth = max(nameWidth, len(r.Name))
	}
	fmt.Fprintf(w, "%-*s  %-*s  %s\n", idWidth, "ID", nameWidth, "NAME", "PROGRESS")
	for _, r := range rows {
		fmt.Fprintf(w, "%-*s  %-*s  %d/%d (%d%%)\n", idWidth, r.ProjectID, nameWidth, r.Name, r.Done, r.Total, r.Percent)
	}
}

func renderSummary(w io.Writer, s board.Summary) {
	fmt.Fprintf(w, "Projects: %d   Tasks: %d   Completed: %d\n\n", s.TotalProjects, s.TotalTasks, s.CompletedTasks)
	renderProgressTable(w, s.Projects)
}
