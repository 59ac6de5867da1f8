package board

import "github.com/fastygo/taskflow/domain"

// Progress is the completion of one project.
type Progress struct {
	ProjectID domain.ID `json:"project_id" yaml:"project_id"`
	Name      string    `json:"name" yaml:"name"`
	Total     int       `json:"total" yaml:"total"`
	Done      int       `json:"done" yaml:"done"`
	Percent   int       `json:"percent" yaml:"percent"`
}

// Summary is the dashboard view: per-project progress and global totals.
type Summary struct {
	Projects       []Progress `json:"projects" yaml:"projects"`
	TotalProjects  int        `json:"total_projects" yaml:"total_projects"`
	TotalTasks     int        `json:"total_tasks" yaml:"total_tasks"`
	CompletedTasks int        `json:"completed_tasks" yaml:"completed_tasks"`
}

// Percent returns done/total as a whole percentage, rounding halves up.
// It is 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	return (done*200 + total) / (total * 2)
}

// ProjectProgress computes the progress of one loaded project.
func ProjectProgress(snapshot *domain.Snapshot, projectID domain.ID) (Progress, bool) {
	project, ok := snapshot.Project(projectID)
	if !ok {
		return Progress{}, false
	}
	return progressOf(project, snapshot.TasksFor(projectID)), true
}

// Summarize computes the dashboard summary. Tasks of projects missing from
// the snapshot are not counted.
func Summarize(snapshot *domain.Snapshot) Summary {
	if snapshot == nil {
		return Summary{Projects: []Progress{}}
	}
	summary := Summary{
		Projects:      make([]Progress, 0, len(snapshot.Projects)),
		TotalProjects: len(snapshot.Projects),
	}
	for _, p := range snapshot.Projects {
		summary.Projects = append(summary.Projects, progressOf(p, snapshot.TasksFor(p.ID)))
	}
	for _, t := range snapshot.OwnedTasks() {
		summary.TotalTasks++
		if t.IsDone() {
			summary.CompletedTasks++
		}
	}
	return summary
}

func progressOf(project domain.Project, tasks []domain.Task) Progress {
	p := Progress{ProjectID: project.ID, Name: project.Name, Total: len(tasks)}
	for _, t := range tasks {
		if t.IsDone() {
			p.Done++
		}
	}
	p.Percent = Percent(p.Done, p.Total)
	return p
}
