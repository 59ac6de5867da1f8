package domain

import "time"

// Snapshot is one complete, immutable copy of the loaded projects and tasks.
// A snapshot is never modified after it is published; reloads replace it.
type Snapshot struct {
	Projects []Project `json:"projects"`
	Tasks    []Task    `json:"tasks"`
	LoadedAt time.Time `json:"loaded_at"`
	// Err is set when the load that produced this snapshot failed as a whole.
	Err error `json:"-"`
}

// Loaded reports whether the snapshot came from a completed load.
func (s *Snapshot) Loaded() bool {
	return s != nil && !s.LoadedAt.IsZero()
}

// Project finds a loaded project by id.
func (s *Snapshot) Project(id ID) (Project, bool) {
	if s == nil {
		return Project{}, false
	}
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// Task finds a loaded task by id.
func (s *Snapshot) Task(id ID) (Task, bool) {
	if s == nil {
		return Task{}, false
	}
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// TasksFor returns the tasks of a loaded project in load order. Unknown
// projects have no tasks.
func (s *Snapshot) TasksFor(projectID ID) []Task {
	if _, ok := s.Project(projectID); !ok {
		return nil
	}
	var out []Task
	for _, t := range s.Tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// OwnedTasks returns every task whose project is part of the snapshot.
func (s *Snapshot) OwnedTasks() []Task {
	if s == nil {
		return nil
	}
	known := make(map[ID]struct{}, len(s.Projects))
	for _, p := range s.Projects {
		known[p.ID] = struct{}{}
	}
	var out []Task
	for _, t := range s.Tasks {
		if _, ok := known[t.ProjectID]; ok {
			out = append(out, t)
		}
	}
	return out
}
