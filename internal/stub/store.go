package stub

import (
	"strconv"
	"strings"
	"sync"

	"github.com/fastygo/taskflow/domain"
)

type account struct {
	ID       string
	Name     string
	Email    string
	Password string
}

type project struct {
	ID     int64
	UserID string
	Name   string
}

type task struct {
	ID          int64
	ProjectID   int64
	Title       string
	Description string
	Priority    domain.Priority
	Status      domain.Status
	DueDate     *domain.Date
}

type injectedFailure struct {
	status  int
	message string
}

// Store is the in-memory remote state. Ids are sequential integers, like
// the relational store the client is normally pointed at.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[string]*account // by email
	projects []*project
	tasks    []*task

	failTaskList map[int64]int
	failWrite    *injectedFailure
	requests     int
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*account),
		failTaskList: make(map[int64]int),
	}
}

// FailTaskList makes GET /tasks/:projectId answer status for that project.
func (s *Store) FailTaskList(projectID domain.ID, status int) {
	id, _ := parseID(projectID.String())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failTaskList[id] = status
}

// FailNextWrite makes the next create, update or delete answer status with message.
func (s *Store) FailNextWrite(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrite = &injectedFailure{status: status, message: message}
}

// Requests returns how many requests reached the stub.
func (s *Store) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// TaskCount returns the number of stored tasks across all users.
func (s *Store) TaskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *Store) countRequest() {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
}

func (s *Store) takeWriteFailure() *injectedFailure {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.failWrite
	s.failWrite = nil
	return f
}

func (s *Store) taskListFailure(projectID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failTaskList[projectID]
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) register(name, email, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	if _, exists := s.accounts[key]; exists {
		return false
	}
	s.accounts[key] = &account{
		ID:       strconv.FormatInt(s.id(), 10),
		Name:     name,
		Email:    key,
		Password: password,
	}
	return true
}

func (s *Store) authenticate(email, password string) (*account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[strings.ToLower(email)]
	if !ok || acc.Password != password {
		return nil, false
	}
	copied := *acc
	return &copied, true
}

func (s *Store) listProjects(userID string) []project {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []project
	for _, p := range s.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out
}

func (s *Store) createProject(userID, name string) project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &project{ID: s.id(), UserID: userID, Name: name}
	s.projects = append(s.projects, p)
	return *p
}

func (s *Store) ownsProject(userID string, projectID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findProject(userID, projectID) >= 0
}

func (s *Store) findProject(userID string, projectID int64) int {
	for i, p := range s.projects {
		if p.ID == projectID && p.UserID == userID {
			return i
		}
	}
	return -1
}

// deleteProject removes the project and cascades to its tasks.
func (s *Store) deleteProject(userID string, projectID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findProject(userID, projectID)
	if i < 0 {
		return false
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ProjectID != projectID {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	return true
}

func (s *Store) listTasks(projectID int64) []task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []task
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out
}

func (s *Store) createTask(t task) task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	stored := t
	s.tasks = append(s.tasks, &stored)
	return t
}

// taskOwner returns the index of a task owned by userID through its project.
func (s *Store) taskOwner(userID string, taskID int64) int {
	for i, t := range s.tasks {
		if t.ID == taskID {
			if s.findProject(userID, t.ProjectID) < 0 {
				return -1
			}
			return i
		}
	}
	return -1
}

func (s *Store) updateTask(userID string, t task) (task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskOwner(userID, t.ID)
	if i < 0 {
		return task{}, false
	}
	t.ProjectID = s.tasks[i].ProjectID
	*s.tasks[i] = t
	return t, true
}

func (s *Store) deleteTask(userID string, taskID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskOwner(userID, taskID)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}
