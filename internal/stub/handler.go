package stub

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/api/transport"
	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	appLogger "github.com/fastygo/taskflow/pkg/logger"
)

type baseHandler struct {
	store   *Store
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, status int, message string) {
	h.respondJSON(ctx, status, transport.NewError(message))
}

// userID attaches request metadata and returns the authenticated user.
func (h baseHandler) userID(ctx *fasthttp.RequestCtx) (string, *zap.Logger) {
	stdCtx, cancel := h.adapter.Attach(ctx)
	defer cancel()
	return httpcontext.UserID(stdCtx), appLogger.WithRequestID(stdCtx, h.logger)
}

// injectedWriteFailure answers with a scheduled failure, if any.
func (h baseHandler) injectedWriteFailure(ctx *fasthttp.RequestCtx) bool {
	if f := h.store.takeWriteFailure(); f != nil {
		h.respondError(ctx, f.status, f.message)
		return true
	}
	return false
}

func pathID(ctx *fasthttp.RequestCtx, name string) (int64, bool) {
	raw, _ := ctx.UserValue(name).(string)
	return parseID(raw)
}

type authHandler struct {
	baseHandler
	tokens *tokenIssuer
}

func (h *authHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		h.respondError(ctx, http.StatusBadRequest, "All fields are required")
		return
	}
	if h.injectedWriteFailure(ctx) {
		return
	}
	if !h.store.register(req.Name, req.Email, req.Password) {
		h.respondError(ctx, http.StatusBadRequest, "User already exists")
		return
	}
	h.respondJSON(ctx, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (h *authHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, http.StatusBadRequest, "invalid payload")
		return
	}
	acc, ok := h.store.authenticate(req.Email, req.Password)
	if !ok {
		h.respondError(ctx, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, err := h.tokens.issue(acc)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		h.respondError(ctx, http.StatusInternalServerError, "could not issue token")
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.LoginResponse{
		Token: token,
		User:  domain.User{ID: domain.ID(acc.ID), Name: acc.Name, Email: acc.Email},
	})
}

type projectHandler struct {
	baseHandler
	wrap bool
}

func (h *projectHandler) List(ctx *fasthttp.RequestCtx) {
	userID, _ := h.userID(ctx)
	projects := h.store.listProjects(userID)
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectResponse(p))
	}
	if h.wrap {
		h.respondJSON(ctx, http.StatusOK, map[string]interface{}{"projects": out})
		return
	}
	h.respondJSON(ctx, http.StatusOK, out)
}

func (h *projectHandler) Create(ctx *fasthttp.RequestCtx) {
	userID, log := h.userID(ctx)
	var req transport.ProjectRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || strings.TrimSpace(req.Name) == "" {
		h.respondError(ctx, http.StatusBadRequest, "Project name is required")
		return
	}
	if h.injectedWriteFailure(ctx) {
		return
	}
	p := h.store.createProject(userID, req.Name)
	log.Debug("project created", zap.Int64("project_id", p.ID))
	h.respondJSON(ctx, http.StatusCreated, projectResponse(p))
}

func (h *projectHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID, log := h.userID(ctx)
	id, ok := pathID(ctx, "id")
	if !ok {
		h.respondError(ctx, http.StatusBadRequest, "invalid project id")
		return
	}
	if h.injectedWriteFailure(ctx) {
		return
	}
	if !h.store.deleteProject(userID, id) {
		h.respondError(ctx, http.StatusNotFound, "Project not found")
		return
	}
	log.Debug("project deleted", zap.Int64("project_id", id))
	h.respondJSON(ctx, http.StatusOK, map[string]string{"message": "Project and its tasks deleted"})
}

type taskHandler struct {
	baseHandler
	wrap bool
}

func (h *taskHandler) List(ctx *fasthttp.RequestCtx) {
	userID, _ := h.userID(ctx)
	projectID, ok := pathID(ctx, "projectId")
	if !ok {
		h.respondError(ctx, http.StatusBadRequest, "invalid project id")
		return
	}
	if status := h.store.taskListFailure(projectID); status != 0 {
		h.respondError(ctx, status, "task list unavailable")
		return
	}
	if !h.store.ownsProject(userID, projectID) {
		h.respondError(ctx, http.StatusNotFound, "Project not found")
		return
	}
	tasks := h.store.listTasks(projectID)
	out := make([]taskBody, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskBody(t))
	}
	if h.wrap {
		h.respondJSON(ctx, http.StatusOK, map[string]interface{}{"tasks": out})
		return
	}
	h.respondJSON(ctx, http.StatusOK, out)
}

func (h *taskHandler) Create(ctx *fasthttp.RequestCtx) {
	userID, log := h.userID(ctx)
	projectID, ok := pathID(ctx, "projectId")
	if !ok {
		h.respondError(ctx, http.StatusBadRequest, "invalid project id")
		return
	}
	in, ok := h.parseTask(ctx)
	if !ok {
		return
	}
	if h.injectedWriteFailure(ctx) {
		return
	}
	if !h.store.ownsProject(userID, projectID) {
		h.respondError(ctx, http.StatusNotFound, "Project not found")
		return
	}
	in.ProjectID = projectID
	created := h.store.createTask(in)
	log.Debug("task created", zap.Int64("task_id", created.ID))
	h.respondJSON(ctx, http.StatusCreated, newTaskBody(created))
}

func (h *taskHandler) Update(ctx *fasthttp.RequestCtx) {
	userID, _ := h.userID(ctx)
	id, ok := pathID(ctx, "id")
	if !ok {
		h.respondError(ctx, http.StatusBadRequest, "invalid task id")
		return
	}
	in, ok := h.parseTask(ctx)
	if !ok {
		return
	}
	if h.injectedWriteFailure(ctx) {
		return
	}
	in.ID = id
	updated, found := h.store.updateTask(userID, in)
	if !found {
		h.respondError(ctx, http.StatusNotFound, "Task not found")
		return
	}
	h.respondJSON(ctx, http.StatusOK, newTaskBody(updated))
}

func (h *taskHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID, _ := h.userID(ctx)
	id, ok := pathID(ctx, "id")
	if !ok {
		h.respondError(ctx, http.StatusBadRequest, "invalid task id")
		return
	}
	if h.injectedWriteFailure(ctx) {
		return
	}
	if !h.store.deleteTask(userID, id) {
		h.respondError(ctx, http.StatusNotFound, "Task not found")
		return
	}
	h.respondJSON(ctx, http.StatusOK, map[string]string{"message": "Task deleted"})
}

// parseTask decodes a task body, defaulting priority and status the way the
// web form does.
func (h *taskHandler) parseTask(ctx *fasthttp.RequestCtx) (task, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(ctx.PostBody(), &raw); err != nil {
		h.respondError(ctx, http.StatusBadRequest, "invalid payload")
		return task{}, false
	}
	if v, ok := raw["priority"]; !ok || string(v) == `""` || string(v) == "null" {
		raw["priority"] = json.RawMessage(`"Low"`)
	}
	if v, ok := raw["status"]; !ok || string(v) == `""` || string(v) == "null" {
		raw["status"] = json.RawMessage(`"To Do"`)
	}
	normalized, _ := json.Marshal(raw)

	var in domain.Task
	if err := json.Unmarshal(normalized, &in); err != nil {
		h.respondError(ctx, http.StatusBadRequest, err.Error())
		return task{}, false
	}
	if strings.TrimSpace(in.Title) == "" {
		h.respondError(ctx, http.StatusBadRequest, "Title is required")
		return task{}, false
	}
	return task{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
		DueDate:     in.DueDate,
	}, true
}

// taskBody is the wire form of a stored task. Due dates go out as midnight
// UTC date-times, the way a timestamp column serializes them.
type taskBody struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"project_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    domain.Priority `json:"priority"`
	Status      domain.Status   `json:"status"`
	DueDate     *string         `json:"due_date"`
}

func newTaskBody(t task) taskBody {
	body := taskBody{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
	}
	if t.DueDate != nil {
		due := time.Date(t.DueDate.Year, t.DueDate.Month, t.DueDate.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02T15:04:05.000Z")
		body.DueDate = &due
	}
	return body
}

func projectResponse(p project) domain.Project {
	return domain.Project{ID: domain.ID(strconv.FormatInt(p.ID, 10)), Name: p.Name}
}
