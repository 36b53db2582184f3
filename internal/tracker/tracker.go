// Package tracker is the HTTP client for the external task tracker.
// Projects and tasks created during a run are mirrored there so progress
// is visible outside the process.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is where a locally running tracker listens.
	DefaultBaseURL = "http://localhost:8181"
	// DefaultTimeout bounds every tracker call.
	DefaultTimeout = 30 * time.Second
	// DefaultAssignee is the assignee recorded when none is given.
	DefaultAssignee = "Archon"
)

// TaskStatus is the tracker-side lifecycle of a task.
type TaskStatus string

const (
	TaskStatusTodo   TaskStatus = "todo"
	TaskStatusDoing  TaskStatus = "doing"
	TaskStatusReview TaskStatus = "review"
	TaskStatusDone   TaskStatus = "done"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusDoing, TaskStatusReview, TaskStatusDone:
		return true
	default:
		return false
	}
}

// Project is a tracker project record.
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	GitHubRepo  string   `json:"github_repo,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// Task is a tracker task record.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Assignee    string     `json:"assignee"`
}

// StatusError is returned when the tracker answers with a non-2xx code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tracker returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("tracker returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the tracker's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	debugLog   func(format string, args ...interface{})
}

// Option configures a Client. Use With* functions to create Options.
type Option func(*Client)

// WithBaseURL overrides the tracker base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithDebugLog sets the debug log function.
func WithDebugLog(fn func(format string, args ...interface{})) Option {
	return func(c *Client) {
		if fn != nil {
			c.debugLog = fn
		}
	}
}

// NewClient creates a tracker client with the default endpoint and
// timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		debugLog:   func(format string, args ...interface{}) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured tracker endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health reports whether the tracker answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// FindProjects lists projects, optionally filtered by a search term.
func (c *Client) FindProjects(ctx context.Context, search string) ([]Project, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	var projects []Project
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects", query, nil, &projects); err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}
	return projects, nil
}

// GetProject fetches one project by id.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects/"+id, nil, nil, &project); err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return &project, nil
}

// CreateProjectRequest carries the fields for a new project. Title is
// required; everything else is optional.
type CreateProjectRequest struct {
	Title       string
	Description string
	GitHubRepo  string
	Features    []string
}

// CreateProject registers a new project with the tracker.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("create project: title cannot be empty")
	}

	payload := map[string]any{
		"title":       req.Title,
		"description": req.Description,
	}
	if req.GitHubRepo != "" {
		payload["github_repo"] = req.GitHubRepo
	}
	if len(req.Features) > 0 {
		payload["features"] = req.Features
	}

	var project Project
	if err := c.doJSON(ctx, http.MethodPost, "/api/projects", nil, payload, &project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	c.debugLog("[tracker] created project %s (%s)", project.ID, project.Title)
	return &project, nil
}

// TaskFilter narrows FindTasks results. Zero value lists everything.
type TaskFilter struct {
	ProjectID string
	Status    TaskStatus
}

// FindTasks lists tasks matching the filter.
func (c *Client) FindTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	query := url.Values{}
	if filter.ProjectID != "" {
		query.Set("project_id", filter.ProjectID)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	var tasks []Task
	if err := c.doJSON(ctx, http.MethodGet, "/api/tasks", query, nil, &tasks); err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return tasks, nil
}

// CreateTaskRequest carries the fields for a new task. Title is
// required. Status defaults to todo and Assignee to DefaultAssignee.
type CreateTaskRequest struct {
	Title       string
	Description string
	ProjectID   string
	Status      TaskStatus
	Assignee    string
}

// CreateTask registers a new task with the tracker.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("create task: title cannot be empty")
	}
	status := req.Status
	if status == "" {
		status = TaskStatusTodo
	}
	if !status.Valid() {
		return nil, fmt.Errorf("create task: invalid status %q", status)
	}
	assignee := req.Assignee
	if assignee == "" {
		assignee = DefaultAssignee
	}

	payload := map[string]any{
		"title":       req.Title,
		"description": req.Description,
		"status":      status,
		"assignee":    assignee,
	}
	if req.ProjectID != "" {
		payload["project_id"] = req.ProjectID
	}

	var task Task
	if err := c.doJSON(ctx, http.MethodPost, "/api/tasks", nil, payload, &task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	c.debugLog("[tracker] created task %s (%s)", task.ID, task.Title)
	return &task, nil
}

// UpdateTaskRequest carries task fields to change; empty fields are left
// untouched by the tracker.
type UpdateTaskRequest struct {
	Title       string
	Description string
	Status      TaskStatus
	Assignee    string
}

// UpdateTask patches an existing task.
func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, fmt.Errorf("update task: invalid status %q", req.Status)
	}

	payload := map[string]any{}
	if req.Title != "" {
		payload["title"] = req.Title
	}
	if req.Description != "" {
		payload["description"] = req.Description
	}
	if req.Status != "" {
		payload["status"] = req.Status
	}
	if req.Assignee != "" {
		payload["assignee"] = req.Assignee
	}

	var task Task
	if err := c.doJSON(ctx, http.MethodPatch, "/api/tasks/"+id, nil, payload, &task); err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}
	return &task, nil
}

// doJSON performs one API call: optional JSON body in, optional JSON
// body out, non-2xx mapped to StatusError.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.debugLog("[tracker] %s %s", method, u)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
