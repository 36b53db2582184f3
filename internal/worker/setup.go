package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/genesis-agents/genesis/internal/detect"
	"github.com/genesis-agents/genesis/internal/scaffold"
	"github.com/genesis-agents/genesis/internal/tracker"
	"github.com/genesis-agents/genesis/pkg/models"
)

// offlineProjectPrefix marks project ids minted locally when the
// tracker is unavailable. Feature workers skip tracker tasks for these
// projects.
const offlineProjectPrefix = "local-"

func newOfflineProjectID() string {
	return offlineProjectPrefix + uuid.New().String()[:8]
}

// SetupWorker initializes one project: detects the project type, creates
// the tracker project, and lays down the repository workspace.
type SetupWorker struct {
	tracker      *tracker.Client
	workspace    *scaffold.Workspace
	hints        string
	gitInit      bool
	allowOffline bool
	offline      bool
	debugLog     func(format string, args ...interface{})
}

// SetupOption configures a SetupWorker.
type SetupOption func(*SetupWorker)

// WithSetupTracker sets the tracker client. Without one the worker can
// only run in offline mode.
func WithSetupTracker(c *tracker.Client) SetupOption {
	return func(w *SetupWorker) { w.tracker = c }
}

// WithSetupWorkspace sets the scaffold workspace.
func WithSetupWorkspace(ws *scaffold.Workspace) SetupOption {
	return func(w *SetupWorker) {
		if ws != nil {
			w.workspace = ws
		}
	}
}

// WithSetupHints passes survey text that weighs into type detection.
func WithSetupHints(hints string) SetupOption {
	return func(w *SetupWorker) { w.hints = hints }
}

// WithGitInit enables git repository initialization for new projects.
func WithGitInit(enabled bool) SetupOption {
	return func(w *SetupWorker) { w.gitInit = enabled }
}

// WithOfflineFallback lets setup proceed with a locally generated
// project id when the tracker is missing or unreachable.
func WithOfflineFallback(enabled bool) SetupOption {
	return func(w *SetupWorker) { w.allowOffline = enabled }
}

// WithSetupDebugLog sets the debug log function.
func WithSetupDebugLog(fn func(format string, args ...interface{})) SetupOption {
	return func(w *SetupWorker) {
		if fn != nil {
			w.debugLog = fn
		}
	}
}

// NewSetupWorker creates a setup worker.
func NewSetupWorker(opts ...SetupOption) *SetupWorker {
	w := &SetupWorker{
		workspace: scaffold.New(),
		debugLog:  func(format string, args ...interface{}) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Initialize verifies the tracker is reachable, or switches to offline
// mode when the fallback is allowed.
func (w *SetupWorker) Initialize(ctx context.Context) error {
	if w.tracker == nil {
		if !w.allowOffline {
			return fmt.Errorf("no tracker client configured and offline fallback disabled")
		}
		w.offline = true
		w.debugLog("[setup] no tracker client, running offline")
		return nil
	}
	if err := w.tracker.Health(ctx); err != nil {
		if !w.allowOffline {
			return fmt.Errorf("tracker health check: %w", err)
		}
		w.offline = true
		log.Printf("[setup] tracker unreachable, falling back to offline mode: %v", err)
	}
	return nil
}

// Execute runs the full setup flow. The payload carries the project
// description and an optional project_type hint.
func (w *SetupWorker) Execute(ctx context.Context, payload map[string]any) (map[string]any, error) {
	start := time.Now()

	description, _ := payload[models.PayloadDescription].(string)
	if description == "" {
		return nil, fmt.Errorf("setup payload missing description")
	}

	projectType := w.resolveType(description, payload)
	projectID, err := w.createProject(ctx, description, projectType)
	if err != nil {
		return nil, err
	}

	path, err := w.workspace.InitProject(projectType, projectID)
	if err != nil {
		return nil, err
	}
	if w.gitInit {
		if err := w.workspace.InitGit(path); err != nil {
			return nil, err
		}
	}

	return map[string]any{
		models.PayloadProjectID:   projectID,
		models.PayloadProjectType: string(projectType),
		"repository_url":          path,
		"services_configured":     []string{},
		"setup_time_seconds":      time.Since(start).Seconds(),
	}, nil
}

// resolveType honors an explicit hint in the payload; otherwise it runs
// detection over the description.
func (w *SetupWorker) resolveType(description string, payload map[string]any) models.ProjectType {
	if hint, ok := payload[models.PayloadProjectType].(string); ok {
		t := models.ProjectType(hint)
		if t.Valid() && t != models.ProjectTypeUnknown {
			w.debugLog("[setup] project type %s (payload hint)", t)
			return t
		}
	}

	d := detect.DetectWithHints(description, w.hints)
	log.Printf("[setup] detected project type: %s (confidence %.0f%%)", d.Type, d.Confidence*100)
	w.debugLog("[setup] detection reasoning: %s", d.Reasoning)
	return d.Type
}

// createProject registers the project with the tracker, or mints a local
// id in offline mode.
func (w *SetupWorker) createProject(ctx context.Context, description string, projectType models.ProjectType) (string, error) {
	if w.offline {
		id := newOfflineProjectID()
		w.debugLog("[setup] offline project id %s", id)
		return id, nil
	}

	project, err := w.tracker.CreateProject(ctx, tracker.CreateProjectRequest{
		Title:       "Genesis " + projectType.Title(),
		Description: description,
	})
	if err != nil {
		if w.allowOffline {
			id := newOfflineProjectID()
			log.Printf("[setup] tracker project creation failed, continuing offline: %v", err)
			return id, nil
		}
		return "", fmt.Errorf("create tracker project: %w", err)
	}
	return project.ID, nil
}
