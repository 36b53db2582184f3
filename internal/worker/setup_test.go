package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/genesis-agents/genesis/internal/scaffold"
	"github.com/genesis-agents/genesis/internal/tracker"
	"github.com/genesis-agents/genesis/pkg/models"
)

// fakeTracker serves the tracker endpoints the setup worker touches and
// records the last project-create payload.
func fakeTracker(t *testing.T, createStatus int, created *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/health":
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/api/projects" && r.Method == http.MethodPost:
			if createStatus != http.StatusOK {
				w.WriteHeader(createStatus)
				return
			}
			var payload map[string]any
			json.NewDecoder(r.Body).Decode(&payload)
			if created != nil {
				*created = payload
			}
			json.NewEncoder(w).Encode(tracker.Project{ID: "proj-1"})
		default:
			t.Errorf("unexpected tracker call: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestSetupWorkerExecute(t *testing.T) {
	var created map[string]any
	server := fakeTracker(t, http.StatusOK, &created)
	defer server.Close()

	root := t.TempDir()
	w := NewSetupWorker(
		WithSetupTracker(tracker.NewClient(tracker.WithBaseURL(server.URL))),
		WithSetupWorkspace(scaffold.New(scaffold.WithRoot(root))),
	)

	ctx := context.Background()
	if err := w.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	out, err := w.Execute(ctx, map[string]any{
		models.PayloadDescription: "SaaS dashboard application with authentication",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if out[models.PayloadProjectID] != "proj-1" {
		t.Errorf("project_id = %v, want proj-1", out[models.PayloadProjectID])
	}
	if out[models.PayloadProjectType] != "saas_app" {
		t.Errorf("project_type = %v, want saas_app", out[models.PayloadProjectType])
	}

	repo, _ := out["repository_url"].(string)
	if repo == "" {
		t.Fatal("repository_url missing from output")
	}
	if _, err := os.Stat(filepath.Join(repo, "README.md")); err != nil {
		t.Errorf("README not created: %v", err)
	}
	if !strings.HasSuffix(repo, "genesis-saas_app-proj-1") {
		t.Errorf("repository path = %s, want the genesis-saas_app-proj-1 directory", repo)
	}
	if created["title"] != "Genesis Saas App" {
		t.Errorf("tracker project title = %v, want Genesis Saas App", created["title"])
	}
}

func TestSetupWorkerHonorsTypeHint(t *testing.T) {
	root := t.TempDir()
	w := NewSetupWorker(
		WithSetupWorkspace(scaffold.New(scaffold.WithRoot(root))),
		WithOfflineFallback(true),
	)

	ctx := context.Background()
	if err := w.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	// The description screams saas, but the explicit hint wins.
	out, err := w.Execute(ctx, map[string]any{
		models.PayloadDescription: "saas application dashboard with auth",
		models.PayloadProjectType: "landing_page",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out[models.PayloadProjectType] != "landing_page" {
		t.Errorf("project_type = %v, want the landing_page hint", out[models.PayloadProjectType])
	}
}

func TestSetupWorkerOfflineFallback(t *testing.T) {
	// A server that is already closed stands in for an unreachable
	// tracker.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	root := t.TempDir()
	w := NewSetupWorker(
		WithSetupTracker(tracker.NewClient(tracker.WithBaseURL(server.URL))),
		WithSetupWorkspace(scaffold.New(scaffold.WithRoot(root))),
		WithOfflineFallback(true),
	)

	ctx := context.Background()
	if err := w.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() with fallback should absorb the outage, got %v", err)
	}

	out, err := w.Execute(ctx, map[string]any{
		models.PayloadDescription: "marketing landing page for a product launch",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	id, _ := out[models.PayloadProjectID].(string)
	if !strings.HasPrefix(id, "local-") {
		t.Errorf("project_id = %q, want a local- id in offline mode", id)
	}
	repo, _ := out["repository_url"].(string)
	if _, err := os.Stat(repo); err != nil {
		t.Errorf("project directory not created offline: %v", err)
	}
}

func TestSetupWorkerRequiresTrackerOrFallback(t *testing.T) {
	w := NewSetupWorker()
	if err := w.Initialize(context.Background()); err == nil {
		t.Error("Initialize() should fail with no tracker and no offline fallback")
	}
}

func TestSetupWorkerRequiresDescription(t *testing.T) {
	w := NewSetupWorker(WithOfflineFallback(true))
	if err := w.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Execute(context.Background(), map[string]any{}); err == nil {
		t.Error("Execute() should reject a payload without a description")
	}
}

func TestSetupWorkerTrackerErrorPropagates(t *testing.T) {
	server := fakeTracker(t, http.StatusInternalServerError, nil)
	defer server.Close()

	root := t.TempDir()
	w := NewSetupWorker(
		WithSetupTracker(tracker.NewClient(tracker.WithBaseURL(server.URL))),
		WithSetupWorkspace(scaffold.New(scaffold.WithRoot(root))),
	)

	ctx := context.Background()
	if err := w.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	_, err := w.Execute(ctx, map[string]any{
		models.PayloadDescription: "saas application",
	})
	if err == nil {
		t.Fatal("Execute() should fail when project creation fails without fallback")
	}
	if !strings.Contains(err.Error(), "create tracker project") {
		t.Errorf("error = %v, want the create-project context", err)
	}
}
