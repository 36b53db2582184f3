package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/genesis-agents/genesis/pkg/models"
)

// Run is one persisted orchestration run.
type Run struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	ProjectName     string     `json:"project_name"`
	ProjectType     string     `json:"project_type"`
	Features        []string   `json:"features"`
	AgentsSpawned   int        `json:"agents_spawned"`
	DurationSeconds float64    `json:"duration_seconds"`
	Speedup         float64    `json:"speedup"`
	Stopped         bool       `json:"stopped"`
	Passed          bool       `json:"passed"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// RunAgent is one persisted agent row belonging to a run.
type RunAgent struct {
	RunID           string  `json:"run_id"`
	AgentID         string  `json:"agent_id"`
	Kind            string  `json:"kind"`
	Status          string  `json:"status"`
	TasksExecuted   int     `json:"tasks_executed"`
	DurationSeconds float64 `json:"duration_seconds"`
	Error           string  `json:"error,omitempty"`
}

// BuildRun folds an execution result and its report into the row this
// package persists.
func BuildRun(spec models.ProjectSpec, result *models.ExecutionResult, report models.ValidationReport, metrics models.RunMetrics) Run {
	completed := result.CompletedAt
	return Run{
		ID:              result.RunID,
		ProjectID:       result.ProjectID,
		ProjectName:     spec.Name,
		ProjectType:     string(spec.Type),
		Features:        result.Features,
		AgentsSpawned:   metrics.AgentsSpawned,
		DurationSeconds: result.DurationSeconds,
		Speedup:         metrics.Speedup,
		Stopped:         result.Stopped,
		Passed:          report.Passed(),
		StartedAt:       result.StartedAt,
		CompletedAt:     &completed,
	}
}

// BuildAgents flattens registry snapshots into agent rows, ordered by
// agent id.
func BuildAgents(runID string, agents map[string]models.AgentRecord) []RunAgent {
	ids := make([]string, 0, len(agents))
	for id := range agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]RunAgent, 0, len(ids))
	for _, id := range ids {
		record := agents[id]
		row := RunAgent{
			RunID:           runID,
			AgentID:         record.ID,
			Kind:            string(record.Kind),
			Status:          string(record.Status),
			TasksExecuted:   record.Metrics.TasksExecuted,
			DurationSeconds: record.Metrics.TotalDurationSeconds,
		}
		if n := len(record.Errors); n > 0 {
			row.Error = record.Errors[n-1].Message
		}
		rows = append(rows, row)
	}
	return rows
}

// SaveRun persists a run and its agent rows in one transaction.
func (db *DB) SaveRun(run Run, agents []RunAgent) error {
	features, err := json.Marshal(run.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	var completedAt any
	if run.CompletedAt != nil {
		completedAt = formatTime(*run.CompletedAt)
	}

	return db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (id, project_id, project_name, project_type, features,
				agents_spawned, duration_seconds, speedup, stopped, passed, started_at, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, run.ProjectID, run.ProjectName, run.ProjectType, string(features),
			run.AgentsSpawned, run.DurationSeconds, run.Speedup, run.Stopped, run.Passed,
			formatTime(run.StartedAt), completedAt)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, a := range agents {
			_, err := tx.Exec(`
				INSERT INTO run_agents (run_id, agent_id, kind, status, tasks_executed, duration_seconds, error)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, run.ID, a.AgentID, a.Kind, a.Status, a.TasksExecuted, a.DurationSeconds, a.Error)
			if err != nil {
				return fmt.Errorf("insert agent %s: %w", a.AgentID, err)
			}
		}
		return nil
	})
}

// GetRun retrieves a run by id. Returns nil when the run is unknown.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.QueryRow(`
		SELECT id, project_id, project_name, project_type, features,
			agents_spawned, duration_seconds, speedup, stopped, passed, started_at, completed_at
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns lists runs newest first. A limit of 0 returns everything.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	var rows *sql.Rows
	var err error

	if limit > 0 {
		rows, err = db.Query(`
			SELECT id, project_id, project_name, project_type, features,
				agents_spawned, duration_seconds, speedup, stopped, passed, started_at, completed_at
			FROM runs ORDER BY started_at DESC LIMIT ?
		`, limit)
	} else {
		rows, err = db.Query(`
			SELECT id, project_id, project_name, project_type, features,
				agents_spawned, duration_seconds, speedup, stopped, passed, started_at, completed_at
			FROM runs ORDER BY started_at DESC
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// AgentsForRun retrieves the agent rows of a run, ordered by agent id.
func (db *DB) AgentsForRun(runID string) ([]RunAgent, error) {
	rows, err := db.Query(`
		SELECT run_id, agent_id, kind, status, tasks_executed, duration_seconds, error
		FROM run_agents WHERE run_id = ? ORDER BY agent_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run agents: %w", err)
	}
	defer rows.Close()

	var agents []RunAgent
	for rows.Next() {
		var a RunAgent
		var agentErr sql.NullString
		if err := rows.Scan(&a.RunID, &a.AgentID, &a.Kind, &a.Status, &a.TasksExecuted, &a.DurationSeconds, &agentErr); err != nil {
			return nil, fmt.Errorf("scan run agent: %w", err)
		}
		a.Error = agentErr.String
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// scanRun reads one run row through the given scan function.
func scanRun(scan func(dest ...any) error) (*Run, error) {
	var r Run
	var features sql.NullString
	var startedAt string
	var completedAt sql.NullString

	err := scan(&r.ID, &r.ProjectID, &r.ProjectName, &r.ProjectType, &features,
		&r.AgentsSpawned, &r.DurationSeconds, &r.Speedup, &r.Stopped, &r.Passed,
		&startedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if features.Valid && features.String != "" {
		if err := json.Unmarshal([]byte(features.String), &r.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features: %w", err)
		}
	}
	r.StartedAt, _ = parseTime(startedAt)
	r.CompletedAt = parseNullableTime(completedAt)
	return &r, nil
}
