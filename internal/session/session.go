// Package session persists in-flight run state so a stopped or crashed
// run can be resumed with only its missing features.
package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/genesis-agents/genesis/pkg/models"
)

// Session statuses.
const (
	StatusStarted   = "started"
	StatusStopped   = "stopped"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Session represents one run attempt with enough state to resume it.
type Session struct {
	ID        string
	RunID     string
	ProjectID string
	// SpecJSON is the serialized ProjectSpec the run was started with.
	SpecJSON string
	// Completed lists the features that finished before the run ended.
	Completed []string
	Status    string
	StartedAt time.Time
	UpdatedAt time.Time
}

// Spec deserializes the spec the session was started with.
func (s *Session) Spec() (models.ProjectSpec, error) {
	var spec models.ProjectSpec
	if err := json.Unmarshal([]byte(s.SpecJSON), &spec); err != nil {
		return models.ProjectSpec{}, fmt.Errorf("unmarshal session spec: %w", err)
	}
	return spec, nil
}

// Remaining returns the spec features that have not completed yet, in
// spec order.
func (s *Session) Remaining() ([]string, error) {
	spec, err := s.Spec()
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(s.Completed))
	for _, f := range s.Completed {
		done[f] = true
	}
	var remaining []string
	for _, f := range spec.Features {
		if !done[f] {
			remaining = append(remaining, f)
		}
	}
	return remaining, nil
}

// Store manages run session state for crash recovery.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store with the given database path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS run_sessions (
			id TEXT PRIMARY KEY,
			run_id TEXT,
			project_id TEXT,
			spec_json TEXT,
			completed TEXT,
			status TEXT,
			started_at DATETIME,
			updated_at DATETIME
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &Store{db: db}, nil
}

// CreateSession opens a session for a run that is about to start.
func (s *Store) CreateSession(runID string, spec models.ProjectSpec) (*Session, error) {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal spec: %w", err)
	}

	now := time.Now()
	session := &Session{
		ID:        uuid.New().String(),
		RunID:     runID,
		SpecJSON:  string(specJSON),
		Status:    StatusStarted,
		StartedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.Exec(`
		INSERT INTO run_sessions (id, run_id, project_id, spec_json, completed, status, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.RunID, session.ProjectID, session.SpecJSON, "[]", session.Status, session.StartedAt, session.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return session, nil
}

// UpdateSession writes the session's mutable fields back.
func (s *Store) UpdateSession(session *Session) error {
	session.UpdatedAt = time.Now()

	completed, err := json.Marshal(session.Completed)
	if err != nil {
		return fmt.Errorf("marshal completed features: %w", err)
	}

	result, err := s.db.Exec(`
		UPDATE run_sessions
		SET run_id = ?, project_id = ?, completed = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, session.RunID, session.ProjectID, string(completed), session.Status, session.UpdatedAt, session.ID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session not found: %s", session.ID)
	}

	return nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT id, run_id, project_id, spec_json, completed, status, started_at, updated_at
		FROM run_sessions
		WHERE id = ?
	`, id)

	session, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return session, nil
}

// LatestResumable returns the most recently updated stopped session,
// or nil when nothing is waiting to resume.
func (s *Store) LatestResumable() (*Session, error) {
	row := s.db.QueryRow(`
		SELECT id, run_id, project_id, spec_json, completed, status, started_at, updated_at
		FROM run_sessions
		WHERE status = ?
		ORDER BY updated_at DESC
		LIMIT 1
	`, StatusStopped)

	session, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return session, nil
}

// ListSessions returns sessions newest first.
func (s *Store) ListSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, run_id, project_id, spec_json, completed, status, started_at, updated_at
		FROM run_sessions
		ORDER BY updated_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session by ID.
func (s *Store) DeleteSession(id string) error {
	result, err := s.db.Exec(`DELETE FROM run_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session not found: %s", id)
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanSession(scan func(dest ...any) error) (*Session, error) {
	var session Session
	var projectID, completed sql.NullString

	err := scan(
		&session.ID,
		&session.RunID,
		&projectID,
		&session.SpecJSON,
		&completed,
		&session.Status,
		&session.StartedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.ProjectID = projectID.String
	if completed.Valid && completed.String != "" {
		if err := json.Unmarshal([]byte(completed.String), &session.Completed); err != nil {
			return nil, fmt.Errorf("unmarshal completed features: %w", err)
		}
	}
	return &session, nil
}
