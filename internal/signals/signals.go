// Package signals implements the cross-process stop channel. A run
// watches its .genesis/signals directory; `genesis stop` drops a stop
// file there from another terminal, and the run flips into emergency
// stop without either process knowing the other's pid.
package signals

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// GenesisDir is the per-workspace state directory.
const GenesisDir = ".genesis"

const (
	stopFile      = "stop"
	activeRunFile = "run"
)

// Manager watches the signals directory and answers whether the
// current run should stop.
type Manager struct {
	genesisDir string

	mu         sync.RWMutex
	stopSignal bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewManager creates the .genesis layout under rootPath and starts the
// signal watcher. A failed watcher is not an error; ShouldStop falls
// back to polling the file directly.
func NewManager(rootPath string) (*Manager, error) {
	genesisDir := filepath.Join(rootPath, GenesisDir)
	if err := os.MkdirAll(filepath.Join(genesisDir, "signals"), 0o755); err != nil {
		return nil, err
	}

	m := &Manager{
		genesisDir: genesisDir,
		done:       make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return m, nil
	}
	if err := watcher.Add(filepath.Join(genesisDir, "signals")); err != nil {
		watcher.Close()
		return m, nil
	}
	m.watcher = watcher
	go m.watchSignals()

	return m, nil
}

// watchSignals monitors the signals directory for the stop file.
func (m *Manager) watchSignals() {
	for {
		select {
		case <-m.done:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) == stopFile && (event.Op&fsnotify.Create != 0 || event.Op&fsnotify.Write != 0) {
				m.mu.Lock()
				m.stopSignal = true
				m.mu.Unlock()
			}
		case <-m.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// ShouldStop returns true once a stop signal has been received.
func (m *Manager) ShouldStop() bool {
	// Also check the file directly in case the watcher missed it.
	if _, err := os.Stat(m.signalPath()); err == nil {
		m.mu.Lock()
		m.stopSignal = true
		m.mu.Unlock()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stopSignal
}

// SendStop creates the stop signal file. Safe to call from a process
// that is not running the watched run.
func (m *Manager) SendStop() error {
	return os.WriteFile(m.signalPath(), []byte(time.Now().Format(time.RFC3339)), 0o644)
}

// Clear removes the stop file and resets the in-memory state. Runs
// call this on startup so a stale stop from a previous run cannot kill
// them at admission.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopSignal = false
	os.Remove(m.signalPath())
}

// MarkRunActive records the run id so other commands can report what
// is currently executing.
func (m *Manager) MarkRunActive(runID string) error {
	return os.WriteFile(filepath.Join(m.genesisDir, activeRunFile), []byte(runID+"\n"), 0o644)
}

// ActiveRun returns the recorded run id, or "" when no run has been
// marked active.
func (m *Manager) ActiveRun() string {
	content, err := os.ReadFile(filepath.Join(m.genesisDir, activeRunFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}

// ClearRun removes the active-run marker.
func (m *Manager) ClearRun() {
	os.Remove(filepath.Join(m.genesisDir, activeRunFile))
}

// Dir returns the path to the .genesis directory.
func (m *Manager) Dir() string {
	return m.genesisDir
}

// Close shuts down the watcher.
func (m *Manager) Close() {
	close(m.done)
	if m.watcher != nil {
		m.watcher.Close()
	}
}

func (m *Manager) signalPath() string {
	return filepath.Join(m.genesisDir, "signals", stopFile)
}
