// Package tui provides the terminal user interface for Genesis runs.
//
// The package contains a read-only run board that displays orchestration
// progress in real time:
//   - Current phase (Setup or Features)
//   - Feature completion progress (e.g., 3/5 features complete)
//   - Spawned workers with status, current task, and elapsed time
//   - Activity log with recent engine events
//
// The board never drives the run; it only renders messages sent to it.
// Pressing 's' requests an emergency stop through the configured stop
// callback, and 'q' closes the board while the run finishes headless.
//
// Usage:
//
//	program, board := tui.NewRunProgram(tui.WithStopFunc(stop))
//	go program.Run()
//
//	// Forward engine events
//	program.Send(tui.RunEventMsg{Type: "task_started", AgentID: "gfa-1"})
//
//	// Sync worker records
//	program.Send(tui.AgentsSnapshotMsg{Agents: registry.All()})
//
//	// Signal completion
//	program.Send(tui.RunDoneMsg{Report: report, Metrics: metrics})
//
// The package also provides SpecPrompt, a small interactive form used by
// the init command to capture a project name, description, and features.
package tui
