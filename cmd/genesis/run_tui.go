package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/genesis-agents/genesis/internal/engine"
	"github.com/genesis-agents/genesis/internal/report"
	"github.com/genesis-agents/genesis/internal/tui"
	"github.com/genesis-agents/genesis/pkg/models"
)

// snapshotInterval is how often the board's worker grid is refreshed from
// the agent registry.
const snapshotInterval = 250 * time.Millisecond

// runOutcome carries the engine's result across the completion channel.
type runOutcome struct {
	result *models.ExecutionResult
	err    error
}

// runWithBoard executes the plan behind the live run board. It returns the
// engine's result so the caller can persist history and session state the
// same way headless mode does.
func runWithBoard(ctx context.Context, cancel context.CancelFunc, eng *engine.Engine, plan *models.ExecutionPlan, spec *models.ProjectSpec, refresh time.Duration) (_ *models.ExecutionResult, retErr error) {
	// Suppress log output while the board is active; it corrupts the
	// alt-screen display.
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("PANIC in runWithBoard: %v", r)
		}
	}()

	program, board := tui.NewRunProgram(
		tui.WithStopFunc(func() { eng.EmergencyStop() }),
		tui.WithRefreshRate(refresh),
	)
	board.SetProject(projectLabel(spec), spec.Type)
	board.SetFeaturesTotal(len(spec.Features))

	go forwardEventsToBoard(program, eng.Events())

	engDone := make(chan runOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				engDone <- runOutcome{err: fmt.Errorf("PANIC in engine: %v", r)}
			}
		}()
		result, err := eng.Run(ctx, plan)
		engDone <- runOutcome{result: result, err: err}
	}()

	// Push registry snapshots into the worker grid until the run settles.
	snapDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(snapshotInterval)
		defer ticker.Stop()
		for {
			select {
			case <-snapDone:
				return
			case <-ticker.C:
				program.Send(tui.AgentsSnapshotMsg{Agents: eng.Registry().All()})
			}
		}
	}()

	tuiDone := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				tuiDone <- fmt.Errorf("PANIC in run board: %v", r)
			}
		}()
		_, err := program.Run()
		tuiDone <- err
	}()

	select {
	case out := <-engDone:
		close(snapDone)
		program.Send(tui.AgentsSnapshotMsg{Agents: eng.Registry().All()})
		program.Send(buildRunDoneMsg(eng, spec, out))
		// The board stays up showing the summary until the user quits.
		<-tuiDone
		return out.result, out.err

	case err := <-tuiDone:
		// Board closed before the run finished. Stop admitting work and
		// wait for in-flight tasks to settle, leaving the session
		// resumable.
		close(snapDone)
		eng.EmergencyStop()
		cancel()
		fmt.Println("Run board closed, waiting for in-flight tasks...")
		out := <-engDone
		if err != nil {
			return out.result, err
		}
		return out.result, out.err
	}
}

// buildRunDoneMsg folds the engine outcome into the board's final message.
// A nil result means the run never started; only the error is reported.
func buildRunDoneMsg(eng *engine.Engine, spec *models.ProjectSpec, out runOutcome) tui.RunDoneMsg {
	if out.result == nil {
		return tui.RunDoneMsg{Err: out.err}
	}
	rep := report.Validate(out.result, eng.Registry().Snapshot())
	met := report.Estimate(out.result, spec, eng.Registry().Count())
	return tui.RunDoneMsg{
		Report:  rep,
		Metrics: met,
		Stopped: out.result.Stopped,
		Err:     out.err,
	}
}

// forwardEventsToBoard converts engine events into board messages.
func forwardEventsToBoard(program *tea.Program, events <-chan engine.Event) {
	for event := range events {
		errStr := ""
		if event.Err != nil {
			errStr = event.Err.Error()
		}
		program.Send(tui.RunEventMsg{
			Type:      string(event.Type),
			Phase:     event.Phase,
			TaskID:    event.TaskID,
			AgentID:   event.AgentID,
			Message:   event.Message,
			Error:     errStr,
			Timestamp: event.Timestamp,
		})
	}
}
