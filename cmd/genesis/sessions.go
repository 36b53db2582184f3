package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/genesis-agents/genesis/internal/session"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List run sessions in this workspace",
	Long: `List run sessions recorded in this workspace.

A session tracks which features a run completed. Stopped sessions can
be picked up again with 'genesis run --resume <id>' to build only the
remaining features.`,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "Maximum sessions to show")
}

func runSessions(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	dbPath := sessionDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No sessions recorded. Start a run with 'genesis run <description>'.")
		return nil
	}

	store, err := session.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	sessions, err := store.ListSessions(sessionsLimit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return nil
	}

	fmt.Println("Sessions:")
	for _, s := range sessions {
		displaySessionRow(s)
	}

	if latest, err := store.LatestResumable(); err == nil && latest != nil {
		fmt.Printf("\nResume the most recent stopped session with:\n  genesis run --resume %s\n", latest.ID)
	}
	return nil
}

// displaySessionRow prints one session with its completion progress.
func displaySessionRow(s session.Session) {
	total := len(s.Completed)
	if spec, err := s.Spec(); err == nil {
		total = len(spec.Features)
	}

	status := s.Status
	switch s.Status {
	case session.StatusCompleted:
		status = color.GreenString("%-9s", s.Status)
	case session.StatusStopped:
		status = color.YellowString("%-9s", s.Status)
	case session.StatusFailed:
		status = color.RedString("%-9s", s.Status)
	default:
		status = fmt.Sprintf("%-9s", s.Status)
	}

	fmt.Printf("  %s  %s %d/%d features  %s ago\n",
		s.ID, status, len(s.Completed), total, formatDuration(time.Since(s.UpdatedAt)))
}
