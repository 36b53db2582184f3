package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/genesis-agents/genesis/internal/history"
	"github.com/genesis-agents/genesis/internal/signals"
)

var (
	statusLimit int
	statusJSON  bool
	statusYAML  bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent runs and the active run",
	Long: `Show recent runs from the history database.

The workspace database (.genesis/history.db) is preferred when present;
otherwise the global one is read. An active run marker is shown when a
run is currently executing in this workspace.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "Maximum runs to show")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output runs as JSON")
	statusCmd.Flags().BoolVar(&statusYAML, "yaml", false, "Output runs as YAML")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	// Workspace database first, then the global one.
	dbPath := history.WorkspaceDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = history.GlobalDBPath()
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No runs recorded. Start one with 'genesis run <description>'.")
		return nil
	}

	db, err := history.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate history database: %w", err)
	}

	runs, err := db.ListRuns(statusLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if statusJSON {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal runs: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	if statusYAML {
		data, err := yaml.Marshal(runs)
		if err != nil {
			return fmt.Errorf("marshal runs: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	// Only peek at the active-run marker when a .genesis directory is
	// already there; the manager would create one otherwise.
	if _, err := os.Stat(filepath.Join(cwd, signals.GenesisDir)); err == nil {
		if m, merr := signals.NewManager(cwd); merr == nil {
			if active := m.ActiveRun(); active != "" {
				fmt.Printf("Active run: session %s\n\n", shortID(active))
			}
			m.Close()
		}
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded. Start one with 'genesis run <description>'.")
		return nil
	}

	fmt.Printf("Recent runs (%s):\n", dbPath)
	for _, r := range runs {
		displayRun(r)
	}
	return nil
}

// displayRun prints one history row with a colored verdict.
func displayRun(r history.Run) {
	verdict := color.GreenString("%-7s", "passed")
	switch {
	case r.Stopped:
		verdict = color.YellowString("%-7s", "stopped")
	case !r.Passed:
		verdict = color.RedString("%-7s", "failed")
	}

	name := r.ProjectName
	if name == "" {
		name = r.ProjectType
	}
	if len(name) > 24 {
		name = name[:21] + "..."
	}

	fmt.Printf("  %-8s %s %-24s %2d features %7.1fs %5.2fx  %s ago\n",
		r.ID, verdict, name, len(r.Features), r.DurationSeconds, r.Speedup,
		formatDuration(time.Since(r.StartedAt)))
}

// formatDuration formats a duration in human-readable form
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % 60
		if minutes > 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	days := int(d.Hours()) / 24
	return fmt.Sprintf("%dd", days)
}
