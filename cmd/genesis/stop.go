package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/genesis-agents/genesis/internal/signals"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Signal the active run to stop",
	Long: `Signal a genesis run executing in this workspace to stop.

The run finishes its in-flight tasks, skips everything not yet
dispatched, and records the session as stopped so the remaining
features can be built later with 'genesis run --resume'.`,
	RunE: runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	if _, err := os.Stat(filepath.Join(cwd, signals.GenesisDir)); os.IsNotExist(err) {
		fmt.Println("No genesis workspace found here, nothing to stop.")
		return nil
	}

	m, err := signals.NewManager(cwd)
	if err != nil {
		return fmt.Errorf("open signals: %w", err)
	}
	defer m.Close()

	active := m.ActiveRun()
	if err := m.SendStop(); err != nil {
		return fmt.Errorf("send stop signal: %w", err)
	}

	if active != "" {
		fmt.Printf("%s Stop signal sent to session %s\n", color.GreenString("✓"), shortID(active))
	} else {
		fmt.Printf("%s Stop signal sent (no active run recorded)\n", color.YellowString("⚠"))
	}
	fmt.Println("In-flight tasks will finish; queued tasks will be skipped.")
	return nil
}
