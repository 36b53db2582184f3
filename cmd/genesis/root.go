package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/genesis-agents/genesis/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Multi-Agent Project Scaffolding",
	Long: `Genesis builds project scaffolds with a team of parallel agents.

A single setup agent detects the project type from a plain-language
description, registers the project with the task tracker, and lays down
the workspace. Feature agents then implement the requested features
side by side against a library of proven implementation patterns.

Core capabilities:
- Detects landing pages and SaaS apps from the description
- Plans a two-phase run: setup first, then bounded-parallel features
- Matches each feature to an implementation pattern with time estimates
- Records every run and resumes stopped ones from the session store
- Tracks work items in the tracker, degrading to offline mode when down`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(tui.RenderLogo(80))
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
