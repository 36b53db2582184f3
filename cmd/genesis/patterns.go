package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/genesis-agents/genesis/internal/config"
	"github.com/genesis-agents/genesis/internal/pattern"
	"github.com/genesis-agents/genesis/pkg/models"
)

var (
	patternsCategory string
	patternsJSON     bool
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the implementation pattern library",
	Long: `List the implementation patterns feature agents build against.

The built-in library ships patterns for landing pages and SaaS apps.
Custom patterns from workspace.patterns_file are merged in, overriding
built-ins with the same id.`,
	RunE: runPatterns,
}

func init() {
	patternsCmd.Flags().StringVar(&patternsCategory, "category", "", "Filter by category: landing_page or saas_app")
	patternsCmd.Flags().BoolVar(&patternsJSON, "json", false, "Output patterns as JSON")
}

func runPatterns(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	library := pattern.NewLibrary()
	if cfg.Workspace.PatternsFile != "" {
		if err := library.LoadFile(cfg.Workspace.PatternsFile); err != nil {
			fmt.Printf("Warning: custom patterns not loaded: %v\n", err)
		}
	}

	var patterns []pattern.Pattern
	if patternsCategory != "" {
		t := models.ProjectType(patternsCategory)
		if !t.Valid() || t == models.ProjectTypeUnknown {
			return fmt.Errorf("invalid category %q: must be %s or %s",
				patternsCategory, models.ProjectTypeLandingPage, models.ProjectTypeSaaSApp)
		}
		patterns = library.ByCategory(t)
	} else {
		patterns = library.All()
	}

	if patternsJSON {
		data, err := json.MarshalIndent(patterns, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal patterns: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%d patterns\n\n", len(patterns))
	for _, p := range patterns {
		fmt.Printf("%-24s %-14s %-8s ~%3dm  %s\n", p.ID, p.Category, p.Complexity, p.EstimatedMinutes, p.Name)
	}
	return nil
}
