package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/genesis-agents/genesis/internal/version"
)

// Version returns the current version
func Version() string {
	return version.Get()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("genesis version %s\n", Version())
	},
}
