package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/genesis-agents/genesis/internal/detect"
	"github.com/genesis-agents/genesis/internal/scaffold"
	"github.com/genesis-agents/genesis/internal/signals"
	"github.com/genesis-agents/genesis/internal/tui"
	"github.com/genesis-agents/genesis/pkg/models"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a genesis workspace",
	Long: `Initialize a genesis workspace in the given directory (default:
current directory).

An interactive prompt collects the project name, description, and
features, then the workspace is set up:
- .genesis/ directory for signals, sessions, and run history
- genesis.yaml project spec, ready for 'genesis run --spec'
- .genesis.yaml config template with commented defaults
- .gitignore entries for generated state

The project type is detected from the description. When no features
are given, a starter set for the detected type is filled in.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing genesis.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fmt.Printf("Initializing genesis workspace in %s\n\n", absPath)

	specPath := filepath.Join(absPath, "genesis.yaml")
	if _, err := os.Stat(specPath); err == nil && !initForce {
		printStatus("⚠", "genesis.yaml already exists. Use --force to overwrite.", color.FgYellow)
		return nil
	}

	prompt, err := tui.RunSpecPrompt()
	if err != nil {
		return fmt.Errorf("spec prompt: %w", err)
	}
	if prompt.Canceled() {
		fmt.Println("Canceled.")
		return nil
	}
	description := strings.TrimSpace(prompt.Description())
	if description == "" {
		return fmt.Errorf("project description is required")
	}

	// Signals manager creation lays down the .genesis directory that the
	// session store and history database live in.
	m, err := signals.NewManager(absPath)
	if err != nil {
		return fmt.Errorf("create .genesis directory: %w", err)
	}
	m.Close()
	printStatus("✓", "Created .genesis directory", color.FgGreen)

	detection := detect.Detect(description)
	printStatus("✓", fmt.Sprintf("Detected project type: %s (%.0f%% confidence)", detection.Type, detection.Confidence*100), color.FgGreen)

	features := prompt.Features()
	if len(features) == 0 {
		features = detect.SuggestFeatures(detection.Type)
		printStatus("✓", fmt.Sprintf("Filled in %d starter features", len(features)), color.FgGreen)
	}

	spec := models.ProjectSpec{
		Name:        prompt.Name(),
		Description: description,
		Type:        detection.Type,
		Features:    features,
	}
	if err := writeSpecFile(specPath, spec); err != nil {
		return fmt.Errorf("write genesis.yaml: %w", err)
	}
	printStatus("✓", "Wrote genesis.yaml", color.FgGreen)

	if err := createProjectConfig(absPath); err != nil {
		printStatus("⚠", fmt.Sprintf("Config template not written: %v", err), color.FgYellow)
	} else {
		printStatus("✓", "Created .genesis.yaml config template", color.FgGreen)
	}

	if err := updateGitignore(absPath); err != nil {
		printStatus("⚠", fmt.Sprintf(".gitignore not updated: %v", err), color.FgYellow)
	} else {
		printStatus("✓", "Updated .gitignore", color.FgGreen)
	}

	if _, err := exec.LookPath("git"); err != nil {
		printStatus("⚠", "git not found; generated projects will skip git init", color.FgYellow)
	}
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		printStatus("⚠", "ANTHROPIC_API_KEY not set; feature suggestions will use the static list", color.FgYellow)
	}

	green := color.New(color.FgGreen, color.Bold)
	green.Println("\n✓ Workspace initialized!")
	fmt.Printf("\nProject: %s (%s)\n", projectLabel(&spec), spec.Type)
	fmt.Printf("Features: %s\n", strings.Join(spec.Features, ", "))
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Review and edit genesis.yaml")
	fmt.Println("  2. Build it with 'genesis run --spec genesis.yaml'")
	fmt.Println("  3. Watch the run board, or pass --headless for plain output")
	return nil
}

// createProjectConfig writes a commented .genesis.yaml template. An
// existing file is left alone.
func createProjectConfig(dir string) error {
	configPath := filepath.Join(dir, ".genesis.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	template := `# genesis project configuration
# Overrides the user config for runs in this workspace.
# Uncomment and edit what you need.

tracker:
  # base_url: http://localhost:8181
  # timeout: 30s
  # assignee: GenesisFeatureAgent

anthropic:
  # model: claude-sonnet-4-20250514
  # use_bedrock: false
  # aws_region: us-east-1

defaults:
  # max_parallel: 3
  # git_init: true
  # offline_fallback: true

workspace:
  # root: .
  # patterns_file: patterns.yaml

tui:
  # refresh_rate: 100ms
`
	return os.WriteFile(configPath, []byte(template), 0644)
}

// updateGitignore appends the workspace state directories to .gitignore,
// creating the file when missing.
func updateGitignore(dir string) error {
	gitignorePath := filepath.Join(dir, ".gitignore")
	entries := []string{signals.GenesisDir + "/", scaffold.GeneratedDir + "/"}

	existing := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	}

	var missing []string
	for _, entry := range entries {
		if !strings.Contains(existing, entry) {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if existing != "" && !strings.HasSuffix(existing, "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	_, err = f.WriteString("\n# genesis\n" + strings.Join(missing, "\n") + "\n")
	return err
}

// printStatus prints a status line with a colored symbol
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	c.Printf("%s ", symbol)
	fmt.Println(message)
}
