package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/genesis-agents/genesis/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set genesis configuration values.

With no arguments, all configuration is shown. With a key, that value
is shown. With a key and a value, the value is written to the user
config file.

Keys use dot notation:
  tracker.base_url          Task tracker endpoint
  tracker.timeout           Tracker request timeout (e.g. 30s)
  tracker.assignee          Assignee recorded on feature tasks
  anthropic.api_key         API key (masked when displayed)
  anthropic.model           Model for feature suggestions
  anthropic.use_bedrock     Use AWS Bedrock instead of the API
  anthropic.aws_region      Bedrock region
  anthropic.aws_profile     AWS credentials profile
  defaults.max_parallel     Default feature agent concurrency
  defaults.git_init         Run git init in generated projects
  defaults.offline_fallback Continue when the tracker is down
  workspace.root            Where generated projects are created
  workspace.patterns_file   Extra pattern definitions (YAML)
  tui.refresh_rate          Run board refresh interval (e.g. 100ms)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	switch len(args) {
	case 0:
		displayAllConfig(cfg)
		return nil
	case 1:
		return displayConfigKey(cfg, args[0])
	default:
		return setConfigKey(cfg, args[0], args[1])
	}
}

func displayAllConfig(cfg *config.Config) {
	fmt.Println("Tracker:")
	fmt.Printf("  tracker.base_url          = %s\n", cfg.Tracker.BaseURL)
	fmt.Printf("  tracker.timeout           = %s\n", cfg.Tracker.Timeout)
	fmt.Printf("  tracker.assignee          = %s\n", cfg.Tracker.Assignee)

	fmt.Println("Anthropic:")
	fmt.Printf("  anthropic.api_key         = %s (from %s)\n",
		config.MaskAPIKey(cfg.Anthropic.APIKey), config.GetAPIKeySource(cfg))
	fmt.Printf("  anthropic.model           = %s\n", cfg.Anthropic.Model)
	fmt.Printf("  anthropic.use_bedrock     = %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("  anthropic.aws_region      = %s\n", cfg.Anthropic.AWSRegion)
	fmt.Printf("  anthropic.aws_profile     = %s\n", cfg.Anthropic.AWSProfile)

	fmt.Println("Defaults:")
	fmt.Printf("  defaults.max_parallel     = %d\n", cfg.Defaults.MaxParallel)
	fmt.Printf("  defaults.git_init         = %t\n", cfg.Defaults.GitInit)
	fmt.Printf("  defaults.offline_fallback = %t\n", cfg.Defaults.OfflineFallback)

	fmt.Println("Workspace:")
	fmt.Printf("  workspace.root            = %s\n", cfg.Workspace.Root)
	fmt.Printf("  workspace.patterns_file   = %s\n", cfg.Workspace.PatternsFile)

	fmt.Println("TUI:")
	fmt.Printf("  tui.refresh_rate          = %s\n", cfg.TUI.RefreshRate)

	fmt.Printf("\nUser config: %s\n", config.GetUserConfigPath())
	if p := config.GetProjectConfigPath(); p != "" {
		fmt.Printf("Project config: %s\n", p)
	}
}

func displayConfigKey(cfg *config.Config, key string) error {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func setConfigKey(cfg *config.Config, key, value string) error {
	if err := setConfigValue(cfg, key, value); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "tracker.base_url":
		return cfg.Tracker.BaseURL, nil
	case "tracker.timeout":
		return cfg.Tracker.Timeout.String(), nil
	case "tracker.assignee":
		return cfg.Tracker.Assignee, nil
	case "anthropic.api_key":
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "anthropic.aws_region":
		return cfg.Anthropic.AWSRegion, nil
	case "anthropic.aws_profile":
		return cfg.Anthropic.AWSProfile, nil
	case "defaults.max_parallel":
		return strconv.Itoa(cfg.Defaults.MaxParallel), nil
	case "defaults.git_init":
		return strconv.FormatBool(cfg.Defaults.GitInit), nil
	case "defaults.offline_fallback":
		return strconv.FormatBool(cfg.Defaults.OfflineFallback), nil
	case "workspace.root":
		return cfg.Workspace.Root, nil
	case "workspace.patterns_file":
		return cfg.Workspace.PatternsFile, nil
	case "tui.refresh_rate":
		return cfg.TUI.RefreshRate.String(), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "tracker.base_url":
		cfg.Tracker.BaseURL = value
	case "tracker.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		cfg.Tracker.Timeout = d
	case "tracker.assignee":
		cfg.Tracker.Assignee = value
	case "anthropic.api_key":
		if err := config.ValidateAPIKey(value); err != nil {
			return err
		}
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q: %w", value, err)
		}
		cfg.Anthropic.UseBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "defaults.max_parallel":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid max_parallel %q: must be a positive integer", value)
		}
		cfg.Defaults.MaxParallel = n
	case "defaults.git_init":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q: %w", value, err)
		}
		cfg.Defaults.GitInit = b
	case "defaults.offline_fallback":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q: %w", value, err)
		}
		cfg.Defaults.OfflineFallback = b
	case "workspace.root":
		cfg.Workspace.Root = value
	case "workspace.patterns_file":
		cfg.Workspace.PatternsFile = value
	case "tui.refresh_rate":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		cfg.TUI.RefreshRate = d
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
