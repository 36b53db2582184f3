package main

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/genesis-agents/genesis/internal/config"
	"github.com/genesis-agents/genesis/internal/detect"
	"github.com/genesis-agents/genesis/internal/llm"
	"github.com/genesis-agents/genesis/pkg/models"
)

// newSuggester builds the Claude-backed feature suggester from config.
// Returns an error when no credentials are available.
func newSuggester(cfg *config.Config, debugf func(string, ...interface{})) (*llm.Suggester, error) {
	clientCfg := llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	}
	if config.RequiresAPIKey(cfg) {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		clientCfg.APIKey = key
	}
	client, err := llm.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}
	return llm.NewSuggester(client, llm.WithSuggesterDebugLog(debugf)), nil
}

// suggestFeatures asks Claude for a feature list, falling back to the
// static per-type starter set when no credentials are configured or the
// call fails. The project type is detected from the description when not
// already known.
func suggestFeatures(ctx context.Context, cfg *config.Config, description string, projectType models.ProjectType, limit int, debugf func(string, ...interface{})) []string {
	resolved := projectType
	if resolved == "" || resolved == models.ProjectTypeUnknown {
		resolved = detect.Detect(description).Type
	}

	suggester, err := newSuggester(cfg, debugf)
	if err != nil {
		debugf("suggester unavailable, using static suggestions: %v", err)
		return detect.SuggestFeatures(resolved)
	}
	features, err := suggester.SuggestFeatures(ctx, description, resolved, limit)
	if err != nil {
		fmt.Printf("Warning: feature suggestion via API failed: %v\n", err)
		return detect.SuggestFeatures(resolved)
	}
	return features
}
