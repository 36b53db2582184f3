package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/genesis-agents/genesis/pkg/models"
)

// DefaultSuggestionLimit caps how many features a suggestion call
// returns when the caller does not say.
const DefaultSuggestionLimit = 5

const suggesterSystemPrompt = "You suggest build features for generated web projects. " +
	"Respond with a JSON array of short lowercase feature names and nothing else."

// Suggester asks Claude which features a described project should ship
// with. It is the dynamic counterpart to the static keyword-based
// suggestions; the CLI falls back to those when no API key is set.
type Suggester struct {
	client   *Client
	debugLog func(format string, args ...interface{})
}

// SuggesterOption configures a Suggester.
type SuggesterOption func(*Suggester)

// WithSuggesterDebugLog sets the debug logger. Defaults to a no-op.
func WithSuggesterDebugLog(fn func(format string, args ...interface{})) SuggesterOption {
	return func(s *Suggester) {
		if fn != nil {
			s.debugLog = fn
		}
	}
}

// NewSuggester creates a Suggester on top of an API client.
func NewSuggester(client *Client, opts ...SuggesterOption) *Suggester {
	s := &Suggester{
		client:   client,
		debugLog: func(format string, args ...interface{}) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SuggestFeatures returns up to limit feature names for the described
// project. Results are lowercase, deduplicated, and in model order.
func (s *Suggester) SuggestFeatures(ctx context.Context, description string, projectType models.ProjectType, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	prompt := fmt.Sprintf("Project type: %s\nDescription: %s\n\nSuggest up to %d features this project should ship with.",
		projectType, description, limit)

	resp, err := s.client.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     s.client.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: suggesterSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("suggest features: %w", err)
	}
	s.client.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}
	s.debugLog("[llm] suggestion response: %s", text.String())

	return parseFeatureList(text.String(), limit)
}

// parseFeatureList extracts the JSON array from a model response. The
// model is told to answer with bare JSON, but prose around the array
// is tolerated.
func parseFeatureList(text string, limit int) ([]string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no feature list in response")
	}

	var raw []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("parse feature list: %w", err)
	}

	seen := make(map[string]bool, len(raw))
	var features []string
	for _, f := range raw {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		features = append(features, f)
		if len(features) == limit {
			break
		}
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("empty feature list in response")
	}
	return features, nil
}
