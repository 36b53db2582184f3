package llm

import (
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestNewClientWithAPIKey(t *testing.T) {
	client, err := NewClient(ClientConfig{
		APIKey: "test-key-123",
		Model:  anthropic.ModelClaudeSonnet4_20250514,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.Model() != anthropic.ModelClaudeSonnet4_20250514 {
		t.Errorf("Model = %q", client.Model())
	}
	if client.Tracker() == nil {
		t.Error("Tracker should not be nil")
	}
}

func TestNewClientWithEnvVar(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-test-key")
	if _, err := NewClient(ClientConfig{}); err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
}

func TestNewClientNoAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewClient(ClientConfig{})
	if err == nil {
		t.Fatal("NewClient should fail without API key")
	}
	if err.Error() != "ANTHROPIC_API_KEY environment variable is not set" {
		t.Errorf("Error = %q", err.Error())
	}
}

func TestNewClientDefaultModel(t *testing.T) {
	client, err := NewClient(ClientConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.Model() != anthropic.ModelClaudeSonnet4_20250514 {
		t.Errorf("Default model = %q", client.Model())
	}
}

func TestTranslateModelForBedrock(t *testing.T) {
	got := translateModelForBedrock(anthropic.ModelClaudeSonnet4_20250514)
	if got != "us.anthropic.claude-sonnet-4-20250514-v1:0" {
		t.Errorf("translated = %q", got)
	}

	// Unknown models pass through untouched.
	custom := anthropic.Model("us.anthropic.custom-v1:0")
	if got := translateModelForBedrock(custom); got != custom {
		t.Errorf("custom model = %q, want passthrough", got)
	}
}

func TestTokenTracker(t *testing.T) {
	tracker := NewTokenTracker()

	tracker.Add(100, 50)
	tracker.Add(200, 100)

	input, output := tracker.Total()
	if input != 300 || output != 150 {
		t.Errorf("Total() = %d, %d", input, output)
	}
	if tracker.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", tracker.Calls())
	}

	tracker.Reset()
	input, output = tracker.Total()
	if input != 0 || output != 0 || tracker.Calls() != 0 {
		t.Errorf("after Reset: %d, %d, %d calls", input, output, tracker.Calls())
	}
}

func TestTokenTrackerCost(t *testing.T) {
	tracker := NewTokenTracker()
	// 1M input at $3/1M + 1M output at $15/1M = $18.
	tracker.Add(1_000_000, 1_000_000)
	if cost := tracker.Cost(); cost != 18.0 {
		t.Errorf("Cost() = %f, want 18.0", cost)
	}
}

func TestParseFeatureList(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		limit   int
		want    []string
		wantErr bool
	}{
		{
			name:  "bare array",
			text:  `["auth", "dashboard", "billing"]`,
			limit: 5,
			want:  []string{"auth", "dashboard", "billing"},
		},
		{
			name:  "array wrapped in prose",
			text:  "Here are my suggestions:\n[\"auth\", \"dashboard\"]\nLet me know!",
			limit: 5,
			want:  []string{"auth", "dashboard"},
		},
		{
			name:  "dedupes and lowercases",
			text:  `["Auth", "auth", " dashboard ", ""]`,
			limit: 5,
			want:  []string{"auth", "dashboard"},
		},
		{
			name:  "limit caps the list",
			text:  `["a", "b", "c", "d"]`,
			limit: 2,
			want:  []string{"a", "b"},
		},
		{
			name:    "no array",
			text:    "I cannot help with that.",
			limit:   5,
			wantErr: true,
		},
		{
			name:    "malformed json",
			text:    `["auth", "dashboard"`,
			limit:   5,
			wantErr: true,
		},
		{
			name:    "empty array",
			text:    `[]`,
			limit:   5,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFeatureList(tt.text, tt.limit)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseFeatureList(%q) succeeded, want error", tt.text)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFeatureList(%q) error = %v", tt.text, err)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFeatureList(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
