package tui

import (
	"strings"
	"testing"
)

func TestFooter_View_ActiveRun(t *testing.T) {
	footer := NewFooter()
	footer.SetFeatureCounts(FeatureCounts{Done: 2, Failed: 1, Running: 3})

	output := footer.View()

	expectedStrings := []string{"✓2", "✗1", "⏳3", "s stop", "q close view"}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("expected footer to contain %q, got %q", expected, output)
		}
	}
}

func TestFooter_View_HidesZeroCounts(t *testing.T) {
	footer := NewFooter()
	footer.SetFeatureCounts(FeatureCounts{Done: 2})

	output := footer.View()

	if strings.Contains(output, "✗") {
		t.Error("expected no failure marker when nothing failed")
	}
	if strings.Contains(output, "⏳") {
		t.Error("expected no running marker when nothing is running")
	}
}

func TestFooter_View_RunDone(t *testing.T) {
	footer := NewFooter()
	footer.SetRunDone(true, "run passed validation")

	output := footer.View()

	if !strings.Contains(output, "run passed validation") {
		t.Error("expected completion message")
	}
	if !strings.Contains(output, "Press q to exit") {
		t.Error("expected exit hint after completion")
	}
	if strings.Contains(output, "s stop") {
		t.Error("expected stop hint to disappear after completion")
	}
}

func TestFooter_View_RunFailed(t *testing.T) {
	footer := NewFooter()
	footer.SetRunDone(false, "run failed validation")

	output := footer.View()

	if !strings.Contains(output, "✗ run failed validation") {
		t.Errorf("expected failure message, got %q", output)
	}
}

func TestFooter_View_Stopping(t *testing.T) {
	footer := NewFooter()
	footer.SetStopping(true)

	output := footer.View()

	if !strings.Contains(output, "stopping...") {
		t.Errorf("expected stopping indicator, got %q", output)
	}
}
