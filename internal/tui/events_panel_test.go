package tui

import (
	"strings"
	"testing"
	"time"
)

func TestEventLog_View_Empty(t *testing.T) {
	log := NewEventLog()

	output := log.View()

	if !strings.Contains(output, "Activity") {
		t.Error("expected activity log title")
	}
	if !strings.Contains(output, "waiting for events...") {
		t.Error("expected placeholder for empty log")
	}
}

func TestEventLog_Add(t *testing.T) {
	log := NewEventLog()
	now := time.Now()

	log.Add(EventEntry{Timestamp: now, Level: LogLevelInfo, AgentID: "gfa-1", Message: "task auth started"})
	log.Add(EventEntry{Timestamp: now, Level: LogLevelError, AgentID: "gfa-2", Message: "task billing failed"})

	if log.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", log.Len())
	}

	output := log.View()
	if !strings.Contains(output, "gfa-1") {
		t.Error("expected agent id in log output")
	}
	if !strings.Contains(output, "task auth started") {
		t.Error("expected first message in log output")
	}
	if !strings.Contains(output, "task billing failed") {
		t.Error("expected second message in log output")
	}
}

func TestEventLog_CapsEntries(t *testing.T) {
	log := NewEventLog()
	now := time.Now()

	for i := 0; i < 600; i++ {
		log.Add(EventEntry{Timestamp: now, Level: LogLevelInfo, Message: "entry"})
	}

	if log.Len() != 500 {
		t.Errorf("expected log capped at 500 entries, got %d", log.Len())
	}
}

func TestEventLog_View_ShowsOnlyVisibleTail(t *testing.T) {
	log := NewEventLog()
	log.SetVisible(3)
	now := time.Now()

	for i := 0; i < 5; i++ {
		log.Add(EventEntry{
			Timestamp: now.Add(time.Duration(i) * time.Second),
			Level:     LogLevelInfo,
			Message:   "entry " + string(rune('a'+i)),
		})
	}

	output := log.View()

	if strings.Contains(output, "entry a") || strings.Contains(output, "entry b") {
		t.Error("expected oldest entries to scroll off")
	}
	for _, want := range []string{"entry c", "entry d", "entry e"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected visible tail to contain %q", want)
		}
	}
}

func TestEventLog_SetVisible_IgnoresNonPositive(t *testing.T) {
	log := NewEventLog()

	log.SetVisible(0)
	if log.visible != 8 {
		t.Errorf("expected visible to stay at default 8, got %d", log.visible)
	}

	log.SetVisible(-2)
	if log.visible != 8 {
		t.Errorf("expected visible to stay at default 8, got %d", log.visible)
	}

	log.SetVisible(12)
	if log.visible != 12 {
		t.Errorf("expected visible=12, got %d", log.visible)
	}
}
