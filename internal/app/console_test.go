package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/relabs-tech/rolling_die/internal/event"
	"github.com/relabs-tech/rolling_die/internal/orientation"
	"github.com/relabs-tech/rolling_die/internal/roll"
)

func TestRollLocally(t *testing.T) {
	var out bytes.Buffer
	results := rollLocally(&out, roll.NewSeededController(5), roll.DefaultStep, 0, 3)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, res := range results {
		if !res.Face.Valid() {
			t.Fatalf("roll %d: invalid face %v", i+1, res.Face)
		}
		if !strings.Contains(out.String(), "face "+res.Face.String()) {
			t.Fatalf("output missing face %v", res.Face)
		}
	}
}

func TestConsolePrinters(t *testing.T) {
	var out bytes.Buffer
	printPose(&out, event.Pose{Seq: 2, Pose: orientation.Pose{Pitch: 3.141592653589793}, Progress: 0.5})
	printResult(&out, event.Result{Seq: 2, Face: 6, Ticks: 7, RolledAt: time.Date(2026, 1, 1, 10, 11, 12, 0, time.UTC)})
	printState(&out, event.State{Seq: 3, State: roll.Idle, Reason: "cancelled by web"})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "PITCH=  180.00") || !strings.Contains(lines[0], " 50%") {
		t.Errorf("pose line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "face=6 after 7 ticks at 10:11:12.000") {
		t.Errorf("result line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "idle (cancelled by web)") {
		t.Errorf("state line = %q", lines[2])
	}
}
