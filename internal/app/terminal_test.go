package app

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/relabs-tech/rolling_die/internal/roll"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	s.SetSize(80, 24)
	t.Cleanup(s.Fini)
	return s
}

func screenRow(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestTerminalRollToResult(t *testing.T) {
	s := newSimScreen(t)
	ui := newTerminalUI(s, roll.NewSeededController(11), roll.DefaultStep)

	ui.draw()
	if got := screenRow(s, 22); !strings.Contains(got, "idle") || !strings.Contains(got, "last: none") {
		t.Fatalf("status before roll = %q", got)
	}

	if ui.handleKey(key(' ')) {
		t.Fatal("space should not quit")
	}
	ui.draw()
	if got := screenRow(s, 22); !strings.HasPrefix(strings.TrimSpace(got), "rolling") {
		t.Fatalf("status while rolling = %q", got)
	}

	for i := 0; i < 100 && ui.anim.Rolling(); i++ {
		ui.tick()
	}
	ui.draw()
	if !ui.haveLast || ui.rolls != 1 {
		t.Fatalf("haveLast=%v rolls=%d", ui.haveLast, ui.rolls)
	}
	if got := screenRow(s, 22); !strings.Contains(got, "last: "+ui.last.Face.String()) {
		t.Fatalf("status after roll = %q", got)
	}
}

func TestTerminalCancelAndQuit(t *testing.T) {
	s := newSimScreen(t)
	ui := newTerminalUI(s, roll.NewSeededController(3), roll.DefaultStep)

	ui.handleKey(key('r'))
	ui.handleKey(key('c'))
	if ui.anim.Rolling() || ui.rolls != 0 {
		t.Fatalf("cancel left rolling=%v rolls=%d", ui.anim.Rolling(), ui.rolls)
	}

	if !ui.handleKey(key('q')) {
		t.Fatal("q should quit")
	}
	if !ui.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatal("escape should quit")
	}
}

func pipCells(s tcell.Screen) int {
	w, h := s.Size()
	n := 0
	for y := 0; y < h-2; y++ {
		for x := 0; x < w; x++ {
			if r, _, _, _ := s.GetContent(x, y); r == 'o' {
				n++
			}
		}
	}
	return n
}

func TestTerminalDrawsResolvedFacePips(t *testing.T) {
	s := newSimScreen(t)
	s.SetSize(120, 40)
	ui := newTerminalUI(s, roll.NewSeededController(21), roll.DefaultStep)

	for i := 0; i < 60 && (!ui.haveLast || ui.last.Face < 5); i++ {
		ui.handleKey(key(' '))
		for j := 0; j < 100 && ui.anim.Rolling(); j++ {
			ui.tick()
		}
	}
	if !ui.haveLast || ui.last.Face < 5 {
		t.Fatalf("no roll landed on face 5 or 6, last = %v", ui.last.Face)
	}

	ui.draw()
	if got, want := pipCells(s), int(ui.last.Face); got != want {
		t.Fatalf("face %v: drew %d pips, want %d", ui.last.Face, got, want)
	}

	ui.handleKey(key(' '))
	ui.tick()
	if !ui.anim.Rolling() {
		t.Skip("roll resolved on its first tick")
	}
	ui.handleKey(key('c'))
	ui.draw()
	if got := pipCells(s); got != 0 {
		t.Fatalf("drew %d pips on a cancelled, unsnapped pose", got)
	}
}
