package app

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/num/quat"

	"github.com/relabs-tech/rolling_die/internal/die"
	"github.com/relabs-tech/rolling_die/internal/orientation"
	"github.com/relabs-tech/rolling_die/internal/random"
	"github.com/relabs-tech/rolling_die/internal/roll"
)

var cubeCorners = [8]orientation.Vec3{
	{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1},
}

// terminalView tilts the die towards the corner so that, at a rest pose,
// the wireframe does not collapse onto a flat square.
var terminalView = orientation.FromAxisAngle(orientation.Vec3{X: 1, Y: -1}, 0.35)

var cubeEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// terminalUI rolls a die in-process and draws it as a wireframe.
type terminalUI struct {
	screen tcell.Screen
	anim   *roll.Animator
	step   float64

	last     roll.Result
	haveLast bool
	rolls    int
}

func newTerminalUI(s tcell.Screen, ctrl *roll.Controller, step float64) *terminalUI {
	ui := &terminalUI{screen: s, step: step}
	ui.anim = roll.NewAnimator(ctrl, func(res roll.Result) {
		ui.last, ui.haveLast = res, true
		ui.rolls++
	})
	return ui
}

// handleKey reports whether the key asks to quit.
func (ui *terminalUI) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		ui.anim.Roll()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case ' ', 'r':
			ui.anim.Roll()
		case 'c':
			ui.anim.Cancel()
		}
	}
	return false
}

func (ui *terminalUI) tick() {
	ui.anim.Step(ui.step)
}

func (ui *terminalUI) draw() {
	s := ui.screen
	s.Clear()
	w, h := s.Size()
	if w <= 20 || h <= 8 {
		s.Show()
		return
	}

	pose := ui.anim.Pose()
	shown := orientation.FromQuaternion(quat.Mul(terminalView, pose.Quaternion()))
	cx, cy := w/2, (h-3)/2
	scale := float64(min(cy-1, (w/2-2)/2)) / math.Sqrt(3)
	project := func(v orientation.Vec3) (int, int) {
		r := shown.Rotate(v)
		// Cells are about twice as tall as they are wide.
		return cx + int(r.X*scale*2), cy - int(r.Y*scale)
	}

	edgeStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for _, e := range cubeEdges {
		x0, y0 := project(cubeCorners[e[0]])
		x1, y1 := project(cubeCorners[e[1]])
		n := max(abs(x1-x0), abs(y1-y0), 1)
		for i := 0; i <= n; i++ {
			x := x0 + (x1-x0)*i/n
			y := y0 + (y1-y0)*i/n
			s.SetContent(x, y, '.', nil, edgeStyle)
		}
	}
	for _, c := range cubeCorners {
		x, y := project(c)
		s.SetContent(x, y, '+', nil, edgeStyle)
	}

	// Pips only make sense while the die still sits in the snapped pose.
	if ui.haveLast && !ui.anim.Rolling() && pose == ui.last.Pose {
		pipStyle := tcell.StyleDefault.Foreground(tcell.ColorRed)
		back := quat.Conj(ui.last.Face.Pose().Quaternion())
		for _, p := range ui.last.Face.Pips() {
			body := orientation.RotateVec(back, orientation.Vec3{X: p.X, Y: p.Y, Z: 1})
			x, y := project(body)
			s.SetContent(x, y, 'o', nil, pipStyle)
		}
	}

	drawText(s, 1, h-2, tcell.StyleDefault, ui.status())
	drawText(s, 1, h-1, tcell.StyleDefault.Foreground(tcell.ColorDarkGray),
		"space: roll  c: cancel  q: quit")
	s.Show()
}

func (ui *terminalUI) status() string {
	last := die.NoFace
	if ui.haveLast {
		last = ui.last.Face
	}
	sess := ui.anim.Session()
	if sess.State == roll.Rolling {
		up := die.TopFace(ui.anim.Pose())
		return fmt.Sprintf("rolling %3.0f%%  up: %v  last: %v  rolls: %d", sess.Progress()*100, up, last, ui.rolls)
	}
	return fmt.Sprintf("%v  last: %v  rolls: %d", sess.State, last, ui.rolls)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for i, r := range str {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// RunTerminal rolls the die in the terminal without a broker.
func RunTerminal(seed int64, step float64, interval time.Duration) error {
	seed, err := random.Resolve(seed)
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen init failed: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("screen start failed: %w", err)
	}
	defer s.Fini()

	ui := newTerminalUI(s, roll.NewSeededController(seed), step)

	// Only the render loop touches the die.
	keys := make(chan *tcell.EventKey, 8)
	go func() {
		for {
			switch ev := s.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				keys <- ev
			case *tcell.EventResize:
				s.Sync()
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-keys:
			if ui.handleKey(ev) {
				return nil
			}
		case <-ticker.C:
			ui.tick()
			ui.draw()
		}
	}
}
