// Package tui runs a match in the terminal: tcell draws the field and
// terminal mouse drags steer the selected player.
package tui

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"touchpitch/sim"
)

// Cues receives the sounds a match produces
type Cues interface {
	Whistle()
	Kick()
}

type silent struct{}

func (silent) Whistle() {}
func (silent) Kick()    {}

var (
	lineStyle     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	goalStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	ballStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	hudStyle      = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	redStyle      = tcell.StyleDefault.Foreground(tcell.ColorRed)
	blueStyle     = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	selectedStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true)
)

// Host owns the screen and the simulation it drives
type Host struct {
	screen tcell.Screen
	sim    *sim.Simulation
	cues   Cues

	// layout is swapped on resize and read by the event goroutine
	layout atomic.Pointer[Layout]

	tickRate time.Duration
}

// New wraps an initialized screen. A nil cues plays nothing.
func New(screen tcell.Screen, s *sim.Simulation, cues Cues) *Host {
	if cues == nil {
		cues = silent{}
	}
	h := &Host{
		screen:   screen,
		sim:      s,
		cues:     cues,
		tickRate: 16 * time.Millisecond,
	}
	h.resize()
	return h
}

// Layout returns the current cell layout
func (h *Host) Layout() Layout {
	return *h.layout.Load()
}

func (h *Host) resize() {
	cols, rows := h.screen.Size()
	h.layout.Store(&Layout{Cols: cols, Rows: rows})
}

// handleMouse writes a mouse event into the input slot. It is safe to call
// from the event goroutine.
func (h *Host) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	down := ev.Buttons()&tcell.Button1 != 0
	h.sim.Input().Store(h.Layout().CellToPointer(x, y, down))
}

// HandleEvent applies one terminal event on the tick goroutine. It returns
// false when the user asked to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		h.handleMouse(ev)

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'r':
				h.sim.Reset()
				log.Printf("match %s: kickoff reset", h.sim.MatchID())
			}
		}

	case *tcell.EventResize:
		h.resize()
		h.screen.Sync()
	}
	return true
}

// Run polls events on a separate goroutine and ticks the simulation until
// ctx is done or the user quits. Mouse samples bypass the tick loop; keys and
// resizes are applied between ticks.
func (h *Host) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.tickRate)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			if m, ok := ev.(*tcell.EventMouse); ok {
				h.handleMouse(m)
				continue
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !h.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			h.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Tick advances the simulation, plays its cues and redraws
func (h *Host) Tick(dt float64) {
	for _, ev := range h.sim.Step(dt) {
		switch ev.Kind {
		case sim.EventGoal:
			h.cues.Whistle()
			sc := h.sim.Score()
			log.Printf("match %s tick %d: goal for %s, score %d-%d", h.sim.MatchID(), ev.Tick, ev.Team, sc.Red, sc.Blue)
		case sim.EventKick:
			h.cues.Kick()
		}
	}
	h.Draw()
}

// Draw renders the field, players, ball and HUD
func (h *Host) Draw() {
	l := h.Layout()
	cfg := h.sim.Config()

	h.screen.Clear()
	h.drawField(l, cfg)

	for _, p := range h.sim.Players() {
		x, y := l.FieldToCell(cfg, p.Position)
		style := redStyle
		if p.Team == sim.TeamBlue {
			style = blueStyle
		}
		if p.Selected {
			style = selectedStyle
		}
		h.screen.SetContent(x, y, '●', nil, style)
	}

	b := h.sim.Ball()
	bx, by := l.FieldToCell(cfg, b.Position)
	ballRune := 'o'
	if b.Position.Y() > 2*b.Radius {
		ballRune = 'O'
	}
	h.screen.SetContent(bx, by, ballRune, nil, ballStyle)

	sc := h.sim.Score()
	h.drawText(0, 0, fmt.Sprintf("RED %d - %d BLUE  tick %d  [r]eset [q]uit", sc.Red, sc.Blue, h.sim.Tick()), hudStyle)
	h.screen.Show()
}

func (h *Host) drawField(l Layout, cfg sim.Config) {
	top, bottom := hudRows, l.Rows-1
	for x := 0; x < l.Cols; x++ {
		h.screen.SetContent(x, top, '─', nil, lineStyle)
		h.screen.SetContent(x, bottom, '─', nil, lineStyle)
	}
	mid := hudRows + l.FieldRows()/2
	for x := 0; x < l.Cols; x++ {
		h.screen.SetContent(x, mid, '·', nil, lineStyle)
	}

	if !cfg.GoalsEnabled {
		return
	}
	_, hh := cfg.HalfExtents()
	for _, z := range []float64{-hh, hh} {
		x0, y := l.FieldToCell(cfg, mgl64.Vec3{-cfg.GoalWidth / 2, 0, z})
		x1, _ := l.FieldToCell(cfg, mgl64.Vec3{cfg.GoalWidth / 2, 0, z})
		for x := x0; x <= x1; x++ {
			h.screen.SetContent(x, y, '═', nil, goalStyle)
		}
	}
}

func (h *Host) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
