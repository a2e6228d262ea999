package sim

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Pointer is one sample of the pointer/touch state in screen space.
type Pointer struct {
	Active bool

	// X and Y are pixels from the top-left corner of the viewport
	X, Y float64

	ViewportW, ViewportH int
}

// InputSlot holds the latest pointer sample. Writers may run on any goroutine
// (window callbacks, event pollers); the tick loop reads it once per tick.
// Only the most recent write is kept.
type InputSlot struct {
	mu     sync.Mutex
	sample Pointer
}

// Store overwrites the current sample.
func (s *InputSlot) Store(p Pointer) {
	s.mu.Lock()
	s.sample = p
	s.mu.Unlock()
}

// Load returns the current sample.
func (s *InputSlot) Load() Pointer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sample
}

// ScreenToField maps a screen position to field coordinates (origin at field
// center). The second result is false when the viewport has no area.
func (c Config) ScreenToField(p Pointer) (mgl64.Vec3, bool) {
	if p.ViewportW <= 0 || p.ViewportH <= 0 {
		return mgl64.Vec3{}, false
	}
	u := p.X / float64(p.ViewportW)
	v := p.Y / float64(p.ViewportH)

	x := (u - 0.5) * c.FieldWidth
	z := (v - 0.5) * c.FieldHeight
	if c.InvertVertical {
		z = (0.5 - v) * c.FieldHeight
	}
	return mgl64.Vec3{x, 0, z}, true
}

// FieldToScreen is the inverse of ScreenToField for a given viewport.
func (c Config) FieldToScreen(pos mgl64.Vec3, viewportW, viewportH int) (float64, float64) {
	sx := (pos.X()/c.FieldWidth + 0.5) * float64(viewportW)
	v := pos.Z()/c.FieldHeight + 0.5
	if c.InvertVertical {
		v = 0.5 - pos.Z()/c.FieldHeight
	}
	return sx, v * float64(viewportH)
}

// applyPointer turns the latest sample into pointer-down, drag and pointer-up
// transitions against the previous tick.
func (s *Simulation) applyPointer(p Pointer) {
	point, mapped := s.cfg.ScreenToField(p)

	switch {
	case p.Active && !s.pointerDown:
		s.pointerDown = true
		if mapped {
			s.selectNearest(point)
		}
	case !p.Active && s.pointerDown:
		s.pointerDown = false
		s.release()
		return
	}

	if p.Active && s.selection.OK && mapped {
		s.target = point
		s.hasTarget = true
	}
}

// selectNearest binds the pointer to the closest player within the selection
// radius. Any previous selection is dropped first, so at most one player is
// ever selected.
func (s *Simulation) selectNearest(point mgl64.Vec3) {
	s.clearSelection()

	limit := s.cfg.SelectionRadius
	if limit <= 0 {
		limit = math.Inf(1)
	}

	best := NoPlayer
	bestDist := math.Inf(1)
	for i := range s.players {
		d := planarDistance(s.players[i].Position, point)
		if d < bestDist && d < limit {
			best = PlayerID(i)
			bestDist = d
		}
	}
	if best == NoPlayer {
		return
	}

	s.players[best].Selected = true
	s.selection = Selection{ID: best, OK: true}
	s.emit(Event{Kind: EventSelect, Player: best})
}

func (s *Simulation) release() {
	if s.selection.OK {
		s.emit(Event{Kind: EventRelease, Player: s.selection.ID})
	}
	s.clearSelection()
}

func (s *Simulation) clearSelection() {
	if s.selection.OK {
		p := &s.players[s.selection.ID]
		p.Selected = false
		p.Velocity = mgl64.Vec3{}
	}
	s.selection = Selection{ID: NoPlayer}
	s.hasTarget = false
}
