package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"touchpitch/sim"
)

// PointerSource samples the host's pointer device once per frame
type PointerSource interface {
	// Sample returns the pointer state against a width x height viewport
	Sample(width, height int) sim.Pointer
}

// DeviceInput reads the first active touch, falling back to the left mouse button
type DeviceInput struct {
	touches []ebiten.TouchID

	// touch is the touch being followed while it stays down
	touch    ebiten.TouchID
	tracking bool
}

// NewDeviceInput creates a new mouse/touch pointer source
func NewDeviceInput() *DeviceInput {
	return &DeviceInput{
		touches: make([]ebiten.TouchID, 0, 4),
	}
}

// Sample returns the current pointer state
func (d *DeviceInput) Sample(width, height int) sim.Pointer {
	d.touches = ebiten.AppendTouchIDs(d.touches[:0])
	if len(d.touches) > 0 {
		id := d.pickTouch()
		x, y := ebiten.TouchPosition(id)
		return sim.Pointer{Active: true, X: float64(x), Y: float64(y), ViewportW: width, ViewportH: height}
	}
	d.tracking = false

	x, y := ebiten.CursorPosition()
	return sim.Pointer{
		Active:    ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		X:         float64(x),
		Y:         float64(y),
		ViewportW: width,
		ViewportH: height,
	}
}

// pickTouch keeps following the same finger while it is down, so a second
// finger does not teleport the drag target
func (d *DeviceInput) pickTouch() ebiten.TouchID {
	if d.tracking {
		for _, id := range d.touches {
			if id == d.touch {
				return id
			}
		}
	}
	d.touch = d.touches[0]
	d.tracking = true
	return d.touch
}
