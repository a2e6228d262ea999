package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"touchpitch/sim"
)

// DebugState holds overlay flags that persist across match resets
type DebugState struct {
	ShowGrid     bool        // Show unit grid lines and the cursor readout
	ShowVelocity bool        // Show player velocity vectors
	Cursor       sim.Pointer // Last pointer sample fed to the simulation
}

// dropHeight is where the debug drop places the ball
const dropHeight = 5.0

// dropBall returns a ball position above the field center for the bounce check
func dropBall(radius float64) mgl64.Vec3 {
	return mgl64.Vec3{0, dropHeight + radius, 0}
}
