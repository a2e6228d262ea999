package sim

import "github.com/go-gl/mathgl/mgl64"

// moveSelected advances the selected player toward the pointer target at a
// bounded speed scaled by elapsed time.
func (s *Simulation) moveSelected(dt float64) {
	if !s.selection.OK || !s.hasTarget {
		return
	}
	p := &s.players[s.selection.ID]
	p.Velocity = mgl64.Vec3{}

	dir := planarDelta(s.target, p.Position)
	dist := dir.Len()
	if dist <= s.cfg.ArriveEpsilon {
		// Arrived, stay put instead of jittering around the target
		return
	}

	p.Velocity = dir.Mul(p.Speed / dist)
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
	containPlayer(p, s.cfg)
}
