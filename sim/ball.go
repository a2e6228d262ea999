package sim

import "math"

// clampStep bounds the integration step so a stalled frame cannot launch
// entities through the walls. A negative or NaN step does not advance time.
func (s *Simulation) clampStep(dt float64) float64 {
	if dt < 0 || math.IsNaN(dt) {
		return 0
	}
	if dt > s.cfg.MaxStep {
		s.stalls++
		return s.cfg.MaxStep
	}
	return dt
}

// integrateBall applies gravity and friction, then moves the ball.
func (s *Simulation) integrateBall(dt float64) {
	b := &s.ball

	if s.cfg.GravityEnabled && !b.Resting {
		b.Velocity[1] += s.cfg.Gravity * dt
	}

	b.Velocity[0] *= s.cfg.Friction
	b.Velocity[2] *= s.cfg.Friction

	if limit := s.cfg.MaxBallSpeed; limit > 0 {
		if speed := b.Velocity.Len(); speed > limit {
			b.Velocity = b.Velocity.Mul(limit / speed)
		}
	}

	b.Position = b.Position.Add(b.Velocity.Mul(dt))
}
