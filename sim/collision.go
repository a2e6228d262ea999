package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// resolveCollisions runs every collision pass in a fixed order: ground, walls
// (with the goal check on the depth walls), ball against players, players
// against each other, then a final containment clamp. Later passes win when
// overlaps interact within one tick.
func (s *Simulation) resolveCollisions() {
	if s.cfg.GravityEnabled {
		s.collideGround()
	}

	s.collideWall(0)
	scored := false
	if s.collideWall(2) && s.cfg.GoalsEnabled {
		scored = s.checkGoal()
	}

	// A goal reset is final for the ball this tick
	if !scored {
		s.collideBallPlayers()
	}
	s.collidePlayers()
	s.contain()
}

// collideGround bounces the ball off the ground plane and settles it once
// the rebound becomes negligible.
func (s *Simulation) collideGround() {
	b := &s.ball
	if b.Position.Y() >= b.Radius {
		return
	}
	b.Position[1] = b.Radius
	b.Velocity[1] = -b.Velocity[1] * s.cfg.BounceDamping
	b.Resting = math.Abs(b.Velocity[1]) < s.cfg.RestThreshold
	if b.Resting {
		b.Velocity[1] = 0
	}
}

// collideWall reflects the ball off the boundary on one horizontal axis
// (0 for X, 2 for Z). It reports whether a reflection happened.
func (s *Simulation) collideWall(axis int) bool {
	b := &s.ball
	hw, hh := s.cfg.HalfExtents()
	half := hw
	if axis == 2 {
		half = hh
	}

	limit := half - b.Radius
	if math.Abs(b.Position[axis]) <= limit {
		return false
	}
	b.Position[axis] = math.Copysign(limit, b.Position[axis])
	b.Velocity[axis] = -b.Velocity[axis] * s.cfg.BounceDamping
	return true
}

// collideBallPlayers separates the ball from every overlapping player and
// kicks it away along the contact normal.
func (s *Simulation) collideBallPlayers() {
	b := &s.ball
	for i := range s.players {
		p := &s.players[i]

		delta := planarDelta(b.Position, p.Position)
		dist := delta.Len()
		minDist := b.Radius + p.HalfSize()
		if dist >= minDist {
			continue
		}
		if dist <= s.cfg.MinSeparation {
			// Coincident centers have no usable normal, skip this pair for the tick
			continue
		}

		n := delta.Mul(1 / dist)
		push := n.Mul((minDist - dist) * 0.5)
		b.Position = b.Position.Add(push)
		p.Position = p.Position.Sub(push)

		b.Velocity = b.Velocity.Add(n.Mul(s.cfg.KickImpulse))
		if s.cfg.GravityEnabled {
			b.Velocity[1] += s.cfg.KickLift
			b.Resting = false
		}
		s.emit(Event{Kind: EventKick, Player: p.ID})
	}
}

// collidePlayers pushes overlapping players apart by half the overlap each.
// Players carry no momentum, so only positions change. Pairs are visited in
// roster order against positions already moved earlier in the pass.
func (s *Simulation) collidePlayers() {
	if s.grid != nil {
		s.collidePlayersGrid()
		return
	}

	for i := 0; i < len(s.players); i++ {
		for j := i + 1; j < len(s.players); j++ {
			s.pushApart(&s.players[i], &s.players[j])
		}
	}
}

// collidePlayersGrid visits the same pairs in the same order as the
// exhaustive loop but skips players outside the current neighborhood. Cells
// are refreshed after every push and the neighborhood is queried again, so
// an overlap created by a push is still found when its turn comes.
func (s *Simulation) collidePlayersGrid() {
	g := s.grid
	g.Rebuild(s.players)
	for i := range s.players {
		id := PlayerID(i)
		last := id
		for {
			pushed := false
			pos := s.players[i].Position
			for _, j := range g.Neighbors(pos.X(), pos.Z(), last) {
				last = j
				if s.pushApart(&s.players[i], &s.players[j]) {
					g.Move(id, s.players[i])
					g.Move(j, s.players[j])
					pushed = true
					break
				}
			}
			if !pushed {
				break
			}
		}
	}
}

// pushApart separates two overlapping players and reports whether it moved them.
func (s *Simulation) pushApart(a, b *Player) bool {
	delta := planarDelta(a.Position, b.Position)
	dist := delta.Len()
	minDist := a.HalfSize() + b.HalfSize()
	if dist >= minDist || dist <= s.cfg.MinSeparation {
		return false
	}

	push := delta.Mul((minDist - dist) * 0.5 / dist)
	a.Position = a.Position.Add(push)
	b.Position = b.Position.Sub(push)
	return true
}

// contain clamps every entity back inside the playable area after the
// separation passes, without touching velocities.
func (s *Simulation) contain() {
	for i := range s.players {
		containPlayer(&s.players[i], s.cfg)
	}

	b := &s.ball
	hw, hh := s.cfg.HalfExtents()
	b.Position[0] = mgl64.Clamp(b.Position[0], -hw+b.Radius, hw-b.Radius)
	b.Position[2] = mgl64.Clamp(b.Position[2], -hh+b.Radius, hh-b.Radius)
	if s.cfg.GravityEnabled && b.Position[1] < b.Radius {
		b.Position[1] = b.Radius
	}
}
