package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GoalEnd identifies one of the two goal lines on the depth axis.
type GoalEnd int

const (
	// GoalSouth is the goal on the -Z line, attacked by blue.
	GoalSouth GoalEnd = iota
	// GoalNorth is the goal on the +Z line, attacked by red.
	GoalNorth
)

func (e GoalEnd) String() string {
	if e == GoalNorth {
		return "north"
	}
	return "south"
}

// Attacker returns the team credited for a goal at this end.
func (e GoalEnd) Attacker() Team {
	if e == GoalNorth {
		return TeamRed
	}
	return TeamBlue
}

// Score counts goals per team.
type Score struct {
	Red  int
	Blue int
}

func (sc *Score) add(t Team) {
	if t == TeamRed {
		sc.Red++
	} else {
		sc.Blue++
	}
}

// checkGoal runs right after a depth-wall reflection. When the ball is inside
// the goal mouth it scores, overriding the reflection with a full reset.
func (s *Simulation) checkGoal() bool {
	b := s.ball
	if math.Abs(b.Position.X()) >= s.cfg.GoalWidth/2 || b.Position.Y() >= s.cfg.GoalDepth {
		return false
	}

	end := GoalSouth
	if b.Position.Z() > 0 {
		end = GoalNorth
	}
	team := end.Attacker()
	s.score.add(team)

	s.ball = Ball{
		Position: mgl64.Vec3{0, b.Radius, 0},
		Radius:   b.Radius,
		Resting:  true,
	}

	s.emit(Event{Kind: EventGoal, Player: NoPlayer, End: end, Team: team})
	if s.sink != nil {
		s.sink.Goal(GoalEvent{
			MatchID: s.matchID,
			Tick:    s.tick,
			End:     end,
			Team:    team,
			Score:   s.score,
		})
	}
	return true
}
