package sim

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Team tags a player with its side.
type Team int

const (
	TeamRed Team = iota
	TeamBlue
)

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	default:
		return "unknown"
	}
}

// PlayerID indexes the fixed roster. Players are never added or removed during a
// session, so an index stays valid for the whole simulation.
type PlayerID int

// NoPlayer is the PlayerID carried by events that do not concern a player.
const NoPlayer PlayerID = -1

// Player is a pointer-controlled entity. Position.Y stays at half the player size.
type Player struct {
	ID       PlayerID
	Team     Team
	Position mgl64.Vec3

	// Velocity of the last motion step, zero when idle
	Velocity mgl64.Vec3

	Size     float64
	Speed    float64
	Selected bool
}

// HalfSize returns the collision radius of the player.
func (p Player) HalfSize() float64 {
	return p.Size / 2
}

// Ball is the single free body of the simulation.
type Ball struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Radius   float64

	// Resting suspends gravity until the ball is kicked again
	Resting bool
}

// Selection is the exclusive binding of pointer input to one player.
type Selection struct {
	ID PlayerID
	OK bool
}

// kickoffBall returns the ball at field center on the ground.
func kickoffBall(cfg Config) Ball {
	return Ball{
		Position: mgl64.Vec3{0, cfg.BallRadius, 0},
		Velocity: cfg.KickoffVelocity,
		Radius:   cfg.BallRadius,
		Resting:  true,
	}
}

// placeRoster creates both teams at their kickoff positions.
func placeRoster(cfg Config, rng *rand.Rand) []Player {
	players := make([]Player, 0, 2*cfg.PlayersPerTeam)
	n := cfg.PlayersPerTeam
	_, halfH := cfg.HalfExtents()

	for _, team := range []Team{TeamRed, TeamBlue} {
		side := -1.0
		if team == TeamBlue {
			side = 1.0
		}
		for i := 0; i < n; i++ {
			var x, z float64
			switch cfg.Layout {
			case LayoutEnds:
				// One row per team, two units off the goal line
				x = (float64(i) - float64(n-1)/2) * 2.0
				z = side * (halfH + cfg.Margin - 2.0)
			default:
				x = side*cfg.FieldWidth/4 + jitter(rng)
				z = float64(i-n/2)*2.0 + jitter(rng)
			}
			p := Player{
				ID:       PlayerID(len(players)),
				Team:     team,
				Position: mgl64.Vec3{x, cfg.PlayerSize / 2, z},
				Size:     cfg.PlayerSize,
				Speed:    cfg.PlayerSpeed,
			}
			containPlayer(&p, cfg)
			players = append(players, p)
		}
	}
	return players
}

func jitter(rng *rand.Rand) float64 {
	return rng.Float64() - 0.5
}

// planarDistance measures on the ground plane, ignoring height.
func planarDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(a.X()-b.X(), a.Z()-b.Z())
}

// planarDelta returns a - b with the vertical component dropped.
func planarDelta(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a.X() - b.X(), 0, a.Z() - b.Z()}
}

// containPlayer clamps a player inside the playable area on both horizontal axes.
func containPlayer(p *Player, cfg Config) {
	hw, hh := cfg.HalfExtents()
	hs := p.HalfSize()
	p.Position[0] = mgl64.Clamp(p.Position[0], -hw+hs, hw-hs)
	p.Position[2] = mgl64.Clamp(p.Position[2], -hh+hs, hh-hs)
}
