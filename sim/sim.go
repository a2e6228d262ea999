// Package sim is the physics and interaction core of the soccer scene: pointer
// selection and steering of players, ball integration, collision response and
// goal detection. A Simulation is owned by one tick loop and is not safe for
// concurrent use; only its InputSlot may be written from other goroutines.
package sim

import (
	"math/rand"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Simulation is the explicit state of one match.
type Simulation struct {
	cfg     Config
	matchID string
	rng     *rand.Rand
	grid    *Grid
	sink    EventSink
	input   InputSlot

	players []Player
	ball    Ball
	score   Score

	selection   Selection
	pointerDown bool
	target      mgl64.Vec3
	hasTarget   bool

	tick   uint64
	stalls uint64
	events []Event
}

// New validates cfg and places the roster and ball at kickoff.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Simulation{
		cfg:       cfg,
		matchID:   uuid.NewString(),
		rng:       rand.New(rand.NewSource(seed)),
		selection: Selection{ID: NoPlayer},
		events:    make([]Event, 0, 8),
	}
	if cfg.BroadPhaseCell > 0 {
		s.grid = NewGrid(cfg, max(cfg.BroadPhaseCell, cfg.PlayerSize))
	}
	s.Reset()
	return s, nil
}

// SetSink attaches a receiver for goal notifications (nil detaches).
func (s *Simulation) SetSink(sink EventSink) {
	s.sink = sink
}

// Reset places players and ball at kickoff and clears the selection. A
// pointer still held afterwards counts as a fresh press on the next step.
// The score and tick counter are kept.
func (s *Simulation) Reset() {
	s.players = placeRoster(s.cfg, s.rng)
	s.ball = kickoffBall(s.cfg)
	s.selection = Selection{ID: NoPlayer}
	s.pointerDown = false
	s.hasTarget = false
}

// Step advances the simulation by dt seconds using the latest pointer sample
// and returns the events of this tick. The returned slice is reused by the
// next call.
func (s *Simulation) Step(dt float64) []Event {
	s.tick++
	s.events = s.events[:0]
	dt = s.clampStep(dt)

	s.applyPointer(s.input.Load())
	s.moveSelected(dt)
	s.integrateBall(dt)
	s.resolveCollisions()

	return s.events
}

// Input returns the slot hosts write pointer samples into.
func (s *Simulation) Input() *InputSlot {
	return &s.input
}

// Config returns the constants the simulation was built with.
func (s *Simulation) Config() Config {
	return s.cfg
}

// MatchID identifies this simulation in logs and goal events.
func (s *Simulation) MatchID() string {
	return s.matchID
}

// Players returns a copy of the roster.
func (s *Simulation) Players() []Player {
	return slices.Clone(s.players)
}

// Ball returns the ball state.
func (s *Simulation) Ball() Ball {
	return s.ball
}

// Score returns goals per team.
func (s *Simulation) Score() Score {
	return s.score
}

// Selection returns the currently controlled player, if any.
func (s *Simulation) Selection() Selection {
	return s.selection
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() uint64 {
	return s.tick
}

// Stalls returns how many steps had their time delta clamped.
func (s *Simulation) Stalls() uint64 {
	return s.stalls
}

// SetBall replaces the ball state, keeping the configured radius.
func (s *Simulation) SetBall(b Ball) {
	b.Radius = s.cfg.BallRadius
	s.ball = b
}
