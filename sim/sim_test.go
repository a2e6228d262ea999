package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	viewW = 800
	viewH = 600
	eps   = 1e-9
)

func newTestSim(t *testing.T, cfg Config, players ...Player) *Simulation {
	t.Helper()
	cfg.Seed = 1
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}
	s.players = append([]Player(nil), players...)
	// Park the ball away from the center so it does not touch test players
	s.ball = Ball{Position: mgl64.Vec3{0, cfg.BallRadius, 10}, Radius: cfg.BallRadius, Resting: true}
	return s
}

func testPlayer(cfg Config, id int, x, z float64) Player {
	return Player{
		ID:       PlayerID(id),
		Team:     Team(id % 2),
		Position: mgl64.Vec3{x, cfg.PlayerSize / 2, z},
		Size:     cfg.PlayerSize,
		Speed:    cfg.PlayerSpeed,
	}
}

// pointAt stores a pointer sample aimed at field coordinates (x, z).
func pointAt(s *Simulation, active bool, x, z float64) {
	sx := (x/s.cfg.FieldWidth + 0.5) * viewW
	v := z/s.cfg.FieldHeight + 0.5
	if s.cfg.InvertVertical {
		v = 0.5 - z/s.cfg.FieldHeight
	}
	s.Input().Store(Pointer{Active: active, X: sx, Y: v * viewH, ViewportW: viewW, ViewportH: viewH})
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func TestNewPlacesDesktopRoster(t *testing.T) {
	cfg := DesktopConfig()
	cfg.Seed = 7
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	players := s.Players()
	if len(players) != 22 {
		t.Fatalf("expected 22 players, got=%d", len(players))
	}
	for _, p := range players {
		wantSide := -1.0
		if p.Team == TeamBlue {
			wantSide = 1.0
		}
		if math.Signbit(p.Position.X()) != math.Signbit(wantSide) {
			t.Fatalf("player %d of team %s placed on wrong half: %v", p.ID, p.Team, p.Position)
		}
		if p.Selected {
			t.Fatalf("player %d selected at kickoff", p.ID)
		}
	}
	b := s.Ball()
	if b.Position != (mgl64.Vec3{0, cfg.BallRadius, 0}) || b.Velocity != (mgl64.Vec3{}) || !b.Resting {
		t.Fatalf("expected resting ball at center, got=%+v", b)
	}
	if s.MatchID() == "" {
		t.Fatal("expected a match id")
	}
}

func TestNewPlacesMobileRoster(t *testing.T) {
	s, err := New(MobileConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	players := s.Players()
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got=%d", len(players))
	}
	if !near(players[0].Position.Z(), -5.5) || !near(players[1].Position.Z(), 5.5) {
		t.Fatalf("expected players two units off each goal line, got=%v %v", players[0].Position, players[1].Position)
	}
	if v := s.Ball().Velocity; v != (mgl64.Vec3{3, 0, 3}) {
		t.Fatalf("expected kickoff velocity, got=%v", v)
	}
}

func TestValidateRejectsBrokenConstants(t *testing.T) {
	cases := map[string]func(*Config){
		"zero ball radius":   func(c *Config) { c.BallRadius = 0 },
		"negative size":      func(c *Config) { c.PlayerSize = -1 },
		"friction above one": func(c *Config) { c.Friction = 1.5 },
		"zero damping":       func(c *Config) { c.BounceDamping = 0 },
		"no players":         func(c *Config) { c.PlayersPerTeam = 0 },
		"missing goal":       func(c *Config) { c.GoalWidth = 0 },
		"zero max step":      func(c *Config) { c.MaxStep = 0 },
		"margin eats field":  func(c *Config) { c.Margin = 10 },
	}
	for name, mutate := range cases {
		cfg := DesktopConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
		if _, err := New(cfg); err == nil {
			t.Fatalf("%s: expected New to fail", name)
		}
	}
	if err := DesktopConfig().Validate(); err != nil {
		t.Fatalf("desktop profile invalid: %v", err)
	}
	if err := MobileConfig().Validate(); err != nil {
		t.Fatalf("mobile profile invalid: %v", err)
	}
}

func TestBounceOffGround(t *testing.T) {
	cfg := DesktopConfig()
	s := newTestSim(t, cfg)
	s.ball = Ball{Position: mgl64.Vec3{0, 0.05, 0}, Velocity: mgl64.Vec3{0, -2, 0}, Radius: 0.3}

	s.Step(0.1)

	b := s.Ball()
	if b.Position.Y() != 0.3 {
		t.Fatalf("expected ball clamped to radius, got y=%f", b.Position.Y())
	}
	// Gravity is integrated before the ground check: (-2 - 0.98) reflected and damped
	want := (2.0 + 9.8*0.1) * 0.7
	if !near(b.Velocity.Y(), want) {
		t.Fatalf("expected vy=%f, got=%f", want, b.Velocity.Y())
	}
	if b.Resting {
		t.Fatal("ball should still be bouncing")
	}
}

func TestSmallBounceSettlesBall(t *testing.T) {
	s := newTestSim(t, DesktopConfig())
	s.ball = Ball{Position: mgl64.Vec3{0, 0.29, 0}, Velocity: mgl64.Vec3{1, -0.05, 0}, Radius: 0.3}

	s.Step(0.001)

	b := s.Ball()
	if !b.Resting || b.Velocity.Y() != 0 {
		t.Fatalf("expected ball to settle, got=%+v", b)
	}
	s.Step(0.1)
	if s.Ball().Position.Y() != 0.3 {
		t.Fatalf("resting ball should not fall, got y=%f", s.Ball().Position.Y())
	}
}

func TestGoalResetsBall(t *testing.T) {
	cfg := DesktopConfig()
	s := newTestSim(t, cfg, testPlayer(cfg, 0, 0.2, 0.1))
	s.ball = Ball{Position: mgl64.Vec3{1.0, 0.1, 14.8}, Velocity: mgl64.Vec3{0, 0, 5}, Radius: 0.3}

	events := s.Step(0.1)

	b := s.Ball()
	if b.Position != (mgl64.Vec3{0, 0.3, 0}) {
		t.Fatalf("expected ball reset to center, got=%v", b.Position)
	}
	if b.Velocity != (mgl64.Vec3{}) || !b.Resting {
		t.Fatalf("expected ball at rest after goal, got=%+v", b)
	}
	if sc := s.Score(); sc.Red != 1 || sc.Blue != 0 {
		t.Fatalf("expected red to score at the north end, got=%+v", sc)
	}
	var goal *Event
	for i := range events {
		if events[i].Kind == EventGoal {
			goal = &events[i]
		}
		if events[i].Kind == EventKick {
			t.Fatal("ball must not be kicked after a goal reset in the same tick")
		}
	}
	if goal == nil || goal.End != GoalNorth || goal.Team != TeamRed || goal.Tick != 1 {
		t.Fatalf("expected north goal event on tick 1, got=%+v", events)
	}
}

func TestGoalResetIgnoresIncomingSpeed(t *testing.T) {
	for _, speed := range []float64{-5, -50, -500, -5000} {
		s := newTestSim(t, DesktopConfig())
		s.ball = Ball{Position: mgl64.Vec3{-2.0, 0.3, -14.6}, Velocity: mgl64.Vec3{0.3, 0, speed}, Radius: 0.3, Resting: true}

		s.Step(0.1)

		b := s.Ball()
		if b.Position != (mgl64.Vec3{0, 0.3, 0}) || b.Velocity != (mgl64.Vec3{}) {
			t.Fatalf("speed %f: expected exact reset, got=%+v", speed, b)
		}
		if s.Score().Blue != 1 {
			t.Fatalf("speed %f: expected blue goal at the south end, got=%+v", speed, s.Score())
		}
	}
}

func TestBallOutsideGoalMouthBounces(t *testing.T) {
	s := newTestSim(t, DesktopConfig())
	s.ball = Ball{Position: mgl64.Vec3{5.0, 0.3, 14.8}, Velocity: mgl64.Vec3{0, 0, 5}, Radius: 0.3, Resting: true}

	s.Step(0.1)

	b := s.Ball()
	if !near(b.Position.Z(), 14.7) {
		t.Fatalf("expected ball on the wall, got z=%f", b.Position.Z())
	}
	if !near(b.Velocity.Z(), -5*0.98*0.7) {
		t.Fatalf("expected damped reflection, got vz=%f", b.Velocity.Z())
	}
	if s.Score() != (Score{}) {
		t.Fatalf("no goal expected, got=%+v", s.Score())
	}
}

func TestHighBallOverGoalBounces(t *testing.T) {
	s := newTestSim(t, DesktopConfig())
	s.ball = Ball{Position: mgl64.Vec3{0, 3.0, 14.8}, Velocity: mgl64.Vec3{0, 0, 5}, Radius: 0.3}

	s.Step(0.1)

	if s.Score() != (Score{}) {
		t.Fatalf("ball above the goal depth must not score, got=%+v", s.Score())
	}
	if s.Ball().Velocity.Z() >= 0 {
		t.Fatalf("expected reflection, got vz=%f", s.Ball().Velocity.Z())
	}
}

func TestWallBounceLosesEnergy(t *testing.T) {
	for _, damping := range []float64{0.1, 0.5, 0.7, 0.95, 1.0} {
		cfg := DesktopConfig()
		cfg.BounceDamping = damping
		s := newTestSim(t, cfg)
		s.ball = Ball{Position: mgl64.Vec3{9.6, 0.3, 0}, Velocity: mgl64.Vec3{3, 0, 0}, Radius: 0.3, Resting: true}

		s.Step(0.1)

		pre := 3 * cfg.Friction
		got := s.Ball().Velocity.X()
		if !near(got, -damping*pre) {
			t.Fatalf("damping %f: expected vx=%f, got=%f", damping, -damping*pre, got)
		}
		if !near(s.Ball().Position.X(), 9.7) {
			t.Fatalf("damping %f: expected ball clamped to wall, got x=%f", damping, s.Ball().Position.X())
		}
	}
}

func TestFrictionDecaysVelocity(t *testing.T) {
	s := newTestSim(t, DesktopConfig())
	s.ball = Ball{Position: mgl64.Vec3{0, 0.3, 0}, Velocity: mgl64.Vec3{2, 0, -1}, Radius: 0.3, Resting: true}

	prev := s.Ball().Velocity.Len()
	for i := 0; i < 200; i++ {
		s.Step(1.0 / 60.0)
		v := s.Ball().Velocity
		if v.Len() >= prev {
			t.Fatalf("tick %d: speed did not decrease, prev=%f now=%f", i, prev, v.Len())
		}
		if v.X() <= 0 || v.Z() >= 0 {
			t.Fatalf("tick %d: velocity reversed sign: %v", i, v)
		}
		prev = v.Len()
	}
	if prev > 0.05 {
		t.Fatalf("expected ball close to rest, speed=%f", prev)
	}
}

func TestMobileProfileIsPlanarAndElastic(t *testing.T) {
	cfg := MobileConfig()
	s := newTestSim(t, cfg)
	s.ball = kickoffBall(cfg)
	speed := s.Ball().Velocity.Len()

	for i := 0; i < 600; i++ {
		s.Step(1.0 / 60.0)
		b := s.Ball()
		if b.Position.Y() != cfg.BallRadius {
			t.Fatalf("tick %d: planar ball left the ground: %v", i, b.Position)
		}
		if !near(b.Velocity.Len(), speed) {
			t.Fatalf("tick %d: elastic walls changed speed %f -> %f", i, speed, b.Velocity.Len())
		}
	}
	if s.Score() != (Score{}) {
		t.Fatalf("mobile profile has no goals, got=%+v", s.Score())
	}
}

func TestStallClampsStep(t *testing.T) {
	s := newTestSim(t, DesktopConfig())
	s.ball = Ball{Position: mgl64.Vec3{0, 0.3, 0}, Velocity: mgl64.Vec3{1, 0, 0}, Radius: 0.3, Resting: true}

	s.Step(5)

	if s.Stalls() != 1 {
		t.Fatalf("expected one stall, got=%d", s.Stalls())
	}
	if want := 0.98 * 0.1; !near(s.Ball().Position.X(), want) {
		t.Fatalf("expected step clamped to 0.1s, x=%f want=%f", s.Ball().Position.X(), want)
	}
	s.Step(-1)
	if s.Stalls() != 1 || s.Tick() != 2 {
		t.Fatalf("negative dt is not a stall, stalls=%d tick=%d", s.Stalls(), s.Tick())
	}
}

func TestNaNStepLeavesBallUntouched(t *testing.T) {
	cfg := DesktopConfig()
	s := newTestSim(t, cfg)
	s.ball = Ball{Position: mgl64.Vec3{1, 2, 3}, Velocity: mgl64.Vec3{4, -1, 2}, Radius: cfg.BallRadius}
	before := s.Ball()

	s.Step(math.NaN())

	b := s.Ball()
	if b.Position != before.Position {
		t.Fatalf("NaN step moved the ball: before=%v after=%v", before.Position, b.Position)
	}
	// Only the per-tick friction applies, as for a zero step
	if !near(b.Velocity.X(), 4*cfg.Friction) || !near(b.Velocity.Y(), -1) || !near(b.Velocity.Z(), 2*cfg.Friction) {
		t.Fatalf("unexpected velocity after NaN step: %v", b.Velocity)
	}
	if s.Stalls() != 0 {
		t.Fatalf("NaN step is not a stall, got=%d", s.Stalls())
	}

	s.Step(0.01)
	b = s.Ball()
	for _, v := range []float64{b.Position.X(), b.Position.Y(), b.Position.Z(), b.Velocity.X(), b.Velocity.Y(), b.Velocity.Z()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("ball state not finite after NaN step: %+v", b)
		}
	}
}

func TestBallSpeedCap(t *testing.T) {
	cfg := DesktopConfig()
	cfg.MaxBallSpeed = 10
	s := newTestSim(t, cfg)
	s.ball = Ball{Position: mgl64.Vec3{0, 0.3, 0}, Velocity: mgl64.Vec3{100, 0, 0}, Radius: 0.3, Resting: true}

	s.Step(0.01)

	if got := s.Ball().Velocity.Len(); !near(got, 10) {
		t.Fatalf("expected capped speed 10, got=%f", got)
	}
}

func TestBallPlayerContactKicksBall(t *testing.T) {
	cfg := DesktopConfig()
	s := newTestSim(t, cfg, testPlayer(cfg, 0, 0, 0))
	s.ball = Ball{Position: mgl64.Vec3{0.5, 0.3, 0}, Radius: 0.3, Resting: true}

	events := s.Step(0)

	b := s.Ball()
	p := s.Players()[0]
	if !near(b.Position.X(), 0.525) || !near(p.Position.X(), -0.025) {
		t.Fatalf("expected half-overlap separation, ball=%v player=%v", b.Position, p.Position)
	}
	if !near(b.Velocity.X(), cfg.KickImpulse) || !near(b.Velocity.Y(), cfg.KickLift) {
		t.Fatalf("expected kick impulse and lift, got=%v", b.Velocity)
	}
	if b.Resting {
		t.Fatal("kicked ball must not rest")
	}
	if len(events) != 1 || events[0].Kind != EventKick || events[0].Player != 0 {
		t.Fatalf("expected one kick event, got=%+v", events)
	}
}

func TestCoincidentCentersAreSkipped(t *testing.T) {
	cfg := DesktopConfig()
	s := newTestSim(t, cfg, testPlayer(cfg, 0, 1, 1), testPlayer(cfg, 1, 1, 1))
	s.ball = Ball{Position: mgl64.Vec3{1, 0.3, 1}, Radius: 0.3, Resting: true}

	events := s.Step(0)

	for _, p := range s.Players() {
		if p.Position != (mgl64.Vec3{1, cfg.PlayerSize / 2, 1}) {
			t.Fatalf("coincident player moved: %v", p.Position)
		}
	}
	b := s.Ball()
	if b.Position != (mgl64.Vec3{1, 0.3, 1}) || b.Velocity != (mgl64.Vec3{}) {
		t.Fatalf("coincident ball changed: %+v", b)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got=%+v", events)
	}
}

func TestOverlappingPlayersSeparate(t *testing.T) {
	cfg := DesktopConfig()
	s := newTestSim(t, cfg, testPlayer(cfg, 0, 0, 0), testPlayer(cfg, 1, 0.12, 0.16))

	s.Step(0)

	players := s.Players()
	d := planarDistance(players[0].Position, players[1].Position)
	if !near(d, cfg.PlayerSize) {
		t.Fatalf("expected players exactly one size apart, got=%f", d)
	}
	mid := players[0].Position.Add(players[1].Position).Mul(0.5)
	if !near(mid.X(), 0.06) || !near(mid.Z(), 0.08) {
		t.Fatalf("separation should be symmetric, midpoint=%v", mid)
	}
}

func TestBroadPhaseMatchesExhaustivePass(t *testing.T) {
	cfg := DesktopConfig()
	var players []Player
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 40; i++ {
		// Isolated overlapping pairs scattered over the field
		k := i / 2
		x := float64(k%4)*4 - 6
		z := float64(k/4)*4 - 13
		if i%2 == 1 {
			x += 0.2 + rng.Float64()*0.1
			z += rng.Float64() * 0.1
		}
		players = append(players, testPlayer(cfg, i, x, z))
	}

	brute := newTestSim(t, cfg, players...)
	cfg.BroadPhaseCell = 1
	grid := newTestSim(t, cfg, players...)

	brute.collidePlayers()
	grid.collidePlayers()

	for i := range players {
		if brute.players[i].Position != grid.players[i].Position {
			t.Fatalf("player %d differs: brute=%v grid=%v", i, brute.players[i].Position, grid.players[i].Position)
		}
	}
}

func TestBroadPhaseFollowsChainedPushes(t *testing.T) {
	cfg := DesktopConfig()
	// Separating 0 from 1 drags 0 into the cell next to 2, which started two cells away
	players := []Player{
		testPlayer(cfg, 0, -8.95, 0),
		testPlayer(cfg, 1, -8.60, 0),
		testPlayer(cfg, 2, -9.51, 0),
	}

	brute := newTestSim(t, cfg, players...)
	cfg.BroadPhaseCell = 0.5
	grid := newTestSim(t, cfg, players...)

	brute.collidePlayers()
	grid.collidePlayers()

	for i := range players {
		if brute.players[i].Position != grid.players[i].Position {
			t.Fatalf("player %d differs: brute=%v grid=%v", i, brute.players[i].Position, grid.players[i].Position)
		}
	}
	if x := grid.players[2].Position.X(); !near(x, -9.5175) {
		t.Fatalf("expected player 2 pushed to -9.5175, got=%f", x)
	}
	if d := planarDistance(grid.players[0].Position, grid.players[2].Position); d < cfg.PlayerSize-eps {
		t.Fatalf("players 0 and 2 left overlapping: d=%f", d)
	}
}

func TestBroadPhaseMatchesExhaustivePassInCrowd(t *testing.T) {
	cfg := DesktopConfig()
	var players []Player
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 30; i++ {
		// A tight crowd where pushes cascade across cells
		players = append(players, testPlayer(cfg, i, rng.Float64()*2.5-1.25, rng.Float64()*2.5-1.25))
	}

	for _, cell := range []float64{0.5, 0.75, 2} {
		brute := newTestSim(t, cfg, players...)
		gridCfg := cfg
		gridCfg.BroadPhaseCell = cell
		grid := newTestSim(t, gridCfg, players...)

		for pass := 0; pass < 3; pass++ {
			brute.collidePlayers()
			grid.collidePlayers()
		}

		for i := range players {
			if brute.players[i].Position != grid.players[i].Position {
				t.Fatalf("cell %v: player %d differs: brute=%v grid=%v", cell, i, brute.players[i].Position, grid.players[i].Position)
			}
		}
	}
}

func TestGridMoveRefreshesCell(t *testing.T) {
	cfg := DesktopConfig()
	g := NewGrid(cfg, 1)
	players := []Player{testPlayer(cfg, 0, -9.5, 0), testPlayer(cfg, 1, 5, 0)}
	g.Rebuild(players)

	if got := g.Neighbors(4.5, 0, NoPlayer); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected only player 1 near x=4.5, got=%v", got)
	}

	players[0].Position[0] = 4.2
	g.Move(0, players[0])
	got := g.Neighbors(4.5, 0, NoPlayer)
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("expected players 0 and 1 after move, got=%v", got)
	}
	if got := g.Neighbors(-9.5, 0, NoPlayer); len(got) != 0 {
		t.Fatalf("expected old cell emptied, got=%v", got)
	}
	if got := g.Neighbors(4.5, 0, 0); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected ids above 0 only, got=%v", got)
	}
}

func TestGridFieldToCellClamps(t *testing.T) {
	g := NewGrid(DesktopConfig(), 2)
	if x, z := g.FieldToCell(-100, -100); x != 0 || z != 0 {
		t.Fatalf("expected clamp to first cell, got=%d,%d", x, z)
	}
	if x, z := g.FieldToCell(100, 100); x != g.countX-1 || z != g.countZ-1 {
		t.Fatalf("expected clamp to last cell, got=%d,%d", x, z)
	}
	if x, z := g.FieldToCell(0, 0); x != 5 || z != 7 {
		t.Fatalf("expected center cell 5,7, got=%d,%d", x, z)
	}
}

func TestEntitiesStayInsideField(t *testing.T) {
	cfg := DesktopConfig()
	cfg.Seed = 11
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.ball.Velocity = mgl64.Vec3{14, 3, -9}
	s.ball.Resting = false

	hw, hh := cfg.HalfExtents()
	rng := rand.New(rand.NewSource(5))
	for tick := 0; tick < 3000; tick++ {
		if tick%40 == 0 {
			// Pointer wanders well outside the viewport too
			s.Input().Store(Pointer{
				Active:    rng.Intn(4) != 0,
				X:         rng.Float64()*1.6*viewW - 0.3*viewW,
				Y:         rng.Float64()*1.6*viewH - 0.3*viewH,
				ViewportW: viewW,
				ViewportH: viewH,
			})
		}
		s.Step(rng.Float64() * 0.12)

		for _, p := range s.Players() {
			hs := p.HalfSize()
			if math.Abs(p.Position.X()) > hw-hs+eps || math.Abs(p.Position.Z()) > hh-hs+eps {
				t.Fatalf("tick %d: player %d escaped: %v", tick, p.ID, p.Position)
			}
		}
		b := s.Ball()
		if math.Abs(b.Position.X()) > hw-b.Radius+eps || math.Abs(b.Position.Z()) > hh-b.Radius+eps {
			t.Fatalf("tick %d: ball escaped: %v", tick, b.Position)
		}
		if b.Position.Y() < b.Radius-eps {
			t.Fatalf("tick %d: ball below ground: %v", tick, b.Position)
		}
	}
}
