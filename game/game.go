package game

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"touchpitch/sim"
)

// FrameStats is what the HUD shows about frame pacing
type FrameStats struct {
	FPS    float64
	Stalls uint64
}

// frameCounter averages the frame rate over half-second windows
type frameCounter struct {
	fps     float64
	counter int
	timer   float64
}

// tick records one frame and reports whether the average was refreshed
func (f *frameCounter) tick(deltaTime float64) bool {
	f.timer += deltaTime
	f.counter++
	if f.timer < 0.5 {
		return false
	}
	f.fps = float64(f.counter) / f.timer
	f.counter = 0
	f.timer = 0
	return true
}

// Game drives one simulation from the ebiten loop
type Game struct {
	sim      *sim.Simulation
	renderer *Renderer
	camera   *Camera
	config   Config
	input    PointerSource
	debug    DebugState

	frames frameCounter

	// Performance profiling, nil unless a profile dir is configured
	profiler *Profiler

	// Game start time to ignore frame drops during startup
	gameStartTime time.Time

	// Last update time for delta time calculation
	lastUpdateTime time.Time

	// Stall count already reported in the log
	loggedStalls uint64
}

// NewGame creates a new game instance reading pointer state from input
func NewGame(config Config, input PointerSource) (*Game, error) {
	s, err := sim.New(config.Sim)
	if err != nil {
		return nil, err
	}

	var profiler *Profiler
	if config.ProfileDir != "" {
		profiler, err = NewProfiler(config.ProfileDir)
		if err != nil {
			return nil, err
		}
	}

	camera := NewCamera(config.Sim, float64(config.ScreenWidth), float64(config.ScreenHeight))
	g := &Game{
		sim:            s,
		renderer:       NewRenderer(camera),
		camera:         camera,
		config:         config,
		input:          input,
		frames:         frameCounter{fps: 60.0},
		profiler:       profiler,
		gameStartTime:  time.Now(),
		lastUpdateTime: time.Now(),
	}
	s.SetSink(goalLogger{})

	log.Printf("match %s: %d players per team, gravity=%v goals=%v",
		s.MatchID(), config.Sim.PlayersPerTeam, config.Sim.GravityEnabled, config.Sim.GoalsEnabled)
	return g, nil
}

// Simulation exposes the simulation driven by this game
func (g *Game) Simulation() *sim.Simulation {
	return g.sim
}

// Update advances the simulation by the wall-clock time since the last frame
func (g *Game) Update() error {
	now := time.Now()
	deltaTime := now.Sub(g.lastUpdateTime).Seconds()
	g.lastUpdateTime = now

	g.handleKeys()
	g.step(deltaTime)
	return nil
}

// step feeds one pointer sample and advances the simulation
func (g *Game) step(deltaTime float64) []sim.Event {
	g.trackFrames(deltaTime)

	pointer := g.input.Sample(g.config.ScreenWidth, g.config.ScreenHeight)
	g.debug.Cursor = pointer
	g.sim.Input().Store(pointer)
	events := g.sim.Step(deltaTime)

	if stalls := g.sim.Stalls(); stalls != g.loggedStalls {
		log.Printf("frame stall: step clamped to %.2fs (%d total)", g.config.Sim.MaxStep, stalls)
		g.loggedStalls = stalls
	}
	return events
}

// handleKeys processes debug and match controls
func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug.ShowGrid = !g.debug.ShowGrid
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.debug.ShowVelocity = !g.debug.ShowVelocity
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Reset()
		log.Printf("match %s: kickoff reset", g.sim.MatchID())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.sim.SetBall(sim.Ball{Position: dropBall(g.config.Sim.BallRadius)})
	}
}

// trackFrames updates the frame rate and triggers a profile on sustained drops
func (g *Game) trackFrames(deltaTime float64) {
	if !g.frames.tick(deltaTime) {
		return
	}
	if g.profiler == nil || g.frames.fps >= g.config.FPSDropThreshold {
		return
	}
	// Skip detection in the first seconds after launch
	if time.Since(g.gameStartTime) < 3*time.Second {
		return
	}
	reason := fmt.Sprintf("fps%.0f-players%d", g.frames.fps, len(g.sim.Players()))
	if g.profiler.CaptureProfile(reason) {
		log.Printf("frame drop detected (%.0f FPS), capturing profile", g.frames.fps)
	}
}

// Stats returns the current frame pacing numbers
func (g *Game) Stats() FrameStats {
	return FrameStats{FPS: g.frames.fps, Stalls: g.sim.Stalls()}
}

// Draw renders the game
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Render(screen, g.sim, g.Stats(), &g.debug)
}

// Layout returns the game's screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.ScreenWidth, g.config.ScreenHeight
}

// goalLogger writes every goal to the log
type goalLogger struct{}

func (goalLogger) Goal(ev sim.GoalEvent) {
	log.Printf("match %s tick %d: goal at %s end for %s, score %d-%d",
		ev.MatchID, ev.Tick, ev.End, ev.Team, ev.Score.Red, ev.Score.Blue)
}
