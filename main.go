package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"

	"touchpitch/config"
	"touchpitch/game"
)

func main() {
	profile := flag.String("profile", "", "Physics profile: desktop or mobile (or set TOUCHPITCH_PROFILE env var)")
	seed := flag.Int64("seed", 0, "Kickoff jitter seed, 0 uses the clock (or set TOUCHPITCH_SEED env var)")
	broadPhase := flag.Float64("broad-phase", 0, "Grid cell size for player pair checks, 0 checks every pair")
	profileDir := flag.String("profile-dir", "", "Capture CPU profiles and traces here on frame drops")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	seedValue, err := config.Seed(*seed)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := game.ConfigForProfile(config.Profile(*profile))
	if err != nil {
		log.Fatal(err)
	}
	cfg.Sim.Seed = seedValue
	cfg.Sim.BroadPhaseCell = *broadPhase
	cfg.ProfileDir = *profileDir

	log.Printf("Starting with GOMAXPROCS=%d", runtime.GOMAXPROCS(0))

	g, err := game.NewGame(cfg, game.NewDeviceInput())
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizable(true)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
