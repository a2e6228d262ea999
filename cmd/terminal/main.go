package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"touchpitch/audio"
	"touchpitch/config"
	"touchpitch/sim"
	"touchpitch/tui"
)

func main() {
	profile := flag.String("profile", "", "Physics profile: desktop or mobile (or set TOUCHPITCH_PROFILE env var)")
	seed := flag.Int64("seed", 0, "Kickoff jitter seed, 0 uses the clock (or set TOUCHPITCH_SEED env var)")
	mute := flag.Bool("mute", false, "Disable goal whistle and kick sounds")
	logFile := flag.String("log", "touchpitch.log", "Log file, the terminal is owned by the screen")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	name := config.Profile(*profile)
	seedValue, err := config.Seed(*seed)
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer f.Close()
	log.SetOutput(f)

	cfg, err := sim.ProfileConfig(name)
	if err != nil {
		log.Fatal(err)
	}
	cfg.Seed = seedValue

	s, err := sim.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}
	screen.EnableMouse()
	defer screen.Fini()

	var cues tui.Cues
	if !*mute {
		sound := audio.New()
		if err := sound.Initialize(); err != nil {
			// Non-fatal, the match runs without sound
			log.Printf("Audio initialization failed: %v", err)
		} else {
			defer sound.Close()
			cues = sound
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting match %s (%s profile)", s.MatchID(), name)
	host := tui.New(screen, s, cues)
	if err := host.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Match ended with error: %v", err)
	}
	sc := s.Score()
	log.Printf("Match %s finished: red %d - %d blue after %d ticks", s.MatchID(), sc.Red, sc.Blue, s.Tick())
}
