package game

import "touchpitch/sim"

// Config holds window and host settings around the simulation constants
type Config struct {
	// Sim is the physics profile driven by this host
	Sim sim.Config

	// ScreenWidth is the logical screen width in pixels
	ScreenWidth int

	// ScreenHeight is the logical screen height in pixels
	ScreenHeight int

	// Title is shown in the window bar on desktop
	Title string

	// ProfileDir enables CPU/trace capture on frame drops when non-empty
	ProfileDir string

	// FPSDropThreshold is the frame rate below which a capture is triggered
	FPSDropThreshold float64
}

// DefaultConfig returns the desktop window around the 11-a-side profile.
// The screen keeps the field's 2:3 aspect ratio.
func DefaultConfig() Config {
	return Config{
		Sim:              sim.DesktopConfig(),
		ScreenWidth:      640,
		ScreenHeight:     960,
		Title:            "touchpitch",
		FPSDropThreshold: 45.0,
	}
}

// MobileConfig returns the portrait phone layout around the planar two-player profile
func MobileConfig() Config {
	return Config{
		Sim:              sim.MobileConfig(),
		ScreenWidth:      720,
		ScreenHeight:     1080,
		Title:            "touchpitch mobile",
		FPSDropThreshold: 45.0,
	}
}

// ConfigForProfile resolves a profile name as given on the command line
func ConfigForProfile(name string) (Config, error) {
	simConfig, err := sim.ProfileConfig(name)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if name == "mobile" {
		cfg = MobileConfig()
	}
	cfg.Sim = simConfig
	return cfg, nil
}
