package sim

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Layout selects how the roster is placed at kickoff.
type Layout int

const (
	// LayoutSpread places each team in a jittered column on its own half (X axis).
	LayoutSpread Layout = iota
	// LayoutEnds places each team in a row near its own goal line (Z axis).
	LayoutEnds
)

// Config holds the scene constants and physics tuning for one simulation.
// It is read once by New and never mutated afterwards.
type Config struct {
	// FieldWidth is the full extent of the field along X in world units
	FieldWidth float64

	// FieldHeight is the full extent of the field along Z in world units
	FieldHeight float64

	// Margin insets the playable boundary from the field edge
	Margin float64

	// GoalWidth is the lateral width of each goal mouth
	GoalWidth float64

	// GoalDepth is the height below which a ball crossing the goal line scores
	GoalDepth float64

	PlayersPerTeam int
	Layout         Layout

	// PlayerSize is the full extent of a player; half of it is the collision radius
	PlayerSize float64

	// PlayerSpeed in world units per second
	PlayerSpeed float64

	BallRadius float64

	// KickoffVelocity is given to the ball whenever the roster is placed
	KickoffVelocity mgl64.Vec3

	GravityEnabled bool
	Gravity        float64

	// Friction multiplies horizontal ball velocity every tick (1 disables it)
	Friction float64

	// BounceDamping is the fraction of speed kept after a ground or wall bounce
	BounceDamping float64

	// RestThreshold is the post-bounce vertical speed below which the ball rests
	RestThreshold float64

	GoalsEnabled bool

	// KickImpulse is added to the ball along the contact normal on player contact
	KickImpulse float64

	// KickLift is added to vertical ball velocity on player contact (gravity profiles only)
	KickLift float64

	// MaxBallSpeed caps ball speed after integration (0 disables the cap)
	MaxBallSpeed float64

	// SelectionRadius limits pointer-down selection (0 selects the globally nearest player)
	SelectionRadius float64

	// InvertVertical maps screen-down to field -Z instead of +Z
	InvertVertical bool

	// ArriveEpsilon is the distance at which a moving player counts as arrived
	ArriveEpsilon float64

	// MinSeparation guards collision normals against coincident centers
	MinSeparation float64

	// MaxStep clamps the integration time step in seconds
	MaxStep float64

	// BroadPhaseCell enables the uniform grid for player pairs when > 0
	BroadPhaseCell float64

	// Seed for kickoff jitter (0 seeds from the clock)
	Seed int64
}

// DesktopConfig returns the full 11-a-side profile with gravity, friction and goals.
func DesktopConfig() Config {
	return Config{
		FieldWidth:      20.0,
		FieldHeight:     30.0,
		Margin:          0.0,
		GoalWidth:       5.0,
		GoalDepth:       2.0,
		PlayersPerTeam:  11,
		Layout:          LayoutSpread,
		PlayerSize:      0.5,
		PlayerSpeed:     8.0,
		BallRadius:      0.3,
		GravityEnabled:  true,
		Gravity:         -9.8,
		Friction:        0.98,
		BounceDamping:   0.7,
		RestThreshold:   0.1,
		GoalsEnabled:    true,
		KickImpulse:     5.0,
		KickLift:        2.0,
		SelectionRadius: 5.0,
		InvertVertical:  false,
		ArriveEpsilon:   0.1,
		MinSeparation:   1e-6,
		MaxStep:         0.1,
	}
}

// MobileConfig returns the planar two-player profile: no gravity, no friction,
// elastic walls and no goals.
func MobileConfig() Config {
	return Config{
		FieldWidth:     10.0,
		FieldHeight:    15.0,
		Margin:         0.2,
		PlayersPerTeam: 1,
		Layout:         LayoutEnds,
		PlayerSize:     0.5,
		// 0.1 units per tick at 60 ticks per second
		PlayerSpeed:     6.0,
		BallRadius:      0.3,
		KickoffVelocity: mgl64.Vec3{3.0, 0, 3.0},
		Friction:        1.0,
		BounceDamping:   1.0,
		RestThreshold:   0.1,
		KickImpulse:     5.0,
		InvertVertical:  true,
		ArriveEpsilon:   0.1,
		MinSeparation:   1e-6,
		MaxStep:         0.1,
	}
}

// ProfileConfig resolves a profile name; the empty name is the desktop profile.
func ProfileConfig(name string) (Config, error) {
	switch name {
	case "", "desktop":
		return DesktopConfig(), nil
	case "mobile":
		return MobileConfig(), nil
	default:
		return Config{}, fmt.Errorf("unknown profile %q (want desktop or mobile)", name)
	}
}

// HalfExtents returns the playable half width (X) and half height (Z).
func (c Config) HalfExtents() (float64, float64) {
	return c.FieldWidth/2 - c.Margin, c.FieldHeight/2 - c.Margin
}

// Validate reports every constant that would break the simulation invariants.
func (c Config) Validate() error {
	var errs []error
	if c.FieldWidth <= 0 || c.FieldHeight <= 0 {
		errs = append(errs, fmt.Errorf("field extents must be positive, got %gx%g", c.FieldWidth, c.FieldHeight))
	}
	if c.Margin < 0 {
		errs = append(errs, fmt.Errorf("margin must not be negative, got %g", c.Margin))
	}
	if c.BallRadius <= 0 {
		errs = append(errs, fmt.Errorf("ball radius must be positive, got %g", c.BallRadius))
	}
	if c.PlayerSize <= 0 {
		errs = append(errs, fmt.Errorf("player size must be positive, got %g", c.PlayerSize))
	}
	if c.PlayersPerTeam < 1 {
		errs = append(errs, fmt.Errorf("players per team must be at least 1, got %d", c.PlayersPerTeam))
	}
	hw, hh := c.HalfExtents()
	if smallest := min(hw, hh); smallest <= c.BallRadius || smallest <= c.PlayerSize/2 {
		errs = append(errs, fmt.Errorf("playable area %gx%g is too small for the entities", 2*hw, 2*hh))
	}
	if c.Friction <= 0 || c.Friction > 1 {
		errs = append(errs, fmt.Errorf("friction must be in (0,1], got %g", c.Friction))
	}
	if c.BounceDamping <= 0 || c.BounceDamping > 1 {
		errs = append(errs, fmt.Errorf("bounce damping must be in (0,1], got %g", c.BounceDamping))
	}
	if c.PlayerSpeed < 0 {
		errs = append(errs, fmt.Errorf("player speed must not be negative, got %g", c.PlayerSpeed))
	}
	if c.MaxStep <= 0 {
		errs = append(errs, fmt.Errorf("max step must be positive, got %g", c.MaxStep))
	}
	if c.GoalsEnabled && (c.GoalWidth <= 0 || c.GoalDepth <= 0) {
		errs = append(errs, fmt.Errorf("goal geometry must be positive when goals are enabled, got %gx%g", c.GoalWidth, c.GoalDepth))
	}
	if c.SelectionRadius < 0 || c.ArriveEpsilon < 0 || c.MinSeparation < 0 || c.BroadPhaseCell < 0 {
		errs = append(errs, errors.New("selection radius, arrive epsilon, min separation and broad-phase cell must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid simulation config: %w", err)
	}
	return nil
}
