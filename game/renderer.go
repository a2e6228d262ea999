package game

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"touchpitch/sim"
)

var (
	grassColor    = color.RGBA{30, 110, 40, 255}
	lineColor     = color.RGBA{230, 230, 230, 255}
	goalColor     = color.RGBA{255, 255, 255, 255}
	ballColor     = color.RGBA{250, 250, 250, 255}
	shadowColor   = color.RGBA{0, 0, 0, 90}
	redColor      = color.RGBA{220, 40, 40, 255}
	blueColor     = color.RGBA{40, 80, 230, 255}
	selectedColor = color.RGBA{255, 230, 0, 255}
	gridColor     = color.RGBA{255, 255, 255, 40}
	hudColor      = color.RGBA{255, 255, 255, 255}
)

// Camera maps the field onto the whole viewport. Field X runs left to right;
// field Z runs top to bottom unless the profile inverts it.
type Camera struct {
	Field  sim.Config
	Width  float64 // Viewport width
	Height float64 // Viewport height
}

// NewCamera creates a camera covering a width x height viewport
func NewCamera(field sim.Config, width, height float64) *Camera {
	return &Camera{
		Field:  field,
		Width:  width,
		Height: height,
	}
}

// WorldToScreen converts field coordinates to screen coordinates
func (c *Camera) WorldToScreen(pos mgl64.Vec3) (float64, float64) {
	return c.Field.FieldToScreen(pos, int(c.Width), int(c.Height))
}

// ScreenToWorld converts screen coordinates to field coordinates
func (c *Camera) ScreenToWorld(sx, sy float64) mgl64.Vec3 {
	pos, _ := c.Field.ScreenToField(sim.Pointer{X: sx, Y: sy, ViewportW: int(c.Width), ViewportH: int(c.Height)})
	return pos
}

// Scale returns pixels per field unit, using the smaller axis so circles stay round
func (c *Camera) Scale() float64 {
	return min(c.Width/c.Field.FieldWidth, c.Height/c.Field.FieldHeight)
}

// Renderer draws the field, entities and HUD
type Renderer struct {
	camera *Camera
	face   text.Face
}

// NewRenderer creates a new renderer
func NewRenderer(camera *Camera) *Renderer {
	return &Renderer{
		camera: camera,
		face:   text.NewGoXFace(basicfont.Face7x13),
	}
}

// Render draws one frame of the simulation state
func (r *Renderer) Render(screen *ebiten.Image, s *sim.Simulation, stats FrameStats, debug *DebugState) {
	screen.Fill(grassColor)
	r.renderField(screen)
	if debug != nil && debug.ShowGrid {
		r.renderGrid(screen)
	}

	for _, p := range s.Players() {
		r.RenderPlayer(screen, p, debug != nil && debug.ShowVelocity)
	}
	r.RenderBall(screen, s.Ball())

	r.renderHUD(screen, s.Score(), stats)
	if debug != nil && debug.ShowGrid && debug.Cursor.Active {
		r.renderCursor(screen, debug.Cursor)
	}
}

func (r *Renderer) renderField(screen *ebiten.Image) {
	cfg := r.camera.Field
	hw, hh := cfg.HalfExtents()

	x0, y0 := r.camera.WorldToScreen(mgl64.Vec3{-hw, 0, -hh})
	x1, y1 := r.camera.WorldToScreen(mgl64.Vec3{hw, 0, hh})
	left, top := min(x0, x1), min(y0, y1)
	vector.StrokeRect(screen, float32(left), float32(top), float32(max(x0, x1)-left), float32(max(y0, y1)-top), 2, lineColor, true)

	// Halfway line and center circle
	lx, ly := r.camera.WorldToScreen(mgl64.Vec3{-hw, 0, 0})
	rx, ry := r.camera.WorldToScreen(mgl64.Vec3{hw, 0, 0})
	vector.StrokeLine(screen, float32(lx), float32(ly), float32(rx), float32(ry), 2, lineColor, true)
	cx, cy := r.camera.WorldToScreen(mgl64.Vec3{})
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(2*r.camera.Scale()), 2, lineColor, true)

	if cfg.GoalsEnabled {
		for _, z := range []float64{-hh, hh} {
			gx0, gy := r.camera.WorldToScreen(mgl64.Vec3{-cfg.GoalWidth / 2, 0, z})
			gx1, _ := r.camera.WorldToScreen(mgl64.Vec3{cfg.GoalWidth / 2, 0, z})
			vector.StrokeLine(screen, float32(gx0), float32(gy), float32(gx1), float32(gy), 6, goalColor, true)
		}
	}
}

// renderGrid draws unit lines over the playable area
func (r *Renderer) renderGrid(screen *ebiten.Image) {
	hw, hh := r.camera.Field.HalfExtents()
	for x := -hw; x <= hw; x++ {
		sx0, sy0 := r.camera.WorldToScreen(mgl64.Vec3{x, 0, -hh})
		sx1, sy1 := r.camera.WorldToScreen(mgl64.Vec3{x, 0, hh})
		vector.StrokeLine(screen, float32(sx0), float32(sy0), float32(sx1), float32(sy1), 1, gridColor, false)
	}
	for z := -hh; z <= hh; z++ {
		sx0, sy0 := r.camera.WorldToScreen(mgl64.Vec3{-hw, 0, z})
		sx1, sy1 := r.camera.WorldToScreen(mgl64.Vec3{hw, 0, z})
		vector.StrokeLine(screen, float32(sx0), float32(sy0), float32(sx1), float32(sy1), 1, gridColor, false)
	}
}

// RenderPlayer draws a single player as a team-colored disc
func (r *Renderer) RenderPlayer(screen *ebiten.Image, p sim.Player, showVelocity bool) {
	sx, sy := r.camera.WorldToScreen(p.Position)
	radius := max(p.HalfSize()*r.camera.Scale(), 2)

	vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(radius), TeamColor(p.Team), true)
	if p.Selected {
		vector.StrokeCircle(screen, float32(sx), float32(sy), float32(radius+2), 2, selectedColor, true)
	}

	if showVelocity && p.Velocity.Len() > 0 {
		end := p.Position.Add(p.Velocity.Mul(0.25))
		ex, ey := r.camera.WorldToScreen(end)
		vector.StrokeLine(screen, float32(sx), float32(sy), float32(ex), float32(ey), 2, selectedColor, true)
	}
}

// RenderBall draws the ball with a ground shadow. Height lifts the ball
// toward the top of the screen so airborne balls read as such.
func (r *Renderer) RenderBall(screen *ebiten.Image, b sim.Ball) {
	ground := mgl64.Vec3{b.Position.X(), 0, b.Position.Z()}
	gx, gy := r.camera.WorldToScreen(ground)
	scale := r.camera.Scale()
	radius := max(b.Radius*scale, 2)

	lift := (b.Position.Y() - b.Radius) * scale
	if lift > 0 {
		vector.DrawFilledCircle(screen, float32(gx), float32(gy), float32(radius), shadowColor, true)
	}
	vector.DrawFilledCircle(screen, float32(gx), float32(gy-lift), float32(radius), ballColor, true)
}

func (r *Renderer) renderHUD(screen *ebiten.Image, score sim.Score, stats FrameStats) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 6)
	op.ColorScale.ScaleWithColor(hudColor)
	text.Draw(screen, HUDLine(score, stats), r.face, op)
}

func (r *Renderer) renderCursor(screen *ebiten.Image, p sim.Pointer) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 22)
	op.ColorScale.ScaleWithColor(hudColor)
	text.Draw(screen, CursorLine(r.camera, p), r.face, op)
}

// CursorLine formats the field position under the pointer for the grid overlay
func CursorLine(c *Camera, p sim.Pointer) string {
	pos := c.ScreenToWorld(p.X, p.Y)
	return fmt.Sprintf("cursor x %.2f z %.2f", pos.X(), pos.Z())
}

// HUDLine formats the score line shown at the top of the screen
func HUDLine(score sim.Score, stats FrameStats) string {
	return fmt.Sprintf("RED %d - %d BLUE   %.0f FPS   stalls %d", score.Red, score.Blue, stats.FPS, stats.Stalls)
}

// TeamColor returns the jersey color of a team
func TeamColor(t sim.Team) color.RGBA {
	if t == sim.TeamBlue {
		return blueColor
	}
	return redColor
}
