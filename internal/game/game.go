// Package game drives a simulation session from an ebiten window: it polls
// mouse and keyboard into session frames and renders the flock.
package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/ui"
)

const panelWidth = 260.0

type Game struct {
	session *simulation.Session
	logger  *slog.Logger

	// last size reported by Layout, applied at the start of the next Update
	width, height int

	// UI Controls
	panel *ui.UIPanel

	widgetMaxSpeed         *ui.Slider
	widgetMaxSteerForce    *ui.Slider
	widgetSeparation       *ui.Slider
	widgetNearby           *ui.Slider
	widgetDoubleThreat     *ui.Checkbox
	widgetShowSeparation   *ui.Checkbox
	widgetShowNearby       *ui.Checkbox
	widgetShowLineOfSight  *ui.Checkbox
	widgetShowAveragePoint *ui.Checkbox

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// New builds the game and its tuning panel from the session's current physics.
func New(session *simulation.Session, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := session.Config()
	p := session.Flock().Params()

	g := &Game{
		session: session,
		logger:  logger,
		width:   int(cfg.WorldWidth),
		height:  int(cfg.WorldHeight),
	}

	panel := ui.NewUIPanel("Flock Tuning (Tab)", 10, 10, panelWidth, cfg.WorldHeight-20)

	panel.AddSection("Physics")
	g.widgetMaxSpeed = panel.AddSlider("Max Speed", 0.5, 10, p.MaxSpeed)
	g.widgetMaxSteerForce = panel.AddSlider("Max Steer Force", 0.005, 0.5, p.MaxSteerForce)
	g.widgetSeparation = panel.AddSlider("Desired Separation", 8, 400, p.DesiredSeparation)
	g.widgetNearby = panel.AddSlider("Nearby Range", 16, 600, p.NearbyValue)
	g.widgetDoubleThreat = panel.AddCheckbox("Double Threat Forces", p.DoubleThreatForces)
	panel.EndSection()

	panel.AddSection("Visual Help")
	g.widgetShowSeparation = panel.AddCheckbox("Separation Radius", false)
	g.widgetShowNearby = panel.AddCheckbox("Nearby Radius", false)
	g.widgetShowLineOfSight = panel.AddCheckbox("Line Of Sight", false)
	g.widgetShowAveragePoint = panel.AddCheckbox("Average Position", false)
	panel.EndSection()

	panel.AddSection("Population")
	panel.AddButton("Reset Flock", session.Reset)
	panel.EndSection()

	g.panel = panel
	return g
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	// resizes only take effect between steps
	g.session.Resize(float64(g.width), float64(g.height))
	g.panel.SetHeight(float64(g.height) - 20)

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.panel.Visible = !g.panel.Visible
	}
	g.panel.Update()
	g.applyTuning()

	g.session.Step(g.pollFrame())
	return nil
}

// pollFrame turns this tick's mouse and keyboard state into a session frame.
func (g *Game) pollFrame() simulation.Frame {
	mx, my := ebiten.CursorPosition()
	frame := simulation.Frame{
		Cursor:  geometry.NewVector(float64(mx), float64(my)),
		Repel:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		Press:   inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !g.panel.Contains(mx, my),
		Release: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		frame.Nudge = simulation.NudgeFromKeys(
			ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
			ebiten.IsKeyPressed(ebiten.KeyArrowRight),
			ebiten.IsKeyPressed(ebiten.KeyArrowUp),
			ebiten.IsKeyPressed(ebiten.KeyArrowDown),
			g.session.Config().NudgeForce)
	}
	return frame
}

func (g *Game) applyTuning() {
	if !g.widgetMaxSpeed.Changed() && !g.widgetMaxSteerForce.Changed() &&
		!g.widgetSeparation.Changed() && !g.widgetNearby.Changed() &&
		!g.widgetDoubleThreat.Changed() {
		return
	}
	p := g.session.Flock().Params()
	p.MaxSpeed = g.widgetMaxSpeed.Value
	p.MaxSteerForce = g.widgetMaxSteerForce.Value
	p.DesiredSeparation = g.widgetSeparation.Value
	p.NearbyValue = g.widgetNearby.Value
	p.DoubleThreatForces = g.widgetDoubleThreat.Value
	g.session.Tune(p)
	g.logger.Debug("flock tuned",
		"max_speed", p.MaxSpeed,
		"max_steer_force", p.MaxSteerForce,
		"desired_separation", p.DesiredSeparation,
		"nearby_value", p.NearbyValue,
		"double_threat_forces", p.DoubleThreatForces)
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)

	f := g.session.Flock()
	h := helpers{
		separation:  g.widgetShowSeparation.Value,
		nearby:      g.widgetShowNearby.Value,
		lineOfSight: g.widgetShowLineOfSight.Value,
		average:     g.widgetShowAveragePoint.Value,
	}
	if h.any() {
		drawHelpers(screen, f.Snapshot(), f.Params(), h)
	}
	f.Draw(spriteRenderer{screen: screen})

	if origin, ok := g.session.PendingSpawn(); ok {
		mx, my := ebiten.CursorPosition()
		vector.FillCircle(screen, float32(origin.X), float32(origin.Y), 4, color.RGBA{R: 200, G: 122, B: 255, A: 255}, true)
		vector.StrokeLine(screen, float32(mx), float32(my), float32(origin.X), float32(origin.Y), 1, color.RGBA{R: 230, G: 41, B: 55, A: 255}, true)
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\nAgents: %d\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		f.Len(),
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-150, 10)
}

// Layout follows the window size so that the world grows and shrinks with it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
