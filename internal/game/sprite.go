package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

const spriteScale = 2.0

var (
	backgroundColor = color.RGBA{R: 125, G: 132, B: 178, A: 255}
	agentSprite     *ebiten.Image
)

func init() {
	// Legend:
	// . = Transparent
	// W = White (outline)
	// C = Cream (body)
	// D = Dark (tail)
	design := []string{
		"...WW...",
		"...WW...",
		"..WCCW..",
		"..WCCW..",
		".WCCCCW.",
		".WCCCCW.",
		"WCCDDCCW",
		"WWD..DWW",
	}

	palette := map[rune]color.RGBA{
		'W': {R: 250, G: 250, B: 250, A: 255},
		'C': {R: 235, G: 225, B: 190, A: 255},
		'D': {R: 60, G: 60, B: 80, A: 255},
	}

	agentSprite = generateSprite(design, palette)
}

// generateSprite converts an ASCII grid into an Ebiten image
func generateSprite(design []string, palette map[rune]color.RGBA) *ebiten.Image {
	h := len(design)
	w := len(design[0])
	img := ebiten.NewImage(w, h)

	for y, row := range design {
		for x, char := range row {
			if col, ok := palette[char]; ok {
				img.Set(x, y, col)
			}
		}
	}
	return img
}

// spriteRenderer draws each agent as the up-facing sprite rotated to its heading
type spriteRenderer struct {
	screen *ebiten.Image
}

func (r spriteRenderer) DrawAgent(a *flock.Agent) {
	op := &ebiten.DrawImageOptions{}

	w, h := agentSprite.Bounds().Dx(), agentSprite.Bounds().Dy()
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	op.GeoM.Scale(spriteScale, spriteScale)

	// Heading is in degrees with 0 pointing up, matching the sprite
	op.GeoM.Rotate(a.Heading() * math.Pi / 180)

	p := a.Position()
	op.GeoM.Translate(p.X, p.Y)

	r.screen.DrawImage(agentSprite, op)
}

// helpers selects which perception overlays are drawn
type helpers struct {
	separation  bool
	nearby      bool
	lineOfSight bool
	average     bool
}

func (h helpers) any() bool {
	return h.separation || h.nearby || h.lineOfSight || h.average
}

// drawHelpers overlays the perception radii, the lines to every agent in
// cohesion range and the centre each agent coheres toward.
func drawHelpers(screen *ebiten.Image, states []flock.State, p flock.Params, h helpers) {
	sepColor := color.RGBA{R: 255, G: 200, B: 0, A: 60}
	nearColor := color.RGBA{R: 255, G: 0, B: 0, A: 32}
	sightColor := color.RGBA{R: 230, G: 40, B: 40, A: 120}
	avgColor := color.RGBA{R: 0, G: 0, B: 255, A: 255}

	for i, s := range states {
		x, y := float32(s.Position.X), float32(s.Position.Y)
		if h.separation {
			vector.StrokeCircle(screen, x, y, float32(p.DesiredSeparation), 1, sepColor, true)
		}
		if h.nearby {
			vector.StrokeCircle(screen, x, y, float32(p.NearbyValue), 1, nearColor, true)
		}
		if !h.lineOfSight && !h.average {
			continue
		}

		var sumX, sumY float64
		count := 0
		for j, other := range states {
			if i == j || s.Position.DistanceTo(other.Position) >= p.NearbyValue {
				continue
			}
			if h.lineOfSight {
				vector.StrokeLine(screen, x, y, float32(other.Position.X), float32(other.Position.Y), 1, sightColor, true)
			}
			sumX += other.Position.X
			sumY += other.Position.Y
			count++
		}
		if h.average && count > 0 {
			vector.FillCircle(screen, float32(sumX/float64(count)), float32(sumY/float64(count)), 2, avgColor, true)
		}
	}
}
