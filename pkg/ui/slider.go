package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const sliderHeight = 14

// Slider maps a horizontal drag onto a value in [Min, Max]
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64

	dragging bool
	changed  bool
}

// NewSlider creates a slider with the value clamped into [min, max]
func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label: label,
		Min:   min,
		Max:   max,
		X:     x,
		Y:     y,
		W:     w,
		H:     sliderHeight,
	}
	s.Value = s.clamp(value)
	return s
}

func (s *Slider) clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

func (s *Slider) contains(mx, my int) bool {
	return float64(mx) >= s.X && float64(mx) <= s.X+s.W &&
		float64(my) >= s.Y && float64(my) <= s.Y+s.H
}

// Update follows the cursor while the left button is held after a press on the track
func (s *Slider) Update() {
	s.changed = false
	mx, my := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && s.contains(mx, my) {
		s.dragging = true
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		s.dragging = false
		return
	}
	if !s.dragging || s.W <= 0 {
		return
	}

	p := (float64(mx) - s.X) / s.W
	v := s.clamp(s.Min + p*(s.Max-s.Min))
	if v != s.Value {
		s.Value = v
		s.changed = true
	}
}

// Changed reports whether the last Update moved the value
func (s *Slider) Changed() bool { return s.changed }

// Draw renders the track and the filled part up to the value
func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	fill := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	if s.dragging {
		fill = color.RGBA{R: 230, G: 230, B: 140, A: 255}
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), fill, true)
}
