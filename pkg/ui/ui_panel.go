package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	panelMargin   = 10.0
	titleHeight   = 30.0
	sectionHeight = 25.0
	labelHeight   = 15.0
)

// UIWidget is anything the panel can stack vertically
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
	place(x, y float64)
}

// SliderWrapper draws the slider label and current value above the track
type SliderWrapper struct {
	*Slider
}

func (s *SliderWrapper) GetHeight() float64 { return labelHeight + s.H + 10 }

func (s *SliderWrapper) place(x, y float64) {
	s.X = x
	s.Y = y + labelHeight
}

func (s *SliderWrapper) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %.2f", s.Label, s.Value), int(s.X), int(s.Y-labelHeight))
	s.Slider.Draw(screen)
}

// CheckboxWrapper draws the label to the right of the box
type CheckboxWrapper struct {
	*Checkbox
}

func (c *CheckboxWrapper) GetHeight() float64 { return c.Size + 8 }

func (c *CheckboxWrapper) place(x, y float64) {
	c.X = x
	c.Y = y
}

func (c *CheckboxWrapper) Draw(screen *ebiten.Image) {
	c.Checkbox.Draw(screen)
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.Size+8), int(c.Y))
}

type ButtonWrapper struct {
	*Button
}

func (b *ButtonWrapper) GetHeight() float64 { return b.Height + 8 }

func (b *ButtonWrapper) place(x, y float64) {
	b.X = x
	b.Y = y
}

// PanelSection is a titled run of widgets
type PanelSection struct {
	Title      string
	StartIndex int
	EndIndex   int
}

// UIPanel is a scrollable column of widgets. Widgets are laid out on every
// Update and Draw so that scrolling and resizing keep hit-boxes in place.
type UIPanel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	Visible       bool
	Widgets       []UIWidget
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []PanelSection
	// visible[i] is false for widgets scrolled out of the panel
	visible  []bool
	headerYs []float64
}

func NewUIPanel(title string, x, y, width, height float64) *UIPanel {
	return &UIPanel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Visible:     true,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new titled section; widgets added afterwards belong to it
func (p *UIPanel) AddSection(title string) {
	p.EndSection()
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   -1,
	})
}

// EndSection closes the current section
func (p *UIPanel) EndSection() {
	if n := len(p.sections); n > 0 && p.sections[n-1].EndIndex < 0 {
		p.sections[n-1].EndIndex = len(p.Widgets)
	}
}

func (p *UIPanel) add(w UIWidget) {
	p.Widgets = append(p.Widgets, w)
	p.visible = append(p.visible, true)
}

func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	slider := NewSlider(p.X+panelMargin, 0, p.Width-2*panelMargin, label, min, max, value)
	p.add(&SliderWrapper{slider})
	return slider
}

func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	checkbox := NewCheckbox(p.X+panelMargin, 0, label, value)
	p.add(&CheckboxWrapper{checkbox})
	return checkbox
}

func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	button := NewButton(p.X+panelMargin, 0, p.Width-2*panelMargin, 24, label, onClick)
	p.add(&ButtonWrapper{button})
	return button
}

// SetHeight fits the panel to a new window height
func (p *UIPanel) SetHeight(h float64) {
	p.Height = h
	p.clampScroll()
}

// Contains reports whether the screen point lies over the visible panel
func (p *UIPanel) Contains(x, y int) bool {
	if !p.Visible {
		return false
	}
	return float64(x) >= p.X && float64(x) <= p.X+p.Width &&
		float64(y) >= p.Y && float64(y) <= p.Y+p.Height
}

// layout assigns widget positions from the section list and the scroll offset
func (p *UIPanel) layout() {
	p.headerYs = p.headerYs[:0]
	currentY := p.Y + titleHeight - p.ScrollOffset
	section := 0

	for i, w := range p.Widgets {
		for section < len(p.sections) && p.sections[section].StartIndex == i {
			p.headerYs = append(p.headerYs, currentY)
			currentY += sectionHeight
			section++
		}
		w.place(p.X+panelMargin, currentY)
		h := w.GetHeight()
		p.visible[i] = currentY >= p.Y+titleHeight && currentY+h <= p.Y+p.Height
		currentY += h
	}
	// trailing empty sections
	for ; section < len(p.sections); section++ {
		p.headerYs = append(p.headerYs, currentY)
		currentY += sectionHeight
	}
}

func (p *UIPanel) contentHeight() float64 {
	height := titleHeight + float64(len(p.sections))*sectionHeight
	for _, w := range p.Widgets {
		height += w.GetHeight()
	}
	return height
}

func (p *UIPanel) clampScroll() {
	maxScroll := p.contentHeight() - p.Height + panelMargin
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.ScrollOffset > maxScroll {
		p.ScrollOffset = maxScroll
	}
	if p.ScrollOffset < 0 {
		p.ScrollOffset = 0
	}
}

// Update scrolls with the wheel over the panel and updates visible widgets
func (p *UIPanel) Update() {
	if !p.Visible {
		return
	}
	mx, my := ebiten.CursorPosition()
	if _, dy := ebiten.Wheel(); dy != 0 && p.Contains(mx, my) {
		p.ScrollOffset -= dy * 20
		p.clampScroll()
	}

	p.layout()
	for i, w := range p.Widgets {
		if p.visible[i] {
			w.Update()
		}
	}
}

func (p *UIPanel) Draw(screen *ebiten.Image) {
	if !p.Visible {
		return
	}
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+panelMargin), int(p.Y+5))

	p.layout()
	sectionBG := color.RGBA{R: 60, G: 60, B: 70, A: 255}
	for i, y := range p.headerYs {
		if y < p.Y+titleHeight || y+sectionHeight > p.Y+p.Height {
			continue
		}
		vector.FillRect(screen,
			float32(p.X+5), float32(y),
			float32(p.Width-10), 20,
			sectionBG, true)
		ebitenutil.DebugPrintAt(screen, p.sections[i].Title, int(p.X+panelMargin), int(y+2))
	}
	for i, w := range p.Widgets {
		if p.visible[i] {
			w.Draw(screen)
		}
	}
}
