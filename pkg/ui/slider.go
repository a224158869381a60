package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider picks a value in [Min, Max] by dragging. With Step > 0 the value
// snaps to multiples of Step.
type Slider struct {
	rect
	Label    string
	Value    float64
	Min, Max float64
	Step     float64
	OnChange func(float64)
}

func NewSlider(label string, min, max, value, step float64) *Slider {
	return &Slider{
		rect:  rect{W: 200, H: 12},
		Label: label,
		Value: value,
		Min:   min,
		Max:   max,
		Step:  step,
	}
}

func (s *Slider) Height() float64 { return s.H + 25 }

func (s *Slider) MoveTo(x, y float64) {
	s.X, s.Y = x, y+15
}

func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || !s.contains(mx, my) {
		return
	}
	p := (float64(mx) - s.X) / s.W
	v := s.Min + p*(s.Max-s.Min)
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	v = math.Max(s.Min, math.Min(s.Max, v))
	if v != s.Value {
		s.Value = v
		if s.OnChange != nil {
			s.OnChange(v)
		}
	}
}

func (s *Slider) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %g", s.Label, s.Value), int(s.X), int(s.Y-15))
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H),
		color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H),
		color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}
