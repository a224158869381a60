package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button runs OnClick once per press.
type Button struct {
	rect
	Label   string
	OnClick func()
	latch   clickLatch

	BGColor    color.RGBA
	HoverColor color.RGBA
}

func NewButton(label string, onClick func()) *Button {
	return &Button{
		rect:       rect{W: 200, H: 22},
		Label:      label,
		OnClick:    onClick,
		BGColor:    color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor: color.RGBA{R: 100, G: 150, B: 220, A: 255},
	}
}

func (b *Button) Height() float64 { return b.H + 6 }

func (b *Button) MoveTo(x, y float64) {
	b.X, b.Y = x, y
}

func (b *Button) Update() {
	mx, my := ebiten.CursorPosition()
	if b.latch.fire(b.contains(mx, my)) && b.OnClick != nil {
		b.OnClick()
	}
}

func (b *Button) Draw(screen *ebiten.Image) {
	mx, my := ebiten.CursorPosition()
	bg := b.BGColor
	if b.contains(mx, my) {
		bg = b.HoverColor
	}
	vector.FillRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.W), float32(b.H),
		bg, true)
	vector.StrokeRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.W), float32(b.H),
		2, color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
	ebitenutil.DebugPrintAt(screen, b.Label, int(b.X+6), int(b.Y+4))
}
