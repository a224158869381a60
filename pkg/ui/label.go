package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Label prints a line refreshed by Text on every draw.
type Label struct {
	x, y float64
	Text func() string
}

func NewLabel(text func() string) *Label {
	return &Label{Text: text}
}

func (l *Label) Height() float64 { return 16 }

func (l *Label) MoveTo(x, y float64) {
	l.x, l.y = x, y
}

func (l *Label) Update() {}

func (l *Label) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, l.Text(), int(l.x), int(l.y))
}
