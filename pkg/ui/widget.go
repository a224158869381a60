package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Widget is anything the panel can stack vertically.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64
	// MoveTo places the widget's top left corner, used when the panel scrolls.
	MoveTo(x, y float64)
}

type rect struct {
	X, Y, W, H float64
}

func (r rect) contains(x, y int) bool {
	return float64(x) >= r.X && float64(x) <= r.X+r.W &&
		float64(y) >= r.Y && float64(y) <= r.Y+r.H
}

// clickLatch turns a held mouse button into a single click.
type clickLatch struct {
	down bool
}

func (l *clickLatch) fire(over bool) bool {
	pressed := over && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	click := pressed && !l.down
	l.down = pressed
	return click
}
