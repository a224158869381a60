package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/kinematics"
)

// KeyboardControls maps the arrow keys (or WASD) onto car controls.
func KeyboardControls() kinematics.Controls {
	return kinematics.Controls{
		Forward: ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW),
		Reverse: ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS),
		Left:    ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right:   ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
	}
}
