package viewer

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/network"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/road"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/simulation"
)

var (
	whiteImage = ebiten.NewImage(3, 3)

	roadColor    = color.RGBA{R: 169, G: 169, B: 169, A: 255}
	laneColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	pilotColor   = color.RGBA{R: 40, G: 90, B: 230, A: 255}
	trafficColor = color.RGBA{R: 220, G: 50, B: 50, A: 255}
	wreckColor   = color.RGBA{R: 110, G: 110, B: 110, A: 255}
	rayColor     = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	blockedColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

func init() {
	whiteImage.Fill(color.White)
}

// camera maps world coordinates to the screen by a vertical scroll.
type camera struct {
	offsetY float64
}

func (c camera) point(p geometry.Point) (float32, float32) {
	return float32(p.X), float32(p.Y - c.offsetY)
}

func drawRoad(screen *ebiten.Image, r *road.Road, cam camera, height float64) {
	vector.FillRect(screen, float32(r.Left()), 0, float32(r.Width), float32(height), roadColor, false)

	// dashes scroll with the camera
	const dash, gap = 20.0, 20.0
	start := math.Floor(cam.offsetY/(dash+gap)) * (dash + gap)
	for _, d := range r.LaneDividers() {
		for y := start; y < cam.offsetY+height; y += dash + gap {
			x0, y0 := cam.point(geometry.NewPoint(d.A.X, y))
			_, y1 := cam.point(geometry.NewPoint(d.A.X, y+dash))
			vector.StrokeLine(screen, x0, y0, x0, y1, 3, laneColor, false)
		}
	}
	for _, b := range r.Borders() {
		x, _ := cam.point(b.A)
		vector.StrokeLine(screen, x, 0, x, float32(height), 5, laneColor, false)
	}
}

// drawCar fills the 4 corner outline with two triangles.
func drawCar(screen *ebiten.Image, a *simulation.AgentSnapshot, cam camera, alpha float32) {
	if len(a.Polygon) != 4 {
		return
	}
	clr := trafficColor
	switch {
	case a.Damaged:
		clr = wreckColor
	case a.Role == simulation.RolePilot:
		clr = pilotColor
	}
	r, g, b := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255

	vertices := make([]ebiten.Vertex, 4)
	for i, p := range a.Polygon {
		x, y := cam.point(p)
		vertices[i] = ebiten.Vertex{
			DstX: x, DstY: y,
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: alpha,
		}
	}
	indices := []uint16{0, 1, 2, 0, 2, 3}
	screen.DrawTriangles(vertices, indices, whiteImage, &ebiten.DrawTrianglesOptions{})
}

// drawRays draws each ray up to its reading in yellow and the blocked rest in black.
func drawRays(screen *ebiten.Image, a *simulation.AgentSnapshot, cam camera) {
	for i, ray := range a.Rays {
		end := ray.B
		if i < len(a.Readings) && a.Readings[i] != nil {
			end = a.Readings[i].Point
		}
		x0, y0 := cam.point(ray.A)
		x1, y1 := cam.point(end)
		x2, y2 := cam.point(ray.B)
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, rayColor, true)
		vector.StrokeLine(screen, x1, y1, x2, y2, 2, blockedColor, true)
	}
}

// drawNetwork sketches the weights of a brain, inputs at the bottom. Blue
// lines are positive weights, red negative, brighter for larger magnitude.
func drawNetwork(screen *ebiten.Image, n *network.Network, x, y, w, h float64) {
	topology := n.Topology()
	if len(topology) < 2 {
		return
	}
	layerY := func(i int) float64 {
		return y + h - geometry.Lerp(0, h, float64(i)/float64(len(topology)-1))
	}
	nodeX := func(count, i int) float64 {
		t := 0.5
		if count > 1 {
			t = float64(i) / float64(count-1)
		}
		return geometry.Lerp(x+12, x+w-12, t)
	}

	for li, l := range n.Levels {
		for i, row := range l.Weights {
			for j, weight := range row {
				vector.StrokeLine(screen,
					float32(nodeX(topology[li], i)), float32(layerY(li)),
					float32(nodeX(topology[li+1], j)), float32(layerY(li+1)),
					1, valueColor(weight), true)
			}
		}
	}
	for li, count := range topology {
		for i := 0; i < count; i++ {
			cx, cy := float32(nodeX(count, i)), float32(layerY(li))
			vector.FillCircle(screen, cx, cy, 6, color.Black, true)
			if li > 0 {
				vector.StrokeCircle(screen, cx, cy, 8, 1.5, valueColor(n.Levels[li-1].Biases[i]), true)
			}
		}
	}
}

func valueColor(v float64) color.RGBA {
	a := uint8(math.Min(math.Abs(v), 1) * 255)
	if v < 0 {
		return color.RGBA{R: a, A: a}
	}
	return color.RGBA{B: a, A: a}
}
