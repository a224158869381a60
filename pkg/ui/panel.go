package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
)

type section struct {
	title   string
	widgets []Widget
}

// Panel stacks widgets in titled sections and scrolls with the mouse wheel.
type Panel struct {
	rect
	Title        string
	ScrollOffset float64
	sections     []*section

	BGColor      color.RGBA
	BorderColor  color.RGBA
	SectionColor color.RGBA
}

func NewPanel(title string, x, y, width, height float64) *Panel {
	return &Panel{
		rect:         rect{X: x, Y: y, W: width, H: height},
		Title:        title,
		BGColor:      color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor:  color.RGBA{R: 100, G: 100, B: 110, A: 255},
		SectionColor: color.RGBA{R: 60, G: 60, B: 70, A: 255},
	}
}

// AddSection starts a new section; following Add calls land in it.
func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, &section{title: title})
}

// Add appends w to the current section, creating an untitled one if needed.
func (p *Panel) Add(w Widget) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	s := p.sections[len(p.sections)-1]
	s.widgets = append(s.widgets, w)
}

func (p *Panel) AddSlider(label string, min, max, value, step float64) *Slider {
	s := NewSlider(label, min, max, value, step)
	s.W = p.W - 20
	p.Add(s)
	return s
}

func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(label, value)
	p.Add(c)
	return c
}

func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(label, onClick)
	b.W = p.W - 20
	p.Add(b)
	return b
}

func (p *Panel) AddLabel(text func() string) *Label {
	l := NewLabel(text)
	p.Add(l)
	return l
}

func (p *Panel) contentHeight() float64 {
	h := titleHeight
	for _, s := range p.sections {
		h += sectionHeight
		for _, w := range s.widgets {
			h += w.Height()
		}
	}
	return h
}

// layout positions every widget for the current scroll offset.
func (p *Panel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		y += sectionHeight
		for _, w := range s.widgets {
			w.MoveTo(p.X+10, y)
			y += w.Height()
		}
	}
}

func (p *Panel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		maxScroll := max(p.contentHeight()-p.H+40, 0)
		p.ScrollOffset = min(max(p.ScrollOffset-dy*20, 0), maxScroll)
	}
	p.layout()
	for _, s := range p.sections {
		for _, w := range s.widgets {
			w.Update()
		}
	}
}

func (p *Panel) visible(y, h float64) bool {
	return y+h >= p.Y+titleHeight && y <= p.Y+p.H
}

func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.W), float32(p.H),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.W), float32(p.H),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	p.layout()
	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		if s.title != "" && p.visible(y, sectionHeight) {
			vector.FillRect(screen,
				float32(p.X+5), float32(y),
				float32(p.W-10), 20,
				p.SectionColor, true)
			ebitenutil.DebugPrintAt(screen, s.title, int(p.X+10), int(y+3))
		}
		y += sectionHeight
		for _, w := range s.widgets {
			if p.visible(y, w.Height()) {
				w.Draw(screen)
			}
			y += w.Height()
		}
	}
}
