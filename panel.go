package ui

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// controlMode selects who moves the light.
type controlMode int

const (
	modeArrows controlMode = iota
	modeGCode
)

func (m controlMode) String() string {
	if m == modeGCode {
		return "gcode"
	}
	return "arrows"
}

func parseControlMode(s string) controlMode {
	if s == modeGCode.String() {
		return modeGCode
	}
	return modeArrows
}

const (
	maxProgramLen  = 1023 // Bytes accepted by the text box
	programLines   = 16   // Visible lines of the text box
	lineHeight     = 14
	panelWidth     = 300
	panelPadding   = 6
	keyRepeatDelay = 30 // Ticks before a held key starts repeating
	keyRepeatEvery = 3  // Ticks between repeats
)

var (
	defaultFont = text.NewGoXFace(basicfont.Face7x13)

	panelBackground = color.RGBA{R: 20, G: 24, B: 30, A: 220}
	panelTitleBar   = color.RGBA{R: 41, G: 74, B: 122, A: 255}
	panelWidget     = color.RGBA{R: 48, G: 56, B: 68, A: 255}
	panelWidgetHot  = color.RGBA{R: 66, G: 150, B: 250, A: 255}
	panelText       = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	panelDimText    = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// panel is the immediate-mode control panel: mode radio buttons, the G-code text box and its buttons.
type panel struct {
	origin  image.Point
	text    string
	focused bool
	ticks   int // For the caret blink
	status  string
}

// panelLayout are the widget rectangles of the panel for the current mode.
type panelLayout struct {
	frame, title           image.Rectangle
	label                  image.Point
	radioArrows, radioCode image.Rectangle
	textBox                image.Rectangle // Empty in arrows mode
	execute, clear         image.Rectangle // Empty in arrows mode
	status                 image.Point
}

func newPanel() *panel {
	return &panel{origin: image.Point{X: 10, Y: 10}}
}

func (p *panel) layout(mode controlMode) panelLayout {
	var l panelLayout
	x, y := p.origin.X, p.origin.Y
	inner := panelWidth - 2*panelPadding
	l.title = image.Rect(x, y, x+panelWidth, y+lineHeight+6)
	y = l.title.Max.Y + panelPadding
	l.label = image.Point{X: x + panelPadding, Y: y}
	y += lineHeight + 4
	l.radioArrows = image.Rect(x+panelPadding, y, x+panelPadding+inner, y+lineHeight+2)
	y = l.radioArrows.Max.Y + 2
	l.radioCode = image.Rect(x+panelPadding, y, x+panelPadding+inner, y+lineHeight+2)
	y = l.radioCode.Max.Y + panelPadding
	if mode == modeGCode {
		l.textBox = image.Rect(x+panelPadding, y, x+panelPadding+inner, y+programLines*lineHeight+4)
		y = l.textBox.Max.Y + panelPadding
		buttonWidth := (inner - panelPadding) / 2
		l.execute = image.Rect(x+panelPadding, y, x+panelPadding+buttonWidth, y+lineHeight+6)
		l.clear = image.Rect(l.execute.Max.X+panelPadding, y, x+panelPadding+inner, y+lineHeight+6)
		y = l.execute.Max.Y + panelPadding
	}
	l.status = image.Point{X: x + panelPadding, Y: y}
	y += 2*lineHeight + panelPadding
	l.frame = image.Rect(x, p.origin.Y, x+panelWidth, y)
	return l
}

// update handles the panel's mouse and keyboard input. It returns true if the pointer is over the panel, so that
// the camera does not react to it.
func (p *panel) update(r *Renderer) bool {
	p.ticks++
	l := p.layout(r.mode)
	cursor := image.Pt(ebiten.CursorPosition())
	over := cursor.In(l.frame)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		p.focused = false
		switch {
		case cursor.In(l.radioArrows):
			r.setMode(modeArrows)
		case cursor.In(l.radioCode):
			r.setMode(modeGCode)
		case cursor.In(l.textBox):
			p.focused = true
			p.ticks = 0
		case cursor.In(l.execute):
			r.execute(p.text)
		case cursor.In(l.clear):
			r.clearQueue()
		}
	}
	if p.focused {
		p.updateText(r)
	}
	return over
}

func (p *panel) updateText(r *Renderer) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.focused = false
		return
	}
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		r.execute(p.text)
		return
	}
	if !ctrl {
		p.insert(string(ebiten.AppendInputChars(nil)))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		p.insert("\n")
	}
	if repeating(inpututil.KeyPressDuration(ebiten.KeyBackspace)) {
		p.backspace()
	}
}

// insert appends s to the text box, dropping whatever does not fit.
func (p *panel) insert(s string) {
	for _, c := range s {
		if c == '\r' || (c < ' ' && c != '\n' && c != '\t') {
			continue
		}
		if len(p.text)+len(string(c)) > maxProgramLen {
			return
		}
		p.text += string(c)
	}
	p.ticks = 0
}

// backspace removes the last rune of the text box.
func (p *panel) backspace() {
	if p.text == "" {
		return
	}
	runes := []rune(p.text)
	p.text = string(runes[:len(runes)-1])
	p.ticks = 0
}

// repeating reports whether a key held for the given number of ticks should fire this tick.
func repeating(duration int) bool {
	return duration == 1 || (duration >= keyRepeatDelay && duration%keyRepeatEvery == 0)
}

// visibleLines returns the last lines of the text that fit in the text box.
func visibleLines(s string, n int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

func (p *panel) draw(screen *ebiten.Image, r *Renderer) {
	l := p.layout(r.mode)
	fillRect(screen, l.frame, panelBackground)
	fillRect(screen, l.title, panelTitleBar)
	drawText(screen, "Control Panel", l.title.Min.X+panelPadding, l.title.Min.Y+3, panelText)
	drawText(screen, "Choose control mode:", l.label.X, l.label.Y, panelText)
	drawRadio(screen, l.radioArrows, "Arrow Keys", r.mode == modeArrows)
	drawRadio(screen, l.radioCode, "G-code", r.mode == modeGCode)

	if r.mode == modeGCode {
		fillRect(screen, l.textBox, panelWidget)
		if p.focused {
			strokeRect(screen, l.textBox, panelWidgetHot)
		}
		lines := visibleLines(p.text, programLines)
		if p.focused && (p.ticks/30)%2 == 0 {
			lines[len(lines)-1] += "_"
		}
		if p.text == "" && !p.focused {
			drawText(screen, "G1 X2 Y1 Z0 ...", l.textBox.Min.X+3, l.textBox.Min.Y+2, panelDimText)
		} else {
			drawText(screen, strings.Join(lines, "\n"), l.textBox.Min.X+3, l.textBox.Min.Y+2, panelText)
		}
		drawButton(screen, l.execute, "Execute")
		drawButton(screen, l.clear, "Clear")
	}

	pos := r.motion.Position()
	status := fmt.Sprintf("Light: (%.2f, %.2f, %.2f)\nPending: %d", pos.X, pos.Y, pos.Z, r.motion.Len())
	if p.status != "" {
		status += "  " + p.status
	}
	drawText(screen, status, l.status.X, l.status.Y, panelDimText)
}

// setMode switches who drives the light. The queue is kept: it resumes when switching back to G-code.
func (r *Renderer) setMode(mode controlMode) {
	if r.mode == mode {
		return
	}
	r.mode = mode
	log.Println("[LightUI] Control mode:", mode)
}

// execute queues the moves of a G-code program and switches to G-code mode.
func (r *Renderer) execute(program string) {
	n := r.motion.Execute(program)
	r.panel.status = fmt.Sprintf("(+%d)", n)
	r.setMode(modeGCode)
	r.saveSession()
}

func (r *Renderer) clearQueue() {
	r.motion.Clear()
	r.panel.status = "(cleared)"
}

//-----------------------------------------------------------------------------
// DRAWING HELPERS
//-----------------------------------------------------------------------------

func fillRect(dst *ebiten.Image, rect image.Rectangle, clr color.Color) {
	vector.DrawFilledRect(dst, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), clr, false)
}

func strokeRect(dst *ebiten.Image, rect image.Rectangle, clr color.Color) {
	vector.StrokeRect(dst, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), 1, clr, false)
}

func drawRadio(dst *ebiten.Image, rect image.Rectangle, label string, selected bool) {
	radius := float32(rect.Dy()) / 2
	cx, cy := float32(rect.Min.X)+radius, float32(rect.Min.Y)+radius
	vector.DrawFilledCircle(dst, cx, cy, radius, panelWidget, true)
	if selected {
		vector.DrawFilledCircle(dst, cx, cy, radius/2, panelWidgetHot, true)
	}
	drawText(dst, label, rect.Min.X+rect.Dy()+panelPadding, rect.Min.Y+1, panelText)
}

func drawButton(dst *ebiten.Image, rect image.Rectangle, label string) {
	clr := panelWidget
	if image.Pt(ebiten.CursorPosition()).In(rect) {
		clr = panelWidgetHot
	}
	fillRect(dst, rect, clr)
	w, _ := text.Measure(label, defaultFont, lineHeight)
	drawText(dst, label, rect.Min.X+(rect.Dx()-int(w))/2, rect.Min.Y+3, panelText)
}

func drawText(dst *ebiten.Image, msg string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = lineHeight
	text.Draw(dst, msg, defaultFont, op)
}

func drawDefaultTextWithShadow(dst *ebiten.Image, msg string, x, y int, clr color.Color) {
	drawText(dst, msg, x+1, y+1, color.RGBA{A: 255})
	drawText(dst, msg, x, y, clr)
}
