package ui

import (
	"image"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestLightKeysDelta(t *testing.T) {
	tests := []struct {
		keys []ebiten.Key
		want v3.Vec
	}{
		{nil, v3.Vec{}},
		{[]ebiten.Key{ebiten.KeyArrowUp}, v3.Vec{Z: -0.01}},
		{[]ebiten.Key{ebiten.KeyArrowDown}, v3.Vec{Z: 0.01}},
		{[]ebiten.Key{ebiten.KeyArrowLeft}, v3.Vec{X: -0.01}},
		{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyPageUp}, v3.Vec{X: 0.01, Y: 0.01}},
		{[]ebiten.Key{ebiten.KeyPageDown, ebiten.KeyArrowUp}, v3.Vec{Y: -0.01, Z: -0.01}},
	}
	for _, tt := range tests {
		pressed := func(k ebiten.Key) bool {
			for _, held := range tt.keys {
				if held == k {
					return true
				}
			}
			return false
		}
		if got := lightKeysDelta(pressed, 0.01); got != tt.want {
			t.Errorf("keys %v: got %v, want %v", tt.keys, got, tt.want)
		}
	}
}

func TestArrowKeysStayInBounds(t *testing.T) {
	r := NewRenderer()
	right := func(k ebiten.Key) bool { return k == ebiten.KeyArrowRight || k == ebiten.KeyPageDown }
	for i := 0; i < 1000; i++ {
		r.motion.Nudge(lightKeysDelta(right, r.motion.StepDistance()))
	}
	pos := r.motion.Position()
	if pos.X > 5 || pos.X < 4.98 || pos.Y != 0 {
		t.Fatal("the light should stop at the +X wall and on the floor", pos)
	}
	if r.motion.LastTarget() != pos {
		t.Fatal("manual moves with an empty queue update the last target", r.motion.LastTarget())
	}
}

func TestPanelInsert(t *testing.T) {
	p := newPanel()
	p.insert("G1 X1\r\nG1\x07 Y2")
	if p.text != "G1 X1\nG1 Y2" {
		t.Fatalf("got %q", p.text)
	}
	p.insert(strings.Repeat("a", 2*maxProgramLen))
	if len(p.text) != maxProgramLen {
		t.Fatal("text box overflow", len(p.text))
	}
}

func TestPanelBackspace(t *testing.T) {
	p := newPanel()
	p.backspace()
	p.text = "G1 X1º"
	p.backspace()
	if p.text != "G1 X1" {
		t.Fatalf("got %q", p.text)
	}
}

func TestKeyRepeat(t *testing.T) {
	var fired []int
	for d := 0; d <= keyRepeatDelay+keyRepeatEvery; d++ {
		if repeating(d) {
			fired = append(fired, d)
		}
	}
	if len(fired) < 2 || fired[0] != 1 || fired[1] < keyRepeatDelay {
		t.Fatal("unexpected repeats", fired)
	}
}

func TestVisibleLines(t *testing.T) {
	lines := visibleLines("a\nb\nc\nd", 2)
	if len(lines) != 2 || lines[0] != "c" || lines[1] != "d" {
		t.Fatal(lines)
	}
	if lines = visibleLines("", 2); len(lines) != 1 {
		t.Fatal(lines)
	}
}

func TestPanelLayout(t *testing.T) {
	p := newPanel()
	arrows := p.layout(modeArrows)
	if arrows.textBox != (image.Rectangle{}) || arrows.execute != (image.Rectangle{}) {
		t.Fatal("arrows mode has no text box")
	}
	code := p.layout(modeGCode)
	for _, rect := range []image.Rectangle{code.title, code.radioArrows, code.radioCode, code.textBox, code.execute, code.clear} {
		if !rect.In(code.frame) {
			t.Fatal("widget outside the panel", rect, code.frame)
		}
	}
	if code.radioArrows.Overlaps(code.radioCode) || code.execute.Overlaps(code.clear) {
		t.Fatal("overlapping widgets")
	}
}

func TestControlMode(t *testing.T) {
	for _, mode := range []controlMode{modeArrows, modeGCode} {
		if parseControlMode(mode.String()) != mode {
			t.Fatal("mode does not round trip", mode)
		}
	}
	if parseControlMode("bogus") != modeArrows {
		t.Fatal("unknown modes fall back to the arrow keys")
	}
}

func TestExecuteAndClear(t *testing.T) {
	r := NewRenderer()
	r.execute("G1 X1\nG1 Z1\nM3\n")
	if r.mode != modeGCode || r.motion.Len() != 2 {
		t.Fatal(r.mode, r.motion.Len())
	}
	r.setMode(modeArrows)
	if r.motion.Len() != 2 {
		t.Fatal("switching modes keeps the queue")
	}
	r.clearQueue()
	if !r.motion.Idle() {
		t.Fatal("clear empties the queue")
	}
}

func TestDrainPrograms(t *testing.T) {
	r := NewRenderer()
	r.programs <- "G0 X1"
	r.programs <- "G0 Z1"
	r.drainPrograms()
	if r.motion.Len() != 2 || r.panel.text != "G0 Z1" || r.mode != modeGCode {
		t.Fatal(r.motion.Len(), r.panel.text, r.mode)
	}
}
