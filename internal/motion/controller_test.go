package motion

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func testBounds() sdf.Box3 {
	return sdf.Box3{Min: v3.Vec{X: -5, Y: 0, Z: -5}, Max: v3.Vec{X: 5, Y: 2, Z: 5}}
}

func TestExecuteTwoMoves(t *testing.T) {
	c := NewController(v3.Vec{}, testBounds(), 0.01)
	if n := c.Execute("G1 X2 Y0 Z0\nG1 X2 Y0 Z3"); n != 2 {
		t.Fatalf("expected 2 queued targets, got %d", n)
	}
	pending := c.Pending()
	want := []v3.Vec{{X: 2, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 3}}
	if len(pending) != len(want) {
		t.Fatalf("expected %d pending targets, got %d", len(want), len(pending))
	}
	for i := range want {
		if pending[i] != want[i] {
			t.Errorf("target %d: expected %v, got %v", i, want[i], pending[i])
		}
		if pending[i].Y < 0 || pending[i].Y > 2 {
			t.Errorf("target %d: Y=%v outside [0, 2]", i, pending[i].Y)
		}
	}
}

func TestExecuteClampsToNearestBound(t *testing.T) {
	c := NewController(v3.Vec{}, testBounds(), 0.01)
	c.Execute("G0 X100 Y-3 Z-7.5")
	got := c.Pending()[0]
	want := v3.Vec{X: 5, Y: 0, Z: -5}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !c.Bounds().Contains(got) {
		t.Fatalf("%v is outside the bounds", got)
	}
}

func TestExecuteInheritsLastTargetNotPosition(t *testing.T) {
	c := NewController(v3.Vec{}, testBounds(), 0.5)
	c.Execute("G1 X4 Y1 Z-2")
	c.Step() // The light is now somewhere between the origin and the first target
	if c.Position() == (v3.Vec{}) {
		t.Fatal("expected the light to have moved")
	}
	c.Execute("G1 Z3")
	got := c.Pending()[1]
	want := v3.Vec{X: 4, Y: 1, Z: 3}
	if got != want {
		t.Fatalf("expected omitted axes from the last target %v, got %v", want, got)
	}
}

func TestExecuteIgnoresOtherLines(t *testing.T) {
	c := NewController(v3.Vec{}, testBounds(), 0.01)
	n := c.Execute("M3 S1000\n\n; comment only\nG28\nG2 X1 Y1\nG1 X1\nhello world\n")
	if n != 1 || c.Len() != 1 {
		t.Fatalf("expected a single queued target, got %d (len %d)", n, c.Len())
	}
}

func TestStepCountAndExactArrival(t *testing.T) {
	cases := []struct {
		target v3.Vec
		step   float64
	}{
		{v3.Vec{X: 1}, 0.25},
		{v3.Vec{X: 1}, 0.3},
		{v3.Vec{X: 3, Y: 0, Z: 4}, 0.5},
		{v3.Vec{X: -2, Y: 1, Z: 2}, 0.01},
		{v3.Vec{X: 1}, 0.1},
		{v3.Vec{X: 1}, 0.01},
		{v3.Vec{X: 0.5000000005}, 0.5}, // Just above a multiple of the step
	}
	for _, tc := range cases {
		c := NewController(v3.Vec{}, testBounds(), tc.step)
		c.Push(tc.target)
		want := int(math.Ceil(tc.target.Length() / tc.step))
		steps := 0
		for !c.Idle() {
			c.Step()
			steps++
			if steps > want+10 {
				break
			}
		}
		if steps != want {
			t.Errorf("target %v step %v: expected %d steps, got %d", tc.target, tc.step, want, steps)
		}
		if c.Position() != tc.target {
			t.Errorf("target %v step %v: expected exact arrival, got %v", tc.target, tc.step, c.Position())
		}
	}
}

func TestStepNeverOvershoots(t *testing.T) {
	c := NewController(v3.Vec{}, testBounds(), 0.07)
	target := v3.Vec{X: 1, Y: 1, Z: 1}
	c.Push(target)
	prev := target.Sub(c.Position()).Length()
	for !c.Idle() {
		c.Step()
		dist := target.Sub(c.Position()).Length()
		if dist > prev {
			t.Fatalf("distance grew from %v to %v", prev, dist)
		}
		prev = dist
	}
}

func TestStepEmptyQueueKeepsPosition(t *testing.T) {
	origin := v3.Vec{X: 1, Y: 0.5, Z: -1}
	c := NewController(origin, testBounds(), 0.01)
	for i := 0; i < 100; i++ {
		if c.Step() {
			t.Fatal("Step reported movement with an empty queue")
		}
	}
	if c.Position() != origin {
		t.Fatalf("expected %v, got %v", origin, c.Position())
	}
}

func TestStepProcessesQueueInOrder(t *testing.T) {
	c := NewController(v3.Vec{}, testBounds(), 1)
	c.Execute("G0 X1\nG0 X1 Z1\nG0 X0 Z1")
	var reached []v3.Vec
	for !c.Idle() {
		before := c.Len()
		c.Step()
		if c.Len() < before {
			reached = append(reached, c.Position())
		}
	}
	want := []v3.Vec{{X: 1}, {X: 1, Z: 1}, {Z: 1}}
	for i := range want {
		if reached[i] != want[i] {
			t.Errorf("arrival %d: expected %v, got %v", i, want[i], reached[i])
		}
	}
}

func TestNudgeRespectsBounds(t *testing.T) {
	c := NewController(v3.Vec{X: 4.995}, testBounds(), 0.01)
	c.Nudge(v3.Vec{X: 0.01, Y: -0.01, Z: 0.01})
	got := c.Position()
	if got.X != 4.995 {
		t.Errorf("X should not leave the box, got %v", got.X)
	}
	if got.Y != 0 {
		t.Errorf("Y should not go below the floor, got %v", got.Y)
	}
	if got.Z != 0.01 {
		t.Errorf("Z should move, got %v", got.Z)
	}
	if c.LastTarget() != got {
		t.Errorf("with an empty queue the manual position is the next base, got %v", c.LastTarget())
	}
}

func TestNudgeKeepsQueuedBase(t *testing.T) {
	c := NewController(v3.Vec{}, testBounds(), 0.01)
	c.Execute("G1 X2 Y1")
	c.Nudge(v3.Vec{Z: 0.5})
	if c.LastTarget() != (v3.Vec{X: 2, Y: 1}) {
		t.Fatalf("expected the queued tail as base, got %v", c.LastTarget())
	}
}

func TestClear(t *testing.T) {
	c := NewController(v3.Vec{}, testBounds(), 0.25)
	c.Execute("G1 X2\nG1 Z2")
	c.Step()
	c.Clear()
	if !c.Idle() {
		t.Fatal("expected an empty queue")
	}
	if c.LastTarget() != c.Position() {
		t.Fatalf("expected the base to be the stopped position %v, got %v", c.Position(), c.LastTarget())
	}
}

func TestNewControllerClampsOrigin(t *testing.T) {
	c := NewController(v3.Vec{X: -9, Y: 9}, testBounds(), 0)
	if c.Position() != (v3.Vec{X: -5, Y: 2}) {
		t.Fatalf("expected clamped origin, got %v", c.Position())
	}
	if c.StepDistance() <= 0 {
		t.Fatal("step distance must stay positive")
	}
}

func TestNewControllerFallsBackToDefaultStep(t *testing.T) {
	for _, step := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		c := NewController(v3.Vec{}, testBounds(), step)
		if c.StepDistance() != DefaultStep {
			t.Errorf("step %v: expected %v, got %v", step, DefaultStep, c.StepDistance())
			continue
		}
		c.Push(v3.Vec{X: 1})
		for i := 0; i < 100; i++ {
			c.Step()
		}
		if !c.Idle() || c.Position() != (v3.Vec{X: 1}) {
			t.Errorf("step %v: expected arrival after 100 steps, got %v", step, c.Position())
		}
	}
}

func TestStepResumesAfterNudge(t *testing.T) {
	c := NewController(v3.Vec{}, testBounds(), 0.25)
	target := v3.Vec{X: 1}
	c.Push(target)
	c.Step()
	c.Nudge(v3.Vec{Z: 0.5})
	prev := target.Sub(c.Position()).Length()
	for steps := 0; !c.Idle(); steps++ {
		if steps > 10 {
			t.Fatal("the light never arrived")
		}
		c.Step()
		dist := target.Sub(c.Position()).Length()
		if dist > prev {
			t.Fatalf("distance grew from %v to %v", prev, dist)
		}
		prev = dist
	}
	if c.Position() != target {
		t.Fatalf("expected exact arrival, got %v", c.Position())
	}
}
