// Package motion keeps the light's pending targets and walks the light toward them, one frame at a time.
package motion

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultStep is the per-frame displacement used when a controller is given an unusable step.
const DefaultStep = 0.01

// arriveTolerance is relative to the distance of the current segment. Positions are recomputed from the
// segment start and the step count, so the only rounding to absorb is a single multiplication, and a
// target at distance D is reached after exactly ceil(D/step) steps.
const arriveTolerance = 1e-12

// Controller owns the motion queue and the current position. It is not safe for concurrent use: only the
// frame loop should call it.
type Controller struct {
	bounds sdf.Box3 // Every queued target and every manual move stays inside
	step   float64  // Maximum displacement per Step
	queue  []v3.Vec // Pending targets (head at index 0)
	pos    v3.Vec   // The live position
	last   v3.Vec   // The base for omitted axes: queue tail, or the last reached/manual position

	// Current segment, toward the head of the queue
	segFrom  v3.Vec
	segSteps int
	segOn    bool
}

// NewController creates a controller resting at origin (clamped into bounds).
// A step that is not a positive finite number is replaced by DefaultStep.
func NewController(origin v3.Vec, bounds sdf.Box3, step float64) *Controller {
	if !(step > 0) || math.IsInf(step, 1) {
		step = DefaultStep
	}
	c := &Controller{bounds: bounds, step: step}
	c.pos = c.Clamp(origin)
	c.last = c.pos
	return c
}

// Bounds returns the box that every target is clamped into.
func (c *Controller) Bounds() sdf.Box3 {
	return c.bounds
}

// StepDistance returns the per-frame maximum displacement.
func (c *Controller) StepDistance() float64 {
	return c.step
}

// Position returns the live position.
func (c *Controller) Position() v3.Vec {
	return c.pos
}

// LastTarget returns the point that omitted axes of the next command inherit from.
func (c *Controller) LastTarget() v3.Vec {
	return c.last
}

// Pending returns the queued targets in processing order. The slice is the live queue: callers must not
// modify it, and must copy it before keeping it past the next call to the controller.
func (c *Controller) Pending() []v3.Vec {
	return c.queue
}

// Len is the number of queued targets.
func (c *Controller) Len() int {
	return len(c.queue)
}

// Idle reports whether there is nothing left to move toward.
func (c *Controller) Idle() bool {
	return len(c.queue) == 0
}

// Clamp moves p inside the bounding box, axis by axis.
func (c *Controller) Clamp(p v3.Vec) v3.Vec {
	return v3.Vec{
		X: clamp(p.X, c.bounds.Min.X, c.bounds.Max.X),
		Y: clamp(p.Y, c.bounds.Min.Y, c.bounds.Max.Y),
		Z: clamp(p.Z, c.bounds.Min.Z, c.bounds.Max.Z),
	}
}

// Push clamps p and appends it to the queue. It becomes the base for the next command.
func (c *Controller) Push(p v3.Vec) v3.Vec {
	p = c.Clamp(p)
	c.queue = append(c.queue, p)
	c.last = p
	return p
}

// Step advances the live position by at most one step toward the head of the queue. When the head is
// within one step it is reached exactly and removed. It reports whether the position changed.
func (c *Controller) Step() bool {
	if len(c.queue) == 0 {
		return false
	}
	head := c.queue[0]
	if !c.segOn {
		c.segFrom, c.segSteps, c.segOn = c.pos, 0, true
	}
	delta := head.Sub(c.segFrom)
	dist := delta.Length()
	c.segSteps++
	if traveled := float64(c.segSteps) * c.step; traveled < dist*(1-arriveTolerance) {
		c.pos = c.segFrom.Add(delta.MulScalar(traveled / dist))
		return true
	}
	moved := c.pos != head
	c.pos = head
	c.segOn = false
	c.queue = c.queue[1:]
	if len(c.queue) == 0 {
		c.queue = nil // Release the backing array of long programs
	}
	return moved
}

// Nudge moves the live position by delta, axis by axis, skipping any axis whose result would leave the
// bounding box. With nothing queued, the new position also becomes the base for the next command.
func (c *Controller) Nudge(delta v3.Vec) bool {
	next := c.pos
	if x := c.pos.X + delta.X; delta.X != 0 && x >= c.bounds.Min.X && x <= c.bounds.Max.X {
		next.X = x
	}
	if y := c.pos.Y + delta.Y; delta.Y != 0 && y >= c.bounds.Min.Y && y <= c.bounds.Max.Y {
		next.Y = y
	}
	if z := c.pos.Z + delta.Z; delta.Z != 0 && z >= c.bounds.Min.Z && z <= c.bounds.Max.Z {
		next.Z = z
	}
	moved := next != c.pos
	c.pos = next
	c.segOn = false
	if len(c.queue) == 0 {
		c.last = c.pos
	}
	return moved
}

// Clear drops every pending target and stops the light where it is.
func (c *Controller) Clear() {
	c.queue = nil
	c.segOn = false
	c.last = c.pos
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
