package internal

import (
	"context"
	"image"
	"math"
	"sync"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// RendererState holds the view settings that the user changes at runtime.
type RendererState struct {
	ResInv   int  // Screen pixels for each rendered pixel
	DrawGrid bool // Whether to draw the coordinate lines over the floor
	DrawPath bool // Whether to draw the queued targets as a polyline
	DrawMap  bool // Whether to draw the top-down minimap
	// Arc-ball camera
	CamCenter                 v3.Vec  // The point we are looking at
	CamYaw, CamPitch, CamDist float64 // Rotation angles around CamCenter (Y is UP) and distance from it
}

// CamMatrixNoTranslation is the rotation that takes the default camera offset (Z+) to the current one.
func (s *RendererState) CamMatrixNoTranslation() sdf.M44 {
	return sdf.RotateY(s.CamYaw).Mul(sdf.RotateX(-s.CamPitch))
}

// CamPosition is the eye position of the arc-ball camera.
func (s *RendererState) CamPosition() v3.Vec {
	return s.CamCenter.Add(s.CamMatrixNoTranslation().MulPosition(v3.Vec{Z: s.CamDist}))
}

// Orbit rotates the camera around its center, wrapping the yaw and keeping the pitch away from the poles.
func (s *RendererState) Orbit(dYaw, dPitch float64) {
	s.CamYaw += dYaw
	if s.CamYaw < -math.Pi {
		s.CamYaw += 2 * math.Pi
	} else if s.CamYaw > math.Pi {
		s.CamYaw -= 2 * math.Pi
	}
	s.CamPitch = math.Max(-(math.Pi/2 - 1e-5), math.Min(math.Pi/2-1e-5, s.CamPitch+dPitch))
}

// Pan moves the camera center on the plane perpendicular to the view direction.
func (s *RendererState) Pan(right, up float64) {
	camDir := s.CamCenter.Sub(s.CamPosition()).Normalize()
	planeRight := camDir.Cross(v3.Vec{Y: 1}).Normalize()
	planeUp := planeRight.Cross(camDir).Normalize()
	s.CamCenter = s.CamCenter.Add(planeRight.MulScalar(right)).Add(planeUp.MulScalar(up))
}

// FrameState is everything the scene renderer needs for one frame. It is a detached copy: the frame loop keeps
// mutating its own values while a render is in flight.
type FrameState struct {
	State   RendererState
	Light   v3.Vec   // Current light position
	Pending []v3.Vec // Queued targets, in order
	Bounds  sdf.Box3 // The box that targets are clamped into
}

// RenderArgs is the input of a single render.
type RenderArgs struct {
	Ctx              context.Context
	Frame            *FrameState
	CachedRenderLock *sync.RWMutex
	FullRender       *image.NRGBA
}
