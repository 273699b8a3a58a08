package ui

import (
	"math"

	"github.com/Yeicor/gcode-light-ui/internal"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func (r *Renderer) newRendererState() *internal.RendererState {
	s := &internal.RendererState{
		ResInv:   2,
		DrawGrid: true,
		DrawPath: true,
		DrawMap:  true,
	}
	resetCam3(s, r)
	return s
}

// resetCam3 restores the configured camera, or looks at the whole floor from 30º up if none was configured.
func resetCam3(s *internal.RendererState, r *Renderer) {
	if r.camDefault != nil {
		s.CamCenter = r.camDefault.CamCenter
		s.CamPitch = r.camDefault.CamPitch
		s.CamYaw = r.camDefault.CamYaw
		s.CamDist = r.camDefault.CamDist
		return
	}
	s.CamCenter = v3.Vec{}
	s.CamDist = r.sceneCfg.FloorScale * 2
	s.CamPitch = math.Pi / 6
	s.CamYaw = 0
}
