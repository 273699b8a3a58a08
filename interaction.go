package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// onUpdateInputs handles inputs
func (r *Renderer) onUpdateInputs() {
	captured := r.panel.update(r)
	if !r.panel.focused {
		r.onUpdateInputsCommon()
		if r.mode == modeArrows {
			r.onUpdateInputsLight()
		}
	}
	r.onUpdateInputsCamera(captured)
}

func (r *Renderer) onUpdateInputsCommon() {
	if inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) || inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		r.implState.ResInv /= 2
		if r.implState.ResInv < 1 {
			r.implState.ResInv = 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) || inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		r.implState.ResInv *= 2
		if r.implState.ResInv > 16 {
			r.implState.ResInv = 16
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		r.implState.DrawGrid = !r.implState.DrawGrid
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		r.implState.DrawPath = !r.implState.DrawPath
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		r.implState.DrawMap = !r.implState.DrawMap
	}
	// Reset camera transform
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		resetCam3(r.implState, r)
	}
}

// onUpdateInputsLight moves the light while the arrow keys (X and Z) or page keys (Y) are held.
func (r *Renderer) onUpdateInputsLight() {
	r.motion.Nudge(lightKeysDelta(ebiten.IsKeyPressed, r.motion.StepDistance()))
}

// lightKeysDelta is the displacement requested by the held keys for this frame.
func lightKeysDelta(pressed func(ebiten.Key) bool, speed float64) v3.Vec {
	var delta v3.Vec
	if pressed(ebiten.KeyArrowUp) {
		delta.Z = -speed
	}
	if pressed(ebiten.KeyArrowDown) {
		delta.Z = speed
	}
	if pressed(ebiten.KeyArrowLeft) {
		delta.X = -speed
	}
	if pressed(ebiten.KeyArrowRight) {
		delta.X = speed
	}
	if pressed(ebiten.KeyPageUp) {
		delta.Y = speed
	}
	if pressed(ebiten.KeyPageDown) {
		delta.Y = -speed
	}
	return delta
}

// onUpdateInputsCamera orbits the camera while dragging with the middle mouse button (or Alt + left button),
// pans while also holding Shift and zooms with the wheel. Nothing starts over the panel.
func (r *Renderer) onUpdateInputsCamera(pointerCaptured bool) {
	_, wheelUpDown := ebiten.Wheel()
	if wheelUpDown != 0 && !pointerCaptured {
		scale := math.Pow(r.zoomFactor, -wheelUpDown)
		r.implState.CamDist = math.Max(0.5, math.Min(100, r.implState.CamDist*scale))
	}
	cx, cy := ebiten.CursorPosition()
	altDown := ebiten.IsKeyPressed(ebiten.KeyAlt)
	dragStart := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) ||
		(altDown && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft))
	if dragStart && !pointerCaptured {
		r.dragging = true
		r.dragFrom = image.Point{X: cx, Y: cy}
	}
	if !r.dragging {
		return
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) && !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		r.dragging = false
		return
	}
	delta := image.Point{X: cx, Y: cy}.Sub(r.dragFrom)
	r.dragFrom = image.Point{X: cx, Y: cy}
	if delta == (image.Point{}) {
		return
	}
	if ebiten.IsKeyPressed(ebiten.KeyShift) { // Translation
		k := r.implState.CamDist / 400
		r.implState.Pan(-float64(delta.X)*k, float64(delta.Y)*k)
	} else { // Rotation
		r.implState.Orbit(-float64(delta.X)/200, float64(delta.Y)/200)
	}
}

// drawUI draws the control panel and the key help.
func (r *Renderer) drawUI(screen *ebiten.Image) {
	r.panel.draw(screen, r)

	msgFmt := "TPS: %0.2f\nResolution: %.2f [+/-]\nGrid: %t [G]\nPath: %t [P]\nMap: %t [M]\nReset camera [R]\n" +
		"Rotate cam [MiddleMouse or Alt+LeftMouse]\nTranslate cam [Shift+Rotate]\nZoom cam [MouseWheel]"
	if r.mode == modeArrows {
		msgFmt += "\nMove light [Arrows, PageUp/PageDown]"
	}
	msg := fmt.Sprintf(msgFmt, ebiten.ActualTPS(), 1/float64(r.implState.ResInv),
		r.implState.DrawGrid, r.implState.DrawPath, r.implState.DrawMap)
	_, h := text.Measure(msg, defaultFont, lineHeight)
	drawDefaultTextWithShadow(screen, msg, 5, r.screenSize.Y-int(h)-5, color.RGBA{G: 255, A: 255})
}
