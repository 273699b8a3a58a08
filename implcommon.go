package ui

import (
	"context"
	"errors"
	"image"
	"log"
	"time"

	"github.com/Yeicor/gcode-light-ui/internal"
	"github.com/Yeicor/gcode-light-ui/internal/scene"
	"github.com/barkimedes/go-deepcopy"
	"github.com/hajimehoshi/ebiten/v2"
)

const minimapSize = 140

// snapshotFrame deep-copies everything the rasterizer needs (including the live motion queue), so that the
// frame loop can keep moving the light while the frame is drawn in the background.
func (r *Renderer) snapshotFrame() *internal.FrameState {
	return deepcopy.MustAnything(&internal.FrameState{
		State:   *r.implState,
		Light:   r.motion.Position(),
		Pending: r.motion.Pending(),
		Bounds:  r.motion.Bounds(),
	}).(*internal.FrameState)
}

// triggerRender starts rasterizing the current frame in the background, unless the previous one is still
// being rasterized (in which case this frame is skipped and the last finished one stays on screen).
func (r *Renderer) triggerRender() {
	renderSize := r.renderSize()
	if renderSize.X <= 0 || renderSize.Y <= 0 {
		return
	}
	ctx, cancelFunc := context.WithTimeout(r.renderCtx, time.Millisecond)
	locked := r.renderingLock.TryLock(ctx)
	cancelFunc()
	if !locked {
		return
	}
	frame := r.snapshotFrame()
	r.cachedRenderLock.Lock()
	if r.fullRender == nil || r.fullRender.Bounds().Size() != renderSize {
		r.fullRender = image.NewNRGBA(image.Rectangle{Max: renderSize})
	}
	fullRender := r.fullRender
	r.cachedRenderLock.Unlock()
	go func() {
		defer r.renderingLock.Unlock()
		err := r.scene.Render(&internal.RenderArgs{
			Ctx:              r.renderCtx,
			Frame:            frame,
			CachedRenderLock: r.cachedRenderLock,
			FullRender:       fullRender,
		})
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Println("[LightUI] Render error:", err)
			}
			return
		}
		r.cachedRenderLock.Lock()
		r.fullRenderDirty = true
		r.cachedRenderLock.Unlock()
	}()
}

// renderSize is the size of the rasterized image: the screen divided by ResInv.
func (r *Renderer) renderSize() image.Point {
	return r.screenSize.Div(r.implState.ResInv)
}

// drawScene uploads the last finished frame if needed and stretches it over the whole screen.
func (r *Renderer) drawScene(screen *ebiten.Image) {
	r.cachedRenderLock.Lock()
	if r.fullRender != nil && r.fullRenderDirty {
		size := r.fullRender.Bounds().Size()
		if r.cachedRender == nil || r.cachedRender.Bounds().Size() != size {
			if r.cachedRender != nil {
				r.cachedRender.Deallocate()
			}
			r.cachedRender = ebiten.NewImage(size.X, size.Y)
		}
		r.cachedRender.WritePixels(r.fullRender.Pix)
		r.fullRenderDirty = false
	}
	r.cachedRenderLock.Unlock()
	if r.cachedRender == nil {
		return
	}
	drawImageOptions := &ebiten.DrawImageOptions{}
	renderSize := r.cachedRender.Bounds().Size()
	screenSize := screen.Bounds().Size()
	drawImageOptions.GeoM.Scale(float64(screenSize.X)/float64(renderSize.X), float64(screenSize.Y)/float64(renderSize.Y))
	drawImageOptions.Filter = ebiten.FilterLinear
	screen.DrawImage(r.cachedRender, drawImageOptions)
}

// drawMinimap draws the top-down view at the bottom-right corner.
func (r *Renderer) drawMinimap(screen *ebiten.Image) {
	if !r.implState.DrawMap {
		return
	}
	if r.minimap == nil {
		r.minimap = image.NewRGBA(image.Rect(0, 0, minimapSize, minimapSize))
		r.minimapImg = ebiten.NewImage(minimapSize, minimapSize)
	}
	scene.DrawMinimap(r.minimap, r.motion.Bounds(), r.motion.Position(), r.motion.Pending())
	r.minimapImg.WritePixels(r.minimap.Pix)
	drawImageOptions := &ebiten.DrawImageOptions{}
	screenSize := screen.Bounds().Size()
	drawImageOptions.GeoM.Translate(float64(screenSize.X-minimapSize-10), float64(screenSize.Y-minimapSize-10))
	screen.DrawImage(r.minimapImg, drawImageOptions)
}
