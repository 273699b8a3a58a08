package ui

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// rendererEbitenGame hides the private ebiten implementation while behaving like a *Renderer internally
type rendererEbitenGame struct {
	*Renderer
}

func (r rendererEbitenGame) Update() error {
	select {
	case sig := <-r.done:
		log.Printf("[LightUI] Received %s, shutting down", sig)
		return ebiten.Termination
	default:
	}
	r.drainPrograms()
	r.onUpdateInputs()
	if r.mode == modeGCode {
		r.motion.Step()
	}
	r.triggerRender()
	return nil
}

func (r rendererEbitenGame) Draw(screen *ebiten.Image) {
	r.drawScene(screen)
	r.drawMinimap(screen)
	r.drawUI(screen)
}

func (r rendererEbitenGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	r.screenSize.X, r.screenSize.Y = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight // Use all available pixels, no re-scaling (unless ResInv is modified)
}
