package scene

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/fauxgl"
)

// LoadTextures loads the diffuse and specular maps of the floor from image files.
func LoadTextures(diffusePath, specularPath string) (diffuse, specular fauxgl.Texture, err error) {
	diffuse, err = fauxgl.LoadTexture(diffusePath)
	if err != nil {
		return nil, nil, fmt.Errorf("diffuse texture %q: %w", diffusePath, err)
	}
	specular, err = fauxgl.LoadTexture(specularPath)
	if err != nil {
		return nil, nil, fmt.Errorf("specular texture %q: %w", specularPath, err)
	}
	return diffuse, specular, nil
}

// PlankTextures generates a wooden planks diffuse map and its matching specular map (shiny boards, dull seams).
func PlankTextures(size int) (diffuse, specular fauxgl.Texture) {
	if size < 8 {
		size = 8
	}
	diff := image.NewNRGBA(image.Rect(0, 0, size, size))
	spec := image.NewNRGBA(image.Rect(0, 0, size, size))
	const boards = 8
	boardWidth := float64(size) / boards
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			board := int(float64(x) / boardWidth)
			inBoard := math.Mod(float64(x), boardWidth) / boardWidth
			// Boards are split in two staggered planks along V
			plankOffset := 0.
			if board%2 == 1 {
				plankOffset = 0.5
			}
			alongV := math.Mod(float64(y)/float64(size)+plankOffset, 0.5) / 0.5
			seam := inBoard < 0.04 || inBoard > 0.96 || alongV < 0.01 || alongV > 0.99
			tone := 0.85 + 0.15*math.Sin(float64(board)*2.3+float64(y/(size/2))*1.7)
			grain := 0.9 + 0.1*math.Sin(inBoard*40+math.Sin(float64(y)*0.05+float64(board))*3)
			k := tone * grain
			if seam {
				k *= 0.35
			}
			diff.SetNRGBA(x, y, color.NRGBA{
				R: uint8(clamp01(0.72*k) * 255),
				G: uint8(clamp01(0.50*k) * 255),
				B: uint8(clamp01(0.30*k) * 255),
				A: 255,
			})
			shine := uint8(clamp01(0.6*grain) * 255)
			if seam {
				shine = 10
			}
			spec.SetNRGBA(x, y, color.NRGBA{R: shine, G: shine, B: shine, A: 255})
		}
	}
	return fauxgl.NewImageTexture(diff), fauxgl.NewImageTexture(spec)
}
