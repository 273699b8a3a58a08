package scene

import (
	"math"

	"github.com/fogleman/fauxgl"
)

// pointLightShader lights textured geometry with a single point light: distance attenuation, lambert diffuse,
// phong specular scaled by a specular map, and a constant ambient term.
// Vertex positions must already be in world space (Matrix is projection * view).
type pointLightShader struct {
	Matrix     fauxgl.Matrix
	LightPos   fauxgl.Vector
	CamPos     fauxgl.Vector
	LightColor fauxgl.Color
	Diffuse    fauxgl.Texture
	Specular   fauxgl.Texture // Only the red channel is read
	Light      Lighting
}

func (shader *pointLightShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = shader.Matrix.MulPositionW(v.Position)
	return v
}

func (shader *pointLightShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	toLight := shader.LightPos.Sub(v.Position)
	dist := toLight.Length()
	inten := 1 / (shader.Light.AttenuationA*dist*dist + shader.Light.AttenuationB*dist + 1)

	normal := v.Normal.Normalize()
	diffuse := 0.
	specular := 0.
	if dist > 1e-12 {
		lightDir := toLight.MulScalar(1 / dist)
		diffuse = math.Max(normal.Dot(lightDir), 0)
		if diffuse > 0 {
			viewDir := shader.CamPos.Sub(v.Position).Normalize()
			// reflect(-lightDir, normal)
			reflectDir := lightDir.MulScalar(-1).Sub(normal.MulScalar(2 * normal.Dot(lightDir.MulScalar(-1))))
			specular = math.Pow(math.Max(viewDir.Dot(reflectDir), 0), shader.Light.Shininess) * shader.Light.SpecularStrength
		}
	}

	base := shader.Diffuse.BilinearSample(v.Texture.X, v.Texture.Y)
	specMap := shader.Specular.BilinearSample(v.Texture.X, v.Texture.Y)
	k := diffuse*inten + shader.Light.Ambient
	s := specMap.R * specular * inten
	return fauxgl.Color{
		R: clamp01((base.R*k + s) * shader.LightColor.R),
		G: clamp01((base.G*k + s) * shader.LightColor.G),
		B: clamp01((base.B*k + s) * shader.LightColor.B),
		A: clamp01(base.A * shader.LightColor.A),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
