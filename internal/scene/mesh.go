package scene

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/fogleman/fauxgl"
)

// gridLift keeps the coordinate lines above the floor so they do not fight it in the depth buffer.
const gridLift = 1e-3

// floorMesh is the unit quad of the XZ plane scaled by scale, with texture coordinates covering [0, 1]
// once and normals pointing up.
func floorMesh(scale float64) *fauxgl.Mesh {
	up := fauxgl.Vector{Y: 1}
	vertex := func(x, z, u, v float64) fauxgl.Vertex {
		return fauxgl.Vertex{
			Position: fauxgl.Vector{X: x * scale, Z: z * scale},
			Normal:   up,
			Texture:  fauxgl.Vector{X: u, Y: v},
			Color:    fauxgl.Gray(1),
		}
	}
	corners := [4]fauxgl.Vertex{
		vertex(-1, 1, 0, 0),
		vertex(-1, -1, 0, 1),
		vertex(1, -1, 1, 1),
		vertex(1, 1, 1, 0),
	}
	return fauxgl.NewTriangleMesh([]*fauxgl.Triangle{
		{V1: corners[0], V2: corners[1], V3: corners[2]},
		{V1: corners[0], V2: corners[2], V3: corners[3]},
	})
}

// gridLines are the coordinate lines drawn every unit over [-scale, scale] on the floor.
func gridLines(scale float64) []*fauxgl.Line {
	var lines []*fauxgl.Line
	for i := -scale; i <= scale; i++ {
		lines = append(lines,
			newLine(v3.Vec{X: i, Y: gridLift, Z: -scale}, v3.Vec{X: i, Y: gridLift, Z: scale}),
			newLine(v3.Vec{X: -scale, Y: gridLift, Z: i}, v3.Vec{X: scale, Y: gridLift, Z: i}))
	}
	return lines
}

// pathLines joins the light with every queued target, in order.
func pathLines(from v3.Vec, targets []v3.Vec) []*fauxgl.Line {
	lines := make([]*fauxgl.Line, 0, len(targets))
	for _, to := range targets {
		lines = append(lines, newLine(from, to))
		from = to
	}
	return lines
}

// lightMesh builds the cube that marks the light, centered at the origin, by meshing a rounded box.
func lightMesh(size float64, meshGenerator render.Render3) (*fauxgl.Mesh, error) {
	box, err := sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, size/10)
	if err != nil {
		return nil, fmt.Errorf("light marker: %w", err)
	}
	var triangles []*fauxgl.Triangle
	triChan := make(chan []*render.Triangle3)
	go func() {
		meshGenerator.Render(box, triChan)
		close(triChan)
	}()
	for tris := range triChan {
		for _, tri := range tris {
			triangles = append(triangles, convertTriangle(tri))
		}
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("light marker: the mesh generator produced no triangles")
	}
	return fauxgl.NewTriangleMesh(triangles), nil
}

func convertTriangle(tri *render.Triangle3) *fauxgl.Triangle {
	normal := toFauxglVector(tri.Normal())
	return &fauxgl.Triangle{
		V1: fauxgl.Vertex{Position: toFauxglVector(tri.V[0]), Normal: normal, Color: fauxgl.Gray(1)},
		V2: fauxgl.Vertex{Position: toFauxglVector(tri.V[1]), Normal: normal, Color: fauxgl.Gray(1)},
		V3: fauxgl.Vertex{Position: toFauxglVector(tri.V[2]), Normal: normal, Color: fauxgl.Gray(1)},
	}
}

func newLine(from, to v3.Vec) *fauxgl.Line {
	return &fauxgl.Line{
		V1: fauxgl.Vertex{Position: toFauxglVector(from), Color: fauxgl.Gray(1)},
		V2: fauxgl.Vertex{Position: toFauxglVector(to), Color: fauxgl.Gray(1)},
	}
}

func toFauxglVector(v v3.Vec) fauxgl.Vector {
	return fauxgl.Vector{X: v.X, Y: v.Y, Z: v.Z}
}
