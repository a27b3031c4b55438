package geometry

// Geometry is an indexed triangle mesh with per-vertex position, normal and
// texture coordinate.
type Geometry struct {
	Positions []float32 // xyz
	Normals   []float32 // xyz
	UVs       []float32 // uv
	Indices   []uint32
}

// FloatsPerVertex is the stride of Interleave, in floats.
const FloatsPerVertex = 8

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// Position returns vertex i's position.
func (g *Geometry) Position(i int) [3]float32 {
	return [3]float32{g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2]}
}

// UV returns vertex i's texture coordinate.
func (g *Geometry) UV(i int) [2]float32 {
	return [2]float32{g.UVs[i*2], g.UVs[i*2+1]}
}

// Interleave packs position, normal, uv per vertex for a single VBO.
func (g *Geometry) Interleave() []float32 {
	n := g.VertexCount()
	out := make([]float32, 0, n*FloatsPerVertex)
	for i := 0; i < n; i++ {
		out = append(out, g.Positions[i*3:i*3+3]...)
		out = append(out, g.Normals[i*3:i*3+3]...)
		out = append(out, g.UVs[i*2:i*2+2]...)
	}
	return out
}

// Plane builds a width x height plane in the XY plane centered on the origin,
// facing +Z, subdivided into widthSegments x heightSegments quads. Rows run
// top to bottom; uv (0,1) is the top-left corner. Segment counts below one are
// treated as one.
func Plane(width, height float32, widthSegments, heightSegments int) *Geometry {
	gridX := max(widthSegments, 1)
	gridY := max(heightSegments, 1)
	gridX1 := gridX + 1
	gridY1 := gridY + 1

	halfW := width / 2
	halfH := height / 2
	segW := width / float32(gridX)
	segH := height / float32(gridY)

	n := gridX1 * gridY1
	g := &Geometry{
		Positions: make([]float32, 0, n*3),
		Normals:   make([]float32, 0, n*3),
		UVs:       make([]float32, 0, n*2),
		Indices:   make([]uint32, 0, gridX*gridY*6),
	}

	for iy := 0; iy < gridY1; iy++ {
		y := float32(iy)*segH - halfH
		for ix := 0; ix < gridX1; ix++ {
			x := float32(ix)*segW - halfW
			g.Positions = append(g.Positions, x, -y, 0)
			g.Normals = append(g.Normals, 0, 0, 1)
			g.UVs = append(g.UVs, float32(ix)/float32(gridX), 1-float32(iy)/float32(gridY))
		}
	}

	for iy := 0; iy < gridY; iy++ {
		for ix := 0; ix < gridX; ix++ {
			a := uint32(ix + gridX1*iy)
			b := uint32(ix + gridX1*(iy+1))
			c := uint32(ix + 1 + gridX1*(iy+1))
			d := uint32(ix + 1 + gridX1*iy)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	return g
}
