package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaneCounts(t *testing.T) {
	tests := []struct {
		name       string
		wseg, hseg int
		verts      int
		indices    int
	}{
		{"single quad", 1, 1, 4, 6},
		{"ripple grid", 16, 16, 17 * 17, 16 * 16 * 6},
		{"clamped", 0, -3, 4, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Plane(1, 1, tt.wseg, tt.hseg)
			assert.Equal(t, tt.verts, g.VertexCount())
			assert.Len(t, g.Indices, tt.indices)
			assert.Len(t, g.UVs, tt.verts*2)
			assert.Len(t, g.Normals, tt.verts*3)
			for _, idx := range g.Indices {
				assert.Less(t, int(idx), tt.verts)
			}
		})
	}
}

func TestPlaneLayout(t *testing.T) {
	g := Plane(3, 5, 1, 1)
	require.Equal(t, 4, g.VertexCount())

	// Top-left first, rows top to bottom.
	assert.Equal(t, [3]float32{-1.5, 2.5, 0}, g.Position(0))
	assert.Equal(t, [2]float32{0, 1}, g.UV(0))
	assert.Equal(t, [3]float32{1.5, 2.5, 0}, g.Position(1))
	assert.Equal(t, [2]float32{1, 1}, g.UV(1))
	assert.Equal(t, [3]float32{-1.5, -2.5, 0}, g.Position(2))
	assert.Equal(t, [2]float32{0, 0}, g.UV(2))
	assert.Equal(t, [3]float32{1.5, -2.5, 0}, g.Position(3))
	assert.Equal(t, [2]float32{1, 0}, g.UV(3))

	assert.Equal(t, []uint32{0, 2, 1, 2, 3, 1}, g.Indices)
}

func TestInterleave(t *testing.T) {
	g := Plane(2, 2, 1, 1)
	data := g.Interleave()
	require.Len(t, data, 4*FloatsPerVertex)
	assert.Equal(t, []float32{-1, 1, 0, 0, 0, 1, 0, 1}, data[:FloatsPerVertex])
}
