package reference

import (
	"image/color"
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/richinsley/goshaderwave/material"
	"github.com/richinsley/goshaderwave/scene"
	"github.com/richinsley/goshaderwave/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

func TestFlatWave(t *testing.T) {
	red := uniform.RGB{1, 0, 0}

	c := FlatWave([2]float32{0.3, 0}, 0, red)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, c)

	c = FlatWave([2]float32{0, math32.Pi / 2}, 0, red)
	assert.InDelta(t, 1.0, c[0], tol)
	assert.Equal(t, float32(0), c[1])
	assert.Equal(t, float32(0), c[2])
	assert.Equal(t, float32(1), c[3])

	// Time shifts the phase.
	c = FlatWave([2]float32{0, 0}, math32.Pi/2, red)
	assert.InDelta(t, 1.0, c[0], tol)
}

func TestSimplex3Deterministic(t *testing.T) {
	pts := [][3]float32{{0, 0, 0}, {0.13, -2.7, 4.2}, {10.5, 3.25, -1}, {-0.4, 0.3, 0}}
	for _, p := range pts {
		a := Simplex3(p[0], p[1], p[2])
		b := Simplex3(p[0], p[1], p[2])
		assert.Equal(t, a, b)
		assert.False(t, math32.IsNaN(a))
		assert.LessOrEqual(t, math32.Abs(a), float32(1.5))
	}
}

func TestSimplex3VariesAndIsContinuous(t *testing.T) {
	distinct := map[float32]bool{}
	for i := 0; i < 32; i++ {
		x := float32(i) * 0.37
		distinct[Simplex3(x, 0.5, 0.25)] = true

		a := Simplex3(x, 0.5, 0.25)
		b := Simplex3(x+1e-3, 0.5, 0.25)
		assert.InDelta(t, a, b, 0.05)
	}
	assert.Greater(t, len(distinct), 16)
}

func TestRippleVertexDeterministic(t *testing.T) {
	pos := [3]float32{0.1, -0.2, 0}
	p1, w1 := RippleVertex(pos, 1.5)
	p2, w2 := RippleVertex(pos, 1.5)
	assert.Equal(t, p1, p2)
	assert.Equal(t, w1, w2)

	assert.Equal(t, pos[0], p1[0])
	assert.Equal(t, pos[1], p1[1])
	assert.Equal(t, p1[2], w1)
	assert.InDelta(t, 0.4*Simplex3(0.2+1.5, -0.2, 0), w1, tol)
}

type solid struct{ c [4]float32 }

func (s solid) Sample(u, v float32) [4]float32 { return s.c }

type recorder struct{ u, v float32 }

func (r *recorder) Sample(u, v float32) [4]float32 {
	r.u, r.v = u, v
	return [4]float32{0.5, 0.5, 0.5, 0.2}
}

func TestRippleFragment(t *testing.T) {
	c := RippleFragment([2]float32{0.5, 0.5}, 0.3, solid{[4]float32{0.2, 0.4, 0.6, 0}})
	assert.Equal(t, [4]float32{0.2, 0.4, 0.6, 1}, c)

	rec := &recorder{}
	RippleFragment([2]float32{0.5, 0.25}, 0.5, rec)
	assert.InDelta(t, 0.6, rec.u, tol)
	assert.InDelta(t, 0.35, rec.v, tol)

	assert.Equal(t, [4]float32{0, 0, 0, 1}, RippleFragment([2]float32{}, 0, nil))
}

func composeVariant(t *testing.T, name string, opts scene.VariantOptions) *scene.Scene {
	t.Helper()
	reg := material.NewRegistry()
	require.NoError(t, material.RegisterBuiltins(reg))
	spec, err := scene.VariantSpec(name, opts)
	require.NoError(t, err)
	s, err := scene.Compose(reg, spec)
	require.NoError(t, err)
	return s
}

func TestRasterizeWave(t *testing.T) {
	s := composeVariant(t, material.Wave, scene.VariantOptions{Color: uniform.RGB{1, 0, 0}})
	s.Advance(math.Pi / 2)

	r := NewRasterizer(64, 64)
	img := r.Render(s)

	// Center of the plane: uv.y = 0.5, sin(0.5 + pi/2) = cos(0.5).
	center := img.RGBAAt(32, 32)
	want := uint8(math32.Cos(0.5)*255 + 0.5)
	assert.InDelta(t, want, center.R, 3)
	assert.Equal(t, uint8(0), center.G)
	assert.Equal(t, uint8(255), center.A)

	// Corners are outside the plane.
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(0, 0))
}

func TestRasterizeRippleTexture(t *testing.T) {
	s := composeVariant(t, material.Ripple, scene.VariantOptions{AwaitTexture: true})
	r := NewRasterizer(32, 32)

	img := r.Render(s)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(16, 16), "pending mesh is not drawn")

	require.True(t, s.Meshes[0].ResolveTexture(&texture{solid{[4]float32{0, 1, 0, 1}}}))
	img = r.Render(s)
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, img.RGBAAt(16, 16))
}

func TestRasterizeSkipsScaffold(t *testing.T) {
	s := composeVariant(t, material.Scaffold, scene.VariantOptions{})
	r := NewRasterizer(16, 16)
	img := r.Render(s)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(8, 8))
}

func TestRasterizeSkipsRebuiltProgram(t *testing.T) {
	s := composeVariant(t, material.Wave, scene.VariantOptions{Color: uniform.RGB{1, 0, 0}})
	s.Advance(math.Pi / 2)
	r := NewRasterizer(32, 32)

	before := r.Render(s).RGBAAt(16, 16)
	require.Greater(t, before.R, uint8(200))

	mat := s.Meshes[0].Material
	white := mat.Program()
	white.Fragment = `
precision mediump float;
uniform vec3 uColor;
uniform float uTime;
varying vec2 vUv;
void main() {
    gl_FragColor = vec4(1.0);
}
`
	require.NoError(t, mat.Rebuild(white))

	after := r.Render(s).RGBAAt(16, 16)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, after, "built-in evaluator must not stand in for a rebuilt program")
}

func TestRasterizeSkipsOverriddenProgram(t *testing.T) {
	reg := material.NewRegistry()
	require.NoError(t, material.RegisterBuiltins(reg))
	def, ok := reg.Lookup(material.Wave)
	require.True(t, ok)
	p := def.Program
	p.Vertex += "\n// edited\n"
	require.NoError(t, reg.Override(material.Wave, p))

	spec, err := scene.VariantSpec(material.Wave, scene.VariantOptions{Color: uniform.RGB{1, 0, 0}})
	require.NoError(t, err)
	s, err := scene.Compose(reg, spec)
	require.NoError(t, err)
	s.Advance(math.Pi / 2)

	img := NewRasterizer(32, 32).Render(s)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(16, 16))
}

type texture struct{ solid }

func (*texture) GetTextureID() uint32   { return 0 }
func (*texture) GetSamplerType() string { return "sampler2D" }
func (*texture) ChannelRes() [3]float32 { return [3]float32{1, 1, 1} }
