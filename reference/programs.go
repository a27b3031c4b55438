// Package reference evaluates the built-in shader programs on the CPU. The
// functions mirror the GLSL in package shader line for line so that they can
// be tested and used for headless previews.
package reference

import (
	"github.com/chewxy/math32"
	"github.com/richinsley/goshaderwave/material"
	"github.com/richinsley/goshaderwave/shader"
	"github.com/richinsley/goshaderwave/uniform"
)

// Sampler is a texture that can be read on the CPU.
type Sampler interface {
	Sample(u, v float32) [4]float32
}

// FlatWave is the wave fragment program:
// vec4(sin(vUv.y + uTime) * uColor, 1.0).
func FlatWave(uv [2]float32, time float32, color uniform.RGB) [4]float32 {
	s := math32.Sin(uv[1] + time)
	return [4]float32{s * color[0], s * color[1], s * color[2], 1}
}

// RippleVertex is the ripple vertex program before projection. It returns
// the displaced position and the vWave varying.
func RippleVertex(pos [3]float32, time float32) ([3]float32, float32) {
	n := Simplex3(pos[0]*shader.RippleNoiseFrequency+time, pos[1], pos[2])
	pos[2] += n * shader.RippleNoiseAmplitude
	return pos, pos[2]
}

// RippleFragment is the ripple fragment program. A nil texture samples as
// opaque black.
func RippleFragment(uv [2]float32, wave float32, tex Sampler) [4]float32 {
	w := wave * shader.RippleWaveScale
	if tex == nil {
		return [4]float32{0, 0, 0, 1}
	}
	c := tex.Sample(uv[0]+w, uv[1]+w)
	return [4]float32{c[0], c[1], c[2], 1}
}

// Varyings are the values interpolated between the stages.
type Varyings struct {
	UV   [2]float32
	Wave float32
}

// Program is the software form of one material's program pair.
type Program struct {
	// Vertex returns the object-space position and varyings of a vertex.
	Vertex func(pos [3]float32, uv [2]float32, u *uniform.Set) ([3]float32, Varyings)
	// Fragment returns the output color. ok is false when the program writes
	// no color.
	Fragment func(v Varyings, u *uniform.Set) (color [4]float32, ok bool)
}

func floatUniform(u *uniform.Set, name string) float32 {
	v, _ := u.Get(name)
	return v.Float()
}

// Programs returns software programs keyed by built-in material name.
// The scaffold has no entry because its fragment stage writes nothing.
func Programs() map[string]Program {
	return map[string]Program{
		material.Wave: {
			Vertex: func(pos [3]float32, uv [2]float32, _ *uniform.Set) ([3]float32, Varyings) {
				return pos, Varyings{UV: uv}
			},
			Fragment: func(v Varyings, u *uniform.Set) ([4]float32, bool) {
				c, _ := u.Get(material.ColorUniform)
				return FlatWave(v.UV, floatUniform(u, material.TimeUniform), c.Color()), true
			},
		},
		material.Ripple: {
			Vertex: func(pos [3]float32, uv [2]float32, u *uniform.Set) ([3]float32, Varyings) {
				out, wave := RippleVertex(pos, floatUniform(u, material.TimeUniform))
				return out, Varyings{UV: uv, Wave: wave}
			},
			Fragment: func(v Varyings, u *uniform.Set) ([4]float32, bool) {
				t, _ := u.Get(material.TextureUniform)
				s, _ := t.Texture().(Sampler)
				return RippleFragment(v.UV, v.Wave, s), true
			},
		},
	}
}
