package uniform

import (
	"fmt"
)

// Kind is the host-side type of a uniform value.
type Kind int

const (
	Invalid Kind = iota
	Float
	Color
	Texture
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Color:
		return "color"
	case Texture:
		return "texture"
	default:
		return "invalid"
	}
}

// GLSLType returns the GLSL type a value of this kind binds to.
func (k Kind) GLSLType() string {
	switch k {
	case Float:
		return "float"
	case Color:
		return "vec3"
	case Texture:
		return "sampler2D"
	default:
		return ""
	}
}

// KindForGLSL maps a GLSL type name to the kind that can feed it.
func KindForGLSL(glslType string) Kind {
	switch glslType {
	case "float":
		return Float
	case "vec3":
		return Color
	case "sampler2D":
		return Texture
	default:
		return Invalid
	}
}

// RGB is a linear color with components in [0, 1].
type RGB [3]float32

// TextureHandle is an opaque reference to image data that a renderer can bind.
type TextureHandle interface {
	// GetTextureID returns the GL texture name, or 0 when not uploaded yet.
	GetTextureID() uint32

	// GetSamplerType returns the GLSL sampler type (e.g. "sampler2D").
	GetSamplerType() string

	// ChannelRes returns the texture resolution as a vec3.
	ChannelRes() [3]float32
}

// Value is a single typed uniform.
type Value struct {
	kind    Kind
	f       float32
	rgb     RGB
	texture TextureHandle
}

func FloatValue(v float32) Value         { return Value{kind: Float, f: v} }
func ColorValue(c RGB) Value             { return Value{kind: Color, rgb: c} }
func TextureValue(t TextureHandle) Value { return Value{kind: Texture, texture: t} }

func (v Value) Kind() Kind { return v.kind }

// Float returns the scalar payload. It is zero for non-float values.
func (v Value) Float() float32 { return v.f }

// Color returns the RGB payload. It is zero for non-color values.
func (v Value) Color() RGB { return v.rgb }

// Texture returns the texture payload, which may be nil for an unresolved
// texture slot.
func (v Value) Texture() TextureHandle { return v.texture }

func (v Value) String() string {
	switch v.kind {
	case Float:
		return fmt.Sprintf("float(%g)", v.f)
	case Color:
		return fmt.Sprintf("color(%g, %g, %g)", v.rgb[0], v.rgb[1], v.rgb[2])
	case Texture:
		if v.texture == nil {
			return "texture(<nil>)"
		}
		return fmt.Sprintf("texture(%d)", v.texture.GetTextureID())
	default:
		return "invalid"
	}
}
