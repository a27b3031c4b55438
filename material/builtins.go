package material

import (
	"github.com/richinsley/goshaderwave/shader"
	"github.com/richinsley/goshaderwave/uniform"
)

// Names of the built-in materials and their uniforms.
const (
	Wave     = "wave"
	Ripple   = "ripple"
	Scaffold = "scaffold"

	TimeUniform    = "uTime"
	ColorUniform   = "uColor"
	TextureUniform = "uTexture"
)

// Builtins returns the definitions of the built-in materials.
func Builtins() []Definition {
	return []Definition{
		{
			Name:    Wave,
			Program: shader.WaveProgram(),
			Defaults: func() *uniform.Set {
				s := uniform.NewSet()
				s.Declare(TimeUniform, uniform.FloatValue(0))
				s.Declare(ColorUniform, uniform.ColorValue(uniform.RGB{0, 0, 0}))
				return s
			},
		},
		{
			Name:    Ripple,
			Program: shader.RippleProgram(),
			Defaults: func() *uniform.Set {
				s := uniform.NewSet()
				s.Declare(TimeUniform, uniform.FloatValue(0))
				s.Declare(ColorUniform, uniform.ColorValue(uniform.RGB{0, 0, 0}))
				// Empty until the image resolves.
				s.Declare(TextureUniform, uniform.TextureValue(nil))
				return s
			},
		},
		{
			Name:     Scaffold,
			Program:  shader.ScaffoldProgram(),
			Defaults: uniform.NewSet,
		},
	}
}

// RegisterBuiltins registers every built-in material with reg.
func RegisterBuiltins(reg *Registry) error {
	for _, def := range Builtins() {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}
