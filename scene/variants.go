package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderwave/material"
	"github.com/richinsley/goshaderwave/uniform"
)

// VariantOptions tunes a built-in variant.
type VariantOptions struct {
	Color uniform.RGB
	// AwaitTexture holds the textured mesh back until a texture resolves.
	AwaitTexture bool
}

func defaultLights() []PointLight {
	return []PointLight{{
		Position:  mgl32.Vec3{10, 10, 10},
		Color:     mgl32.Vec3{1, 1, 1},
		Intensity: 1,
	}}
}

func closeUpCamera() Camera {
	c := DefaultCamera()
	c.Fov = 12
	return c
}

// VariantSpec returns the scene spec of a built-in variant.
func VariantSpec(name string, opts VariantOptions) (Spec, error) {
	switch name {
	case material.Wave:
		return Spec{
			Title:  "wave",
			Camera: DefaultCamera(),
			Lights: defaultLights(),
			Meshes: []MeshSpec{{
				Name:           "wave",
				Material:       material.Wave,
				Width:          3,
				Height:         5,
				WidthSegments:  1,
				HeightSegments: 1,
				Options:        []material.Option{material.WithColor(material.ColorUniform, opts.Color)},
			}},
		}, nil
	case material.Ripple:
		ms := MeshSpec{
			Name:           "ripple",
			Material:       material.Ripple,
			Width:          0.4,
			Height:         0.6,
			WidthSegments:  16,
			HeightSegments: 16,
			Options:        []material.Option{material.WithColor(material.ColorUniform, opts.Color)},
		}
		if opts.AwaitTexture {
			ms.AwaitTexture = material.TextureUniform
		}
		return Spec{
			Title:  "ripple",
			Camera: closeUpCamera(),
			Lights: defaultLights(),
			Meshes: []MeshSpec{ms},
		}, nil
	case material.Scaffold:
		return Spec{
			Title:  "scaffold",
			Camera: closeUpCamera(),
			Lights: defaultLights(),
			Meshes: []MeshSpec{{
				Name:           "scaffold",
				Material:       material.Scaffold,
				Width:          0.4,
				Height:         0.6,
				WidthSegments:  16,
				HeightSegments: 16,
			}},
		}, nil
	}
	return Spec{}, fmt.Errorf("%w: %s", material.ErrUnknownMaterial, name)
}

// Variants lists the built-in variant names.
func Variants() []string {
	return []string{material.Wave, material.Ripple, material.Scaffold}
}
