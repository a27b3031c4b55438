package scene

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderwave/clock"
	"github.com/richinsley/goshaderwave/geometry"
	"github.com/richinsley/goshaderwave/material"
	"github.com/richinsley/goshaderwave/uniform"
)

// Mesh is a renderable shape holding one material instance.
type Mesh struct {
	Name     string
	Geometry *geometry.Geometry
	Material *material.ShaderMaterial
	Position mgl32.Vec3

	// pendingTexture names a texture uniform that must resolve before the
	// mesh is drawn.
	pendingTexture string
}

// Model returns the object-to-world matrix.
func (m *Mesh) Model() mgl32.Mat4 {
	return mgl32.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z())
}

// Ready reports whether the mesh may be drawn.
func (m *Mesh) Ready() bool {
	return m.pendingTexture == "" && !m.Material.Disposed()
}

// PendingTexture returns the texture uniform the mesh is waiting for.
func (m *Mesh) PendingTexture() string {
	return m.pendingTexture
}

// ResolveTexture binds a loaded texture to the pending uniform and makes the
// mesh drawable.
func (m *Mesh) ResolveTexture(t uniform.TextureHandle) bool {
	if m.pendingTexture == "" {
		return false
	}
	if !m.Material.SetTexture(m.pendingTexture, t) {
		return false
	}
	m.pendingTexture = ""
	return true
}

// AbandonTexture makes the mesh drawable with its default texture after the
// image failed to load.
func (m *Mesh) AbandonTexture() {
	m.pendingTexture = ""
}

// Dispose tears down the mesh's material.
func (m *Mesh) Dispose() {
	m.Material.Dispose()
}

// Scene is a static tree of lights, a camera and meshes, built once.
type Scene struct {
	Title   string
	Camera  Camera
	Lights  []PointLight
	Meshes  []*Mesh
	drivers []*clock.TimeDriver
}

// Advance writes the frame time into every mesh's time uniform. It must run
// before the renderer reads uniforms for the frame.
func (s *Scene) Advance(elapsed float64) {
	for _, d := range s.drivers {
		d.Tick(elapsed)
	}
}

// Mesh looks a mesh up by name.
func (s *Scene) Mesh(name string) *Mesh {
	for _, m := range s.Meshes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Dispose tears down every mesh. Pending frame writes become no-ops.
func (s *Scene) Dispose() {
	if s == nil {
		return
	}
	log.Printf("Destroying scene: %s", s.Title)
	for _, m := range s.Meshes {
		m.Dispose()
	}
}

// MeshSpec describes one mesh to build.
type MeshSpec struct {
	Name           string
	Material       string
	Width          float32
	Height         float32
	WidthSegments  int
	HeightSegments int
	Position       mgl32.Vec3
	// AwaitTexture names a texture uniform the mesh must wait for.
	AwaitTexture string
	Options      []material.Option
}

// Spec describes a whole scene.
type Spec struct {
	Title  string
	Camera Camera
	Lights []PointLight
	Meshes []MeshSpec
}

// Compose builds the scene described by spec using materials from reg. Any
// material construction failure aborts composition.
func Compose(reg *material.Registry, spec Spec) (*Scene, error) {
	s := &Scene{
		Title:  spec.Title,
		Camera: spec.Camera,
		Lights: append([]PointLight(nil), spec.Lights...),
	}
	for _, ms := range spec.Meshes {
		mat, err := reg.New(ms.Material, ms.Options...)
		if err != nil {
			s.Dispose()
			return nil, fmt.Errorf("failed to create mesh %s: %w", ms.Name, err)
		}
		mesh := &Mesh{
			Name:           ms.Name,
			Geometry:       geometry.Plane(ms.Width, ms.Height, ms.WidthSegments, ms.HeightSegments),
			Material:       mat,
			Position:       ms.Position,
			pendingTexture: ms.AwaitTexture,
		}
		s.Meshes = append(s.Meshes, mesh)
		if _, ok := mat.Uniform(material.TimeUniform); ok {
			s.drivers = append(s.drivers, clock.NewTimeDriver(mat, material.TimeUniform))
		}
	}
	log.Printf("Successfully composed scene: %s (%d meshes, %d lights)", s.Title, len(s.Meshes), len(s.Lights))
	return s, nil
}
