package reference

import (
	"image"
	"image/color"
	"log"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderwave/material"
	"github.com/richinsley/goshaderwave/scene"
	"github.com/richinsley/goshaderwave/shader"
	"github.com/richinsley/goshaderwave/uniform"
	"golang.org/x/image/draw"
)

// Rasterizer renders scenes on the CPU with the software programs. It reads
// uniforms as they are when Render is called, so the caller advances the
// scene first, exactly as the GL renderer does.
type Rasterizer struct {
	Width      int
	Height     int
	Background color.RGBA
	Programs   map[string]Program

	depth   []float32
	skipped map[string]bool
}

// NewRasterizer creates a rasterizer for the built-in programs.
func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{
		Width:      width,
		Height:     height,
		Background: color.RGBA{0, 0, 0, 255},
		Programs:   Programs(),
		skipped:    make(map[string]bool),
	}
}

// Render draws s into a new image.
func (r *Rasterizer) Render(s *scene.Scene) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	r.RenderInto(img, s)
	return img
}

type screenVertex struct {
	x, y, z float32 // window coordinates, NDC depth
	invW    float32
	v       Varyings
}

// RenderInto draws s into img, which must be Width x Height.
func (r *Rasterizer) RenderInto(img *image.RGBA, s *scene.Scene) {
	draw.Draw(img, img.Bounds(), &image.Uniform{C: r.Background}, image.Point{}, draw.Src)

	n := r.Width * r.Height
	if cap(r.depth) < n {
		r.depth = make([]float32, n)
	}
	r.depth = r.depth[:n]
	for i := range r.depth {
		r.depth[i] = math32.Inf(1)
	}

	proj := s.Camera.Projection(float32(r.Width) / float32(r.Height))
	view := s.Camera.View()

	for _, mesh := range s.Meshes {
		if !mesh.Ready() {
			continue
		}
		prog, ok := r.program(mesh.Material)
		if !ok {
			if !r.skipped[mesh.Name] {
				log.Printf("Warning: no software program for material %s (version %d), skipping mesh %s",
					mesh.Material.Name(), mesh.Material.Version(), mesh.Name)
				r.skipped[mesh.Name] = true
			}
			continue
		}
		delete(r.skipped, mesh.Name)
		r.drawMesh(img, mesh, prog, proj.Mul4(view).Mul4(mesh.Model()))
	}
}

// program returns the software evaluator for m. It applies only while m still
// holds the built-in program of its name; overridden or rebuilt programs have
// no evaluator.
func (r *Rasterizer) program(m *material.ShaderMaterial) (Program, bool) {
	prog, ok := r.Programs[m.Name()]
	if !ok {
		return Program{}, false
	}
	builtin, ok := shader.Builtin(m.Name())
	if !ok || m.Program() != builtin {
		return Program{}, false
	}
	return prog, true
}

func (r *Rasterizer) drawMesh(img *image.RGBA, mesh *scene.Mesh, prog Program, mvp mgl32.Mat4) {
	g := mesh.Geometry
	u := mesh.Material.Uniforms()

	verts := make([]screenVertex, g.VertexCount())
	valid := make([]bool, len(verts))
	for i := range verts {
		pos, vary := prog.Vertex(g.Position(i), g.UV(i), u)
		clip := mvp.Mul4x1(mgl32.Vec4{pos[0], pos[1], pos[2], 1})
		if clip.W() <= 1e-6 {
			continue
		}
		invW := 1 / clip.W()
		verts[i] = screenVertex{
			x:    (clip.X()*invW*0.5 + 0.5) * float32(r.Width),
			y:    (1 - (clip.Y()*invW*0.5 + 0.5)) * float32(r.Height),
			z:    clip.Z() * invW,
			invW: invW,
			v:    vary,
		}
		valid[i] = true
	}

	for t := 0; t+2 < len(g.Indices); t += 3 {
		a, b, c := g.Indices[t], g.Indices[t+1], g.Indices[t+2]
		if !valid[a] || !valid[b] || !valid[c] {
			continue
		}
		r.drawTriangle(img, verts[a], verts[b], verts[c], prog, u)
	}
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (r *Rasterizer) drawTriangle(img *image.RGBA, v0, v1, v2 screenVertex, prog Program, u *uniform.Set) {
	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return
	}
	minX := max(int(math32.Floor(min(v0.x, v1.x, v2.x))), 0)
	maxX := min(int(math32.Ceil(max(v0.x, v1.x, v2.x))), r.Width-1)
	minY := max(int(math32.Floor(min(v0.y, v1.y, v2.y))), 0)
	maxY := min(int(math32.Ceil(max(v0.y, v1.y, v2.y))), r.Height-1)

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			cx := float32(px) + 0.5
			cy := float32(py) + 0.5
			w0 := edge(v1.x, v1.y, v2.x, v2.y, cx, cy) / area
			w1 := edge(v2.x, v2.y, v0.x, v0.y, cx, cy) / area
			w2 := edge(v0.x, v0.y, v1.x, v1.y, cx, cy) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*v0.z + w1*v1.z + w2*v2.z
			idx := py*r.Width + px
			if z < -1 || z > 1 || z >= r.depth[idx] {
				continue
			}

			// Perspective-correct interpolation.
			p0, p1, p2 := w0*v0.invW, w1*v1.invW, w2*v2.invW
			sum := p0 + p1 + p2
			p0, p1, p2 = p0/sum, p1/sum, p2/sum
			vary := Varyings{
				UV: [2]float32{
					p0*v0.v.UV[0] + p1*v1.v.UV[0] + p2*v2.v.UV[0],
					p0*v0.v.UV[1] + p1*v1.v.UV[1] + p2*v2.v.UV[1],
				},
				Wave: p0*v0.v.Wave + p1*v1.v.Wave + p2*v2.v.Wave,
			}

			col, ok := prog.Fragment(vary, u)
			if !ok {
				continue
			}
			r.depth[idx] = z
			img.SetRGBA(px, py, toRGBA(col))
		}
	}
}

func toRGBA(c [4]float32) color.RGBA {
	conv := func(f float32) uint8 {
		f = min(max(f, 0), 1)
		return uint8(f*255 + 0.5)
	}
	return color.RGBA{conv(c[0]), conv(c[1]), conv(c[2]), conv(c[3])}
}
