package renderer

import (
	"fmt"
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderwave/geometry"
	"github.com/richinsley/goshaderwave/inputs"
	"github.com/richinsley/goshaderwave/scene"
	"github.com/richinsley/goshaderwave/shader"
	"github.com/richinsley/goshaderwave/translator"
	"github.com/richinsley/goshaderwave/uniform"
)

// MeshPass holds the GPU state for one mesh: its buffers, its linked program
// and the uniform locations of that program.
type MeshPass struct {
	mesh       *scene.Mesh
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	shaderProgram uint32
	version       uint64
	projectionLoc int32
	modelViewLoc  int32
	uniformLocs   map[string]int32
}

func newMeshPass(mesh *scene.Mesh, isGLES bool) (*MeshPass, error) {
	p := &MeshPass{mesh: mesh}
	p.uploadGeometry(mesh.Geometry)
	if err := p.build(isGLES); err != nil {
		p.destroy()
		return nil, err
	}
	return p, nil
}

func (p *MeshPass) uploadGeometry(g *geometry.Geometry) {
	vertices := g.Interleave()
	gl.GenVertexArrays(1, &p.vao)
	gl.GenBuffers(1, &p.vbo)
	gl.GenBuffers(1, &p.ebo)

	gl.BindVertexArray(p.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, p.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	stride := int32(geometry.FloatsPerVertex * 4)
	gl.EnableVertexAttribArray(shader.PositionLocation)
	gl.VertexAttribPointer(shader.PositionLocation, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(shader.NormalLocation)
	gl.VertexAttribPointer(shader.NormalLocation, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(shader.UVLocation)
	gl.VertexAttribPointer(shader.UVLocation, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	p.indexCount = int32(len(g.Indices))
}

// build translates and links the material's current program. On failure the
// previous program, if any, stays in use.
func (p *MeshPass) build(isGLES bool) error {
	mat := p.mesh.Material
	version := mat.Version()
	prog, err := translator.Translate(mat.Program(), isGLES)
	if err != nil {
		return fmt.Errorf("material %s: %w", mat.Name(), err)
	}
	program, err := newProgram(prog.Vertex, prog.Fragment)
	if err != nil {
		return fmt.Errorf("material %s: %w", mat.Name(), err)
	}

	if p.shaderProgram != 0 {
		gl.DeleteProgram(p.shaderProgram)
	}
	p.shaderProgram = program
	p.version = version
	p.projectionLoc = uniformLocation(program, prog.MappedName("projectionMatrix"))
	p.modelViewLoc = uniformLocation(program, prog.MappedName("modelViewMatrix"))
	p.uniformLocs = make(map[string]int32)
	for _, name := range mat.Uniforms().Names() {
		p.uniformLocs[name] = uniformLocation(program, prog.MappedName(name))
	}
	return nil
}

// refresh rebuilds the program when the material was rebuilt since the last
// frame.
func (p *MeshPass) refresh(isGLES bool) {
	if p.mesh.Material.Version() == p.version {
		return
	}
	if err := p.build(isGLES); err != nil {
		log.Printf("Keeping previous program: %v", err)
		// Don't retry every frame.
		p.version = p.mesh.Material.Version()
		return
	}
	log.Printf("Rebuilt program for material %s (version %d)", p.mesh.Material.Name(), p.version)
}

func (p *MeshPass) draw(projection, view mgl32.Mat4) {
	gl.UseProgram(p.shaderProgram)
	modelView := view.Mul4(p.mesh.Model())
	if p.projectionLoc != -1 {
		gl.UniformMatrix4fv(p.projectionLoc, 1, false, &projection[0])
	}
	if p.modelViewLoc != -1 {
		gl.UniformMatrix4fv(p.modelViewLoc, 1, false, &modelView[0])
	}

	textureUnit := uint32(0)
	p.mesh.Material.Uniforms().Each(func(name string, v uniform.Value) {
		loc, ok := p.uniformLocs[name]
		if !ok || loc == -1 {
			return
		}
		switch v.Kind() {
		case uniform.Float:
			gl.Uniform1f(loc, v.Float())
		case uniform.Color:
			c := v.Color()
			gl.Uniform3f(loc, c[0], c[1], c[2])
		case uniform.Texture:
			gl.ActiveTexture(gl.TEXTURE0 + textureUnit)
			gl.BindTexture(gl.TEXTURE_2D, textureID(v.Texture()))
			gl.Uniform1i(loc, int32(textureUnit))
			textureUnit++
		}
	})

	gl.BindVertexArray(p.vao)
	gl.DrawElements(gl.TRIANGLES, p.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	for i := uint32(0); i < textureUnit; i++ {
		gl.ActiveTexture(gl.TEXTURE0 + i)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
}

// textureID uploads the texture on first use. A nil or failed texture binds
// texture 0, which samples as black.
func textureID(t uniform.TextureHandle) uint32 {
	if t == nil {
		return 0
	}
	if ch, ok := t.(inputs.IChannel); ok {
		if err := ch.Upload(); err != nil {
			log.Printf("Texture upload failed: %v", err)
			return 0
		}
	}
	return t.GetTextureID()
}

func (p *MeshPass) destroy() {
	p.mesh.Material.Uniforms().Each(func(_ string, v uniform.Value) {
		if ch, ok := v.Texture().(inputs.IChannel); ok {
			ch.Destroy()
		}
	})
	if p.shaderProgram != 0 {
		gl.DeleteProgram(p.shaderProgram)
		p.shaderProgram = 0
	}
	gl.DeleteBuffers(1, &p.vbo)
	gl.DeleteBuffers(1, &p.ebo)
	gl.DeleteVertexArrays(1, &p.vao)
}
