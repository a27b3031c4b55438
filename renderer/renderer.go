package renderer

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderwave/clock"
	"github.com/richinsley/goshaderwave/encoder"
	"github.com/richinsley/goshaderwave/graphics"
	"github.com/richinsley/goshaderwave/scene"
)

var glInitOnce sync.Once

// Renderer draws a composed scene with OpenGL, either to a window or to an
// offscreen framebuffer for recording.
type Renderer struct {
	context           graphics.Context
	offscreenRenderer *OffscreenRenderer
	passes            []*MeshPass
	builds            *buildTracker
	width             int
	height            int
	recordMode        bool
}

func NewRenderer(width, height int, recordMode bool, ctx graphics.Context) (*Renderer, error) {
	r := &Renderer{
		context:    ctx,
		width:      width,
		height:     height,
		recordMode: recordMode,
		builds:     newBuildTracker(),
	}

	// Make the context current BEFORE initializing OpenGL.
	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	log.Printf("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	if recordMode {
		var err error
		r.offscreenRenderer, err = NewOffscreenRenderer(width, height)
		if err != nil {
			return nil, fmt.Errorf("failed to create offscreen renderer: %w", err)
		}
	}
	return r, nil
}

// syncScene creates GPU state for meshes that became ready since the last
// frame. A mesh whose program fails to build is skipped until its material
// is rebuilt.
func (r *Renderer) syncScene(s *scene.Scene) {
	for _, mesh := range s.Meshes {
		if !r.builds.due(mesh) {
			continue
		}
		version := mesh.Material.Version()
		pass, err := newMeshPass(mesh, r.context.IsGLES())
		if err != nil {
			log.Printf("Skipping mesh %s (material version %d): %v", mesh.Name, version, err)
			r.builds.fail(mesh, version)
			continue
		}
		r.builds.succeed(mesh)
		r.passes = append(r.passes, pass)
	}
}

// RenderFrame advances the scene clock to elapsed and draws every ready mesh
// into the currently bound framebuffer.
func (r *Renderer) RenderFrame(s *scene.Scene, elapsed float64, width, height int) {
	s.Advance(elapsed)
	r.syncScene(s)

	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	projection := s.Camera.Projection(aspect(width, height))
	view := s.Camera.View()
	isGLES := r.context.IsGLES()
	for _, pass := range r.passes {
		if !pass.mesh.Ready() {
			continue
		}
		pass.refresh(isGLES)
		pass.draw(projection, view)
	}
}

func aspect(width, height int) float32 {
	if height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// Run draws s into the window until it is closed. Before each frame, beforeFrame
// runs on the render thread; it is where loaded textures and shader reloads
// are applied.
func (r *Renderer) Run(s *scene.Scene, beforeFrame func()) {
	clk := clock.New(r.context)
	var frameCount int64

	for !r.context.ShouldClose() {
		if beforeFrame != nil {
			beforeFrame()
		}
		currentTime := clk.Elapsed()
		fbWidth, fbHeight := r.context.GetFramebufferSize()
		r.RenderFrame(s, currentTime, fbWidth, fbHeight)
		r.context.EndFrame()
		frameCount++
	}
	log.Printf("Rendered %d frames", frameCount)
}

// Capture renders one frame at time t offscreen and reads it back.
func (r *Renderer) Capture(s *scene.Scene, t float64) (*image.RGBA, error) {
	if r.offscreenRenderer == nil {
		return nil, fmt.Errorf("renderer was not created in record mode")
	}
	r.offscreenRenderer.Bind()
	r.RenderFrame(s, t, r.width, r.height)
	img := r.offscreenRenderer.ReadPixels()
	r.offscreenRenderer.Unbind()
	return img, nil
}

// RunOffscreen renders duration seconds of s at fps into w.
func (r *Renderer) RunOffscreen(ctx context.Context, s *scene.Scene, w encoder.FrameWriter, duration float64, fps int, beforeFrame func()) error {
	log.Println("Starting in record mode...")
	render := func(t float64) (*image.RGBA, error) {
		if beforeFrame != nil {
			beforeFrame()
		}
		return r.Capture(s, t)
	}
	n, err := encoder.Record(ctx, render, w, duration, fps)
	log.Printf("Rendered %d frames offscreen", n)
	return err
}

func (r *Renderer) Shutdown() {
	for _, pass := range r.passes {
		pass.destroy()
	}
	r.passes = nil
	if r.offscreenRenderer != nil {
		r.offscreenRenderer.Destroy()
	}
}
