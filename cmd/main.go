package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/richinsley/goshaderwave/encoder"
	"github.com/richinsley/goshaderwave/glfwcontext"
	"github.com/richinsley/goshaderwave/graphics"
	"github.com/richinsley/goshaderwave/headless"
	"github.com/richinsley/goshaderwave/inputs"
	"github.com/richinsley/goshaderwave/material"
	"github.com/richinsley/goshaderwave/options"
	"github.com/richinsley/goshaderwave/reference"
	"github.com/richinsley/goshaderwave/renderer"
	"github.com/richinsley/goshaderwave/scene"
	"github.com/richinsley/goshaderwave/shader"
)

// app carries the composed scene and the pending asynchronous work that is
// applied on the render thread between frames.
type app struct {
	opts    *options.ShaderOptions
	scene   *scene.Scene
	texture <-chan inputs.LoadResult
	reloads <-chan shader.ProgramPair
}

// beforeFrame applies a finished texture load and the latest shader reload
// without blocking.
func (a *app) beforeFrame() {
	if a.texture != nil {
		select {
		case res, ok := <-a.texture:
			a.applyTexture(res, ok)
		default:
		}
	}
	if a.reloads != nil {
		select {
		case p := <-a.reloads:
			a.applyReload(p)
		default:
		}
	}
}

// waitTexture blocks until the texture load finishes. Offscreen output must
// not start with the textured mesh missing.
func (a *app) waitTexture() {
	if a.texture == nil {
		return
	}
	res, ok := <-a.texture
	a.applyTexture(res, ok)
}

func (a *app) applyTexture(res inputs.LoadResult, ok bool) {
	a.texture = nil
	for _, mesh := range a.scene.Meshes {
		if mesh.PendingTexture() == "" {
			continue
		}
		if !ok || res.Err != nil {
			log.Printf("Warning: texture for %s unavailable, using default: %v", mesh.Name, res.Err)
			mesh.AbandonTexture()
			continue
		}
		if mesh.ResolveTexture(res.Channel) {
			log.Printf("Texture %s bound to %s", res.Channel.Name(), mesh.Name)
		}
	}
}

func (a *app) applyReload(p shader.ProgramPair) {
	for _, mesh := range a.scene.Meshes {
		if mesh.Material.Name() != *a.opts.Variant {
			continue
		}
		if err := mesh.Material.Rebuild(p); err != nil {
			log.Printf("Shader reload rejected: %v", err)
			continue
		}
		log.Printf("Reloaded shaders for %s", mesh.Name)
	}
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encoderConfig(opts *options.ShaderOptions) encoder.Config {
	return encoder.Config{
		Width:      *opts.Width,
		Height:     *opts.Height,
		FPS:        *opts.FPS,
		OutputFile: *opts.OutputFile,
		FFMPEGPath: *opts.FFMPEGPath,
	}
}

func runSoftware(ctx context.Context, a *app) error {
	opts := a.opts
	a.waitTexture()
	r := reference.NewRasterizer(*opts.Width, *opts.Height)

	if *opts.Record {
		enc, err := encoder.NewFFmpegEncoder(encoderConfig(opts))
		if err != nil {
			return err
		}
		render := func(t float64) (*image.RGBA, error) {
			a.beforeFrame()
			a.scene.Advance(t)
			return r.Render(a.scene), nil
		}
		_, recErr := encoder.Record(ctx, render, enc, *opts.Duration, *opts.FPS)
		if err := enc.Close(); err != nil && recErr == nil {
			recErr = err
		}
		return recErr
	}

	path := *opts.Snapshot
	if path == "" {
		path = "frame.png"
	}
	a.scene.Advance(*opts.SnapshotAt)
	if err := savePNG(path, r.Render(a.scene)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	log.Printf("Wrote snapshot %s", path)
	return nil
}

func runGL(ctx context.Context, a *app) error {
	opts := a.opts
	offscreen := *opts.Record || *opts.Snapshot != ""

	var glctx graphics.Context
	if *opts.Headless {
		hc, err := headless.New(*opts.Width, *opts.Height)
		if err != nil {
			return fmt.Errorf("failed to create headless context: %w", err)
		}
		glctx = hc
	} else {
		if err := glfwcontext.InitGraphics(); err != nil {
			return fmt.Errorf("failed to initialize graphics: %w", err)
		}
		defer glfwcontext.TerminateGraphics()

		wc, err := glfwcontext.New(*opts.Width, *opts.Height, !offscreen, "goshaderwave: "+a.scene.Title)
		if err != nil {
			return fmt.Errorf("failed to create window: %w", err)
		}
		glctx = wc
	}
	defer glctx.Shutdown()

	r, err := renderer.NewRenderer(*opts.Width, *opts.Height, offscreen, glctx)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	switch {
	case *opts.Record:
		a.waitTexture()
		enc, err := encoder.NewFFmpegEncoder(encoderConfig(opts))
		if err != nil {
			return err
		}
		recErr := r.RunOffscreen(ctx, a.scene, enc, *opts.Duration, *opts.FPS, a.beforeFrame)
		if err := enc.Close(); err != nil && recErr == nil {
			recErr = err
		}
		if recErr == nil {
			log.Printf("Successfully rendered to %s", *opts.OutputFile)
		}
		return recErr
	case *opts.Snapshot != "":
		a.waitTexture()
		img, err := r.Capture(a.scene, *opts.SnapshotAt)
		if err != nil {
			return err
		}
		if err := savePNG(*opts.Snapshot, img); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		log.Printf("Wrote snapshot %s", *opts.Snapshot)
		return nil
	default:
		log.Println("Starting interactive render loop...")
		r.Run(a.scene, a.beforeFrame)
		return nil
	}
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := &options.ShaderOptions{
		Config:     flag.String("config", "", "Path to a TOML config file"),
		Variant:    flag.String("variant", "wave", "Scene variant: wave, ripple or scaffold"),
		Color:      flag.String("color", "gold", "Base color (name or #rrggbb)"),
		Texture:    flag.String("texture", "", "Image file for the ripple texture"),
		ShaderDir:  flag.String("shaders", "", "Directory with <variant>.vert/.frag overrides, watched for changes"),
		Width:      flag.Int("width", 1280, "Width of the output"),
		Height:     flag.Int("height", 720, "Height of the output"),
		Record:     flag.Bool("record", false, "Enable recording mode"),
		Software:   flag.Bool("software", false, "Render on the CPU instead of OpenGL"),
		Headless:   flag.Bool("headless", false, "Use an EGL pbuffer context instead of a window (Linux, needs -record or -snapshot)"),
		Duration:   flag.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:        flag.Int("fps", 60, "Frames per second for recording"),
		OutputFile: flag.String("output", "output.mp4", "Output file name for recording"),
		FFMPEGPath: flag.String("ffmpeg", "", "Path to ffmpeg executable"),
		Snapshot:   flag.String("snapshot", "", "Write a single frame to this PNG file"),
		SnapshotAt: flag.Float64("snapshot-at", 0, "Scene time of the snapshot in seconds"),
		Help:       flag.Bool("help", false, "Show help message"),
	}
	flag.Parse()

	if *opts.Help {
		fmt.Println("Shader material wave viewer/recorder")
		flag.PrintDefaults()
		return
	}

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	os.Exit(run(opts, explicit))
}

// run executes one invocation and returns the process exit code. Deferred
// cleanup finishes before main exits.
func run(opts *options.ShaderOptions, explicit map[string]bool) int {
	if *opts.Config != "" {
		if err := opts.LoadFile(*opts.Config, explicit); err != nil {
			log.Printf("Error loading config: %v", err)
			return 1
		}
		log.Printf("Loaded config %s", *opts.Config)
	}

	reg := material.NewRegistry()
	if err := material.RegisterBuiltins(reg); err != nil {
		log.Printf("Error registering materials: %v", err)
		return 1
	}
	if err := opts.Validate(reg.Names()); err != nil {
		log.Printf("Error: %v", err)
		return 2
	}
	baseColor, _ := options.ParseColor(*opts.Color)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{opts: opts}

	if *opts.ShaderDir != "" {
		def, _ := reg.Lookup(*opts.Variant)
		program, err := shader.LoadOverride(*opts.ShaderDir, *opts.Variant, def.Program)
		if err != nil {
			log.Printf("Error loading shader overrides: %v", err)
			return 1
		}
		if err := reg.Override(*opts.Variant, program); err != nil {
			log.Printf("Error applying shader overrides: %v", err)
			return 1
		}
		w, err := shader.NewWatcher(*opts.ShaderDir, *opts.Variant, def.Program)
		if err != nil {
			log.Printf("Warning: shader hot reload disabled: %v", err)
		} else {
			go w.Run(ctx)
			a.reloads = w.Updates()
		}
	}

	spec, err := scene.VariantSpec(*opts.Variant, scene.VariantOptions{
		Color:        baseColor,
		AwaitTexture: *opts.Texture != "",
	})
	if err != nil {
		log.Printf("Error: %v", err)
		return 1
	}
	a.scene, err = scene.Compose(reg, spec)
	if err != nil {
		log.Printf("Error composing scene: %v", err)
		return 1
	}
	defer a.scene.Dispose()

	if *opts.Texture != "" {
		a.texture = inputs.LoadImageAsync(ctx, *opts.Texture, inputs.DefaultSampler())
	}

	if *opts.Software {
		err = runSoftware(ctx, a)
	} else {
		err = runGL(ctx, a)
	}
	if err != nil {
		log.Printf("Rendering failed: %v", err)
		return 1
	}
	return 0
}
