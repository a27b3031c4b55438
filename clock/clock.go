package clock

import (
	"weak"

	"github.com/richinsley/goshaderwave/material"
)

// Source reports a monotonic time in seconds, e.g. glfw.GetTime.
type Source interface {
	Time() float64
}

// Clock measures elapsed seconds since Start against a Source.
type Clock struct {
	src   Source
	start float64
}

// New creates a clock started at the source's current time.
func New(src Source) *Clock {
	c := &Clock{src: src}
	c.Start()
	return c
}

// Start resets the clock origin.
func (c *Clock) Start() {
	c.start = c.src.Time()
}

// Elapsed returns seconds since Start.
func (c *Clock) Elapsed() float64 {
	return c.src.Time() - c.start
}

// TimeDriver writes the frame time into one material's time uniform. It does
// not keep the material alive; the mesh that owns the material does.
type TimeDriver struct {
	target  weak.Pointer[material.ShaderMaterial]
	uniform string
}

// NewTimeDriver creates a driver for the named float uniform of m.
func NewTimeDriver(m *material.ShaderMaterial, uniformName string) *TimeDriver {
	return &TimeDriver{
		target:  weak.Make(m),
		uniform: uniformName,
	}
}

// Tick writes elapsed into the time uniform. The value replaces, never
// accumulates. The write is dropped when the material is gone or disposed.
// It reports whether the write happened.
func (d *TimeDriver) Tick(elapsed float64) bool {
	m := d.target.Value()
	if m == nil {
		return false
	}
	return m.SetFloat(d.uniform, float32(elapsed))
}

// Uniform returns the name of the driven uniform.
func (d *TimeDriver) Uniform() string { return d.uniform }
