package material

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/richinsley/goshaderwave/shader"
	"github.com/richinsley/goshaderwave/uniform"
)

var (
	ErrUniformMissing   = errors.New("uniform has no value")
	ErrUniformType      = errors.New("uniform value does not match declared type")
	ErrMalformedProgram = errors.New("malformed shader program")
	ErrUnknownMaterial  = errors.New("unknown material")
	ErrDuplicate        = errors.New("material already registered")
)

// ConfigError reports a material that cannot be built from its program and
// uniform defaults. It is fatal to that material only.
type ConfigError struct {
	Material string
	Uniform  string
	Err      error
}

func (e *ConfigError) Error() string {
	if e.Uniform == "" {
		return fmt.Sprintf("material %s: %v", e.Material, e.Err)
	}
	return fmt.Sprintf("material %s: uniform %s: %v", e.Material, e.Uniform, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ShaderMaterial binds a program pair to a uniform set. Uniform values may be
// read and overwritten at any time before a render pass consumes them.
type ShaderMaterial struct {
	name     string
	program  shader.ProgramPair
	uniforms *uniform.Set
	version  uint64
	disposed atomic.Bool
}

// New validates defaults against the uniforms declared by program and returns
// the material. Every declared uniform needs an entry whose kind feeds the
// declared GLSL type.
func New(name string, program shader.ProgramPair, defaults *uniform.Set) (*ShaderMaterial, error) {
	if defaults == nil {
		defaults = uniform.NewSet()
	}
	if err := validate(name, program, defaults); err != nil {
		return nil, err
	}
	return &ShaderMaterial{
		name:     name,
		program:  program,
		uniforms: defaults.Clone(),
	}, nil
}

func validate(name string, program shader.ProgramPair, set *uniform.Set) error {
	if err := program.Check(); err != nil {
		return &ConfigError{Material: name, Err: fmt.Errorf("%w: %v", ErrMalformedProgram, err)}
	}
	decls, err := program.Uniforms()
	if err != nil {
		return &ConfigError{Material: name, Err: fmt.Errorf("%w: %v", ErrMalformedProgram, err)}
	}
	for _, d := range decls {
		v, ok := set.Get(d.Name)
		if !ok {
			return &ConfigError{Material: name, Uniform: d.Name, Err: ErrUniformMissing}
		}
		want := uniform.KindForGLSL(d.Type)
		if d.Array || want == uniform.Invalid || v.Kind() != want {
			return &ConfigError{
				Material: name,
				Uniform:  d.Name,
				Err:      fmt.Errorf("%w: declared %s, got %s", ErrUniformType, d.Type, v.Kind()),
			}
		}
	}
	return nil
}

func (m *ShaderMaterial) Name() string { return m.name }

func (m *ShaderMaterial) Program() shader.ProgramPair { return m.program }

// Version increments every time the program is rebuilt. Renderers compare it
// to know when to recompile.
func (m *ShaderMaterial) Version() uint64 { return m.version }

// Uniforms exposes the backing store for renderers.
func (m *ShaderMaterial) Uniforms() *uniform.Set { return m.uniforms }

// Uniform returns the current value of a uniform.
func (m *ShaderMaterial) Uniform(name string) (uniform.Value, bool) {
	return m.uniforms.Get(name)
}

// Float returns a float uniform, or 0 if it is missing.
func (m *ShaderMaterial) Float(name string) float32 {
	v, _ := m.uniforms.Get(name)
	return v.Float()
}

// SetFloat writes a float uniform. It reports false when the write was
// dropped because the material is disposed or the uniform does not exist.
func (m *ShaderMaterial) SetFloat(name string, f float32) bool {
	if m.disposed.Load() {
		return false
	}
	return m.uniforms.SetFloat(name, f) == nil
}

func (m *ShaderMaterial) SetColor(name string, c uniform.RGB) bool {
	if m.disposed.Load() {
		return false
	}
	return m.uniforms.SetColor(name, c) == nil
}

func (m *ShaderMaterial) SetTexture(name string, t uniform.TextureHandle) bool {
	if m.disposed.Load() {
		return false
	}
	return m.uniforms.SetTexture(name, t) == nil
}

// Rebuild swaps in a new program after validating it against the current
// uniforms. On failure the previous program stays active.
func (m *ShaderMaterial) Rebuild(program shader.ProgramPair) error {
	if err := validate(m.name, program, m.uniforms); err != nil {
		return err
	}
	m.program = program
	m.version++
	return nil
}

// Dispose marks the material as torn down. Later writes are dropped.
func (m *ShaderMaterial) Dispose() {
	m.disposed.Store(true)
}

func (m *ShaderMaterial) Disposed() bool {
	return m.disposed.Load()
}
