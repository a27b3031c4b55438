package material

import (
	"errors"
	"testing"

	"github.com/richinsley/goshaderwave/shader"
	"github.com/richinsley/goshaderwave/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, RegisterBuiltins(reg))
	return reg
}

func TestNewReadsDefaults(t *testing.T) {
	set := uniform.NewSet()
	set.Declare(TimeUniform, uniform.FloatValue(0.25))
	set.Declare(ColorUniform, uniform.ColorValue(uniform.RGB{1, 0.84, 0}))

	m, err := New(Wave, shader.WaveProgram(), set)
	require.NoError(t, err)

	v, ok := m.Uniform(TimeUniform)
	require.True(t, ok)
	assert.Equal(t, float32(0.25), v.Float())

	v, ok = m.Uniform(ColorUniform)
	require.True(t, ok)
	assert.Equal(t, uniform.RGB{1, 0.84, 0}, v.Color())

	// The material owns a copy of the defaults.
	require.NoError(t, set.SetFloat(TimeUniform, 9))
	assert.Equal(t, float32(0.25), m.Float(TimeUniform))
}

func TestNewRejectsMismatch(t *testing.T) {
	tests := []struct {
		name    string
		set     func() *uniform.Set
		uniform string
		want    error
	}{
		{
			name: "scalar for sampler",
			set: func() *uniform.Set {
				s := uniform.NewSet()
				s.Declare(TimeUniform, uniform.FloatValue(0))
				s.Declare(ColorUniform, uniform.ColorValue(uniform.RGB{}))
				s.Declare(TextureUniform, uniform.FloatValue(1))
				return s
			},
			uniform: TextureUniform,
			want:    ErrUniformType,
		},
		{
			name: "color for float",
			set: func() *uniform.Set {
				s := uniform.NewSet()
				s.Declare(TimeUniform, uniform.ColorValue(uniform.RGB{}))
				s.Declare(ColorUniform, uniform.ColorValue(uniform.RGB{}))
				s.Declare(TextureUniform, uniform.TextureValue(nil))
				return s
			},
			uniform: TimeUniform,
			want:    ErrUniformType,
		},
		{
			name: "missing texture",
			set: func() *uniform.Set {
				s := uniform.NewSet()
				s.Declare(TimeUniform, uniform.FloatValue(0))
				s.Declare(ColorUniform, uniform.ColorValue(uniform.RGB{}))
				return s
			},
			uniform: TextureUniform,
			want:    ErrUniformMissing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Ripple, shader.RippleProgram(), tt.set())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, Ripple, cerr.Material)
			assert.Equal(t, tt.uniform, cerr.Uniform)
		})
	}
}

func TestNewRejectsMalformedProgram(t *testing.T) {
	p := shader.ProgramPair{Vertex: "void main() {}", Fragment: "void main() {"}
	_, err := New("broken", p, nil)
	assert.ErrorIs(t, err, ErrMalformedProgram)
}

func TestScaffoldConstructs(t *testing.T) {
	m, err := builtinRegistry(t).New(Scaffold)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Uniforms().Len())
}

func TestExtraUniformsAllowed(t *testing.T) {
	m, err := builtinRegistry(t).New(Wave, WithFloat("uUnused", 3))
	require.NoError(t, err)
	assert.Equal(t, float32(3), m.Float("uUnused"))
}

func TestSettersAndDispose(t *testing.T) {
	m, err := builtinRegistry(t).New(Wave, WithColor(ColorUniform, uniform.RGB{1, 0, 0}))
	require.NoError(t, err)

	assert.True(t, m.SetFloat(TimeUniform, 2))
	assert.Equal(t, float32(2), m.Float(TimeUniform))
	assert.False(t, m.SetFloat(ColorUniform, 1), "kind mismatch is dropped")
	assert.False(t, m.SetFloat("uMissing", 1))

	m.Dispose()
	assert.True(t, m.Disposed())
	assert.False(t, m.SetFloat(TimeUniform, 5))
	assert.Equal(t, float32(2), m.Float(TimeUniform))
}

func TestRebuild(t *testing.T) {
	m, err := builtinRegistry(t).New(Wave)
	require.NoError(t, err)
	orig := m.Program()

	bad := shader.ProgramPair{
		Vertex:   orig.Vertex,
		Fragment: "uniform sampler2D uTexture;\nvoid main() {}",
	}
	err = m.Rebuild(bad)
	assert.ErrorIs(t, err, ErrUniformMissing)
	assert.Equal(t, orig, m.Program())
	assert.Equal(t, uint64(0), m.Version())

	good := shader.ProgramPair{
		Vertex:   orig.Vertex,
		Fragment: "uniform float uTime;\nvoid main() { gl_FragColor = vec4(uTime); }",
	}
	require.NoError(t, m.Rebuild(good))
	assert.Equal(t, good, m.Program())
	assert.Equal(t, uint64(1), m.Version())
}

func TestRegistry(t *testing.T) {
	reg := builtinRegistry(t)
	assert.Equal(t, []string{Ripple, Scaffold, Wave}, reg.Names())

	err := reg.Register(Definition{Name: Wave, Program: shader.WaveProgram()})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = reg.New("missing")
	assert.ErrorIs(t, err, ErrUnknownMaterial)

	assert.ErrorIs(t, reg.Override("missing", shader.WaveProgram()), ErrUnknownMaterial)
	require.NoError(t, reg.Override(Scaffold, shader.WaveProgram()))
	_, err = reg.New(Scaffold)
	assert.ErrorIs(t, err, ErrUniformMissing, "overridden program needs the wave uniforms")

	a, err := reg.New(Wave)
	require.NoError(t, err)
	b, err := reg.New(Wave)
	require.NoError(t, err)
	a.SetFloat(TimeUniform, 1)
	assert.Equal(t, float32(0), b.Float(TimeUniform), "instances do not share uniforms")
}
