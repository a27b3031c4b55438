package clock

import (
	"runtime"
	"testing"

	"github.com/richinsley/goshaderwave/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualSource is a Source advanced explicitly by the test.
type manualSource struct{ now float64 }

func (m *manualSource) Time() float64 { return m.now }

func newWave(t *testing.T) *material.ShaderMaterial {
	t.Helper()
	reg := material.NewRegistry()
	require.NoError(t, material.RegisterBuiltins(reg))
	m, err := reg.New(material.Wave)
	require.NoError(t, err)
	return m
}

func TestClockElapsed(t *testing.T) {
	src := &manualSource{now: 10}
	c := New(src)
	assert.Equal(t, 0.0, c.Elapsed())

	src.now += 0.5
	assert.InDelta(t, 0.5, c.Elapsed(), 1e-12)

	c.Start()
	assert.Equal(t, 0.0, c.Elapsed())
}

func TestTimeDriverLastWriteWins(t *testing.T) {
	m := newWave(t)
	d := NewTimeDriver(m, material.TimeUniform)

	times := []float64{0.016, 0.033, 0.05, 1.25, 2.5}
	for _, ts := range times {
		require.True(t, d.Tick(ts))
	}
	assert.Equal(t, float32(2.5), m.Float(material.TimeUniform))
}

func TestTimeDriverIdempotent(t *testing.T) {
	m := newWave(t)
	d := NewTimeDriver(m, material.TimeUniform)

	d.Tick(1)
	d.Tick(1)
	assert.Equal(t, float32(1), m.Float(material.TimeUniform))
}

func TestTimeDriverDropsAfterDispose(t *testing.T) {
	m := newWave(t)
	d := NewTimeDriver(m, material.TimeUniform)
	d.Tick(1)

	m.Dispose()
	assert.NotPanics(t, func() {
		assert.False(t, d.Tick(2))
	})
	assert.Equal(t, float32(1), m.Float(material.TimeUniform))
}

func TestTimeDriverMissingUniform(t *testing.T) {
	m := newWave(t)
	d := NewTimeDriver(m, "uOther")
	assert.False(t, d.Tick(1))
	assert.Equal(t, "uOther", d.Uniform())
}

// orphanDriver returns a driver whose material is no longer referenced.
func orphanDriver(t *testing.T) *TimeDriver {
	return NewTimeDriver(newWave(t), material.TimeUniform)
}

func TestTimeDriverStopsAfterCollection(t *testing.T) {
	d := orphanDriver(t)

	collected := false
	for i := 0; i < 10 && !collected; i++ {
		runtime.GC()
		assert.NotPanics(t, func() { collected = !d.Tick(float64(i)) })
	}
	assert.True(t, collected, "driver keeps ticking a collected material")
	assert.False(t, d.Tick(1))
}
