package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/richinsley/goshaderwave/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var variants = []string{"wave", "ripple", "scaffold"}

func TestDefaultsValid(t *testing.T) {
	require.NoError(t, Defaults().Validate(variants))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *ShaderOptions)
	}{
		{"variant", func(o *ShaderOptions) { *o.Variant = "plasma" }},
		{"width", func(o *ShaderOptions) { *o.Width = 0 }},
		{"fps", func(o *ShaderOptions) { *o.FPS = -1 }},
		{"duration", func(o *ShaderOptions) { *o.Record = true; *o.Duration = 0 }},
		{"color", func(o *ShaderOptions) { *o.Color = "not-a-color" }},
		{"headless", func(o *ShaderOptions) { *o.Headless = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Defaults()
			tt.mutate(o)
			assert.ErrorIs(t, o.Validate(variants), ErrInvalid)
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("gold")
	require.NoError(t, err)
	assert.Equal(t, uniform.RGB{1, float32(215) / 255, 0}, c)

	c, err = ParseColor("#FF0000")
	require.NoError(t, err)
	assert.Equal(t, uniform.RGB{1, 0, 0}, c)

	_, err = ParseColor("#12345")
	assert.Error(t, err)
	_, err = ParseColor("#zzzzzz")
	assert.Error(t, err)
}

func TestLoadFileRespectsExplicitFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wave.toml")
	data := `
variant = "ripple"
texture = "assets/water.png"
width = 640
fps = 30
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	o := Defaults()
	*o.FPS = 24
	require.NoError(t, o.LoadFile(path, map[string]bool{"fps": true}))

	assert.Equal(t, "ripple", *o.Variant)
	assert.Equal(t, "assets/water.png", *o.Texture)
	assert.Equal(t, 640, *o.Width)
	assert.Equal(t, 720, *o.Height, "absent keys keep defaults")
	assert.Equal(t, 24, *o.FPS, "explicit flag wins")
}

func TestLoadFileErrors(t *testing.T) {
	o := Defaults()
	assert.Error(t, o.LoadFile(filepath.Join(t.TempDir(), "missing.toml"), nil))

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("width = \"wide\""), 0o644))
	assert.Error(t, o.LoadFile(path, nil))
}
