package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/richinsley/goshaderwave/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions() *options.ShaderOptions {
	o := options.Defaults()
	*o.Width = 48
	*o.Height = 32
	*o.Software = true
	return o
}

func TestRunExitCodes(t *testing.T) {
	o := smallOptions()
	*o.Variant = "plasma"
	assert.Equal(t, 2, run(o, nil), "invalid options")

	o = smallOptions()
	*o.Config = filepath.Join(t.TempDir(), "missing.toml")
	assert.Equal(t, 1, run(o, nil), "unreadable config")

	dir := t.TempDir()
	frag := "precision mediump float;\nuniform float uMissing;\nvoid main() { gl_FragColor = vec4(uMissing); }\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wave.frag"), []byte(frag), 0o644))
	o = smallOptions()
	*o.ShaderDir = dir
	*o.Snapshot = filepath.Join(t.TempDir(), "frame.png")
	assert.Equal(t, 1, run(o, nil), "override declares a uniform without a default")
}

func TestRunSoftwareSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wave.png")
	o := smallOptions()
	*o.Snapshot = path
	*o.SnapshotAt = 1.5
	require.Equal(t, 0, run(o, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 48, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}
