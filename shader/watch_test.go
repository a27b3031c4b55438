package shader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	base := WaveProgram()

	p, err := LoadOverride(dir, "wave", base)
	require.NoError(t, err)
	assert.Equal(t, base, p)

	frag := "void main() { gl_FragColor = vec4(1.0); }"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wave.frag"), []byte(frag), 0o644))

	p, err = LoadOverride(dir, "wave", base)
	require.NoError(t, err)
	assert.Equal(t, base.Vertex, p.Vertex)
	assert.Equal(t, frag, p.Fragment)
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, "wave", WaveProgram())
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	frag := "uniform float uTime;\nvoid main() {}"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wave.frag"), []byte(frag), 0o644))

	select {
	case p := <-w.Updates():
		assert.Equal(t, frag, p.Fragment)
		assert.Equal(t, WaveProgram().Vertex, p.Vertex)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
