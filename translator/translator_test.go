package translator

import (
	"testing"

	"github.com/richinsley/goshaderwave/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappedNameFallback(t *testing.T) {
	p := &Program{MappedNames: map[string]string{"uTime": "_uuTime", "empty": ""}}
	assert.Equal(t, "_uuTime", p.MappedName("uTime"))
	assert.Equal(t, "empty", p.MappedName("empty"))
	assert.Equal(t, "uColor", p.MappedName("uColor"))
}

func TestTranslateBuiltins(t *testing.T) {
	if testing.Short() {
		t.Skip("starts the wasm translator")
	}
	for _, name := range []string{"wave", "ripple"} {
		t.Run(name, func(t *testing.T) {
			p, ok := shader.Builtin(name)
			require.True(t, ok)
			out, err := Translate(p, false)
			require.NoError(t, err)
			assert.NotEmpty(t, out.Vertex)
			assert.NotEmpty(t, out.Fragment)
			assert.NotEmpty(t, out.MappedName("uTime"))
		})
	}
}
