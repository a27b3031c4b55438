package translator

import (
	"context"
	"fmt"
	"sync"

	"github.com/richinsley/goshaderwave/shader"
	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorErr
}

// Program is a ProgramPair translated for the current GL flavor.
type Program struct {
	Vertex   string
	Fragment string
	// MappedNames maps a source identifier to the name it has in the
	// translated code.
	MappedNames map[string]string
}

// MappedName returns the translated name of a source identifier, falling
// back to the identifier itself.
func (p *Program) MappedName(name string) string {
	if m, ok := p.MappedNames[name]; ok && m != "" {
		return m
	}
	return name
}

// Translate validates and translates both stages of a program pair.
func Translate(p shader.ProgramPair, isGLES bool) (*Program, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}

	outputFormat := gst.OutputFormatGLSL410
	if isGLES {
		outputFormat = gst.OutputFormatESSL
	}

	vs, err := t.TranslateShader(shader.Assemble(p, shader.VertexStage), string(shader.VertexStage), gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("vertex shader translation failed: %w", err)
	}
	fs, err := t.TranslateShader(shader.Assemble(p, shader.FragmentStage), string(shader.FragmentStage), gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	out := &Program{
		Vertex:      vs.Code,
		Fragment:    fs.Code,
		MappedNames: make(map[string]string),
	}
	for name, v := range vs.Variables {
		out.MappedNames[name] = v.MappedName
	}
	for name, v := range fs.Variables {
		out.MappedNames[name] = v.MappedName
	}
	return out, nil
}
