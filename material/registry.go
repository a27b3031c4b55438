package material

import (
	"fmt"
	"sort"
	"sync"

	"github.com/richinsley/goshaderwave/shader"
	"github.com/richinsley/goshaderwave/uniform"
)

// Option overrides a uniform default before the material is validated.
type Option func(*uniform.Set)

// WithFloat sets a float uniform default.
func WithFloat(name string, f float32) Option {
	return func(s *uniform.Set) { s.Declare(name, uniform.FloatValue(f)) }
}

// WithColor sets a color uniform default.
func WithColor(name string, c uniform.RGB) Option {
	return func(s *uniform.Set) { s.Declare(name, uniform.ColorValue(c)) }
}

// WithTexture sets a texture uniform default.
func WithTexture(name string, t uniform.TextureHandle) Option {
	return func(s *uniform.Set) { s.Declare(name, uniform.TextureValue(t)) }
}

// Definition is a registrable material. Defaults returns a fresh uniform set
// for every instance.
type Definition struct {
	Name     string
	Program  shader.ProgramPair
	Defaults func() *uniform.Set
}

// Registry maps material names to their definitions. Scene composition
// receives a Registry explicitly so construction order is deterministic.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a definition. Names are unique.
func (r *Registry) Register(def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[def.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

// Override replaces the program of a registered definition, keeping its
// defaults.
func (r *Registry) Override(name string, program shader.ProgramPair) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	def, ok := r.defs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMaterial, name)
	}
	def.Program = program
	r.defs[name] = def
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Names lists registered materials in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.defs))
	for name := range r.defs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New builds a fresh material instance from a registered definition.
func (r *Registry) New(name string, opts ...Option) (*ShaderMaterial, error) {
	def, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMaterial, name)
	}
	set := uniform.NewSet()
	if def.Defaults != nil {
		set = def.Defaults()
	}
	for _, opt := range opts {
		opt(set)
	}
	return New(def.Name, def.Program, set)
}
