package uniform

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("uniform not found")
	ErrKindMismatch = errors.New("uniform kind mismatch")
)

// Set maps uniform names to typed values. Names keep their insertion order so
// that uploads happen in a stable sequence. A Set is owned by one material and
// is not safe for concurrent writers.
type Set struct {
	names  []string
	values map[string]Value
}

// NewSet creates an empty uniform set.
func NewSet() *Set {
	return &Set{values: make(map[string]Value)}
}

// Declare adds or replaces a uniform, fixing its kind.
func (s *Set) Declare(name string, v Value) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = v
}

// Get returns the value stored under name.
func (s *Set) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Set overwrites an existing uniform. The new value must have the same kind as
// the declared one.
func (s *Set) Set(name string, v Value) error {
	cur, ok := s.values[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if cur.kind != v.kind {
		return fmt.Errorf("%w: %s is %s, got %s", ErrKindMismatch, name, cur.kind, v.kind)
	}
	s.values[name] = v
	return nil
}

func (s *Set) SetFloat(name string, f float32) error {
	return s.Set(name, FloatValue(f))
}

func (s *Set) SetColor(name string, c RGB) error {
	return s.Set(name, ColorValue(c))
}

func (s *Set) SetTexture(name string, t TextureHandle) error {
	return s.Set(name, TextureValue(t))
}

// Names returns uniform names in declaration order.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *Set) Len() int { return len(s.names) }

// Each calls fn for every uniform in declaration order.
func (s *Set) Each(fn func(name string, v Value)) {
	for _, name := range s.names {
		fn(name, s.values[name])
	}
}

// Clone returns an independent copy. Texture handles are shared.
func (s *Set) Clone() *Set {
	c := &Set{
		names:  make([]string, len(s.names)),
		values: make(map[string]Value, len(s.values)),
	}
	copy(c.names, s.names)
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}
