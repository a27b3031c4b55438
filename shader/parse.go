package shader

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrMalformed          = errors.New("malformed program")
	ErrConflictingUniform = errors.New("uniform declared with conflicting types")
)

// Declaration is one uniform declared in program text.
type Declaration struct {
	Name  string
	Type  string
	Array bool
	Stage Stage
}

var uniformDecl = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?([A-Za-z_][A-Za-z0-9_]*)\s+([^;{}]+);`)

var mainDecl = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(?:void\s*)?\)\s*\{`)

// ParseUniforms returns the uniforms declared in src, in source order.
func ParseUniforms(src string, stage Stage) []Declaration {
	src = StripComments(src)
	var out []Declaration
	for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
		typ := m[1]
		for _, part := range strings.Split(m[2], ",") {
			name := strings.TrimSpace(part)
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				name = strings.TrimSpace(name[:eq])
			}
			array := false
			if br := strings.IndexByte(name, '['); br >= 0 {
				name = strings.TrimSpace(name[:br])
				array = true
			}
			if name == "" {
				continue
			}
			out = append(out, Declaration{Name: name, Type: typ, Array: array, Stage: stage})
		}
	}
	return out
}

// Uniforms merges the declarations of both stages. A uniform declared in
// both stages must carry the same type in each.
func (p ProgramPair) Uniforms() ([]Declaration, error) {
	seen := make(map[string]Declaration)
	var out []Declaration
	for _, stage := range []Stage{VertexStage, FragmentStage} {
		for _, d := range ParseUniforms(p.Source(stage), stage) {
			if prev, ok := seen[d.Name]; ok {
				if prev.Type != d.Type || prev.Array != d.Array {
					return nil, fmt.Errorf("%w: %s is %s in %s stage and %s in %s stage",
						ErrConflictingUniform, d.Name, prev.Type, prev.Stage, d.Type, d.Stage)
				}
				continue
			}
			seen[d.Name] = d
			out = append(out, d)
		}
	}
	return out, nil
}

// Check performs the structural checks that can be made without a GLSL
// compiler: each stage needs a main function and balanced delimiters.
func (p ProgramPair) Check() error {
	for _, stage := range []Stage{VertexStage, FragmentStage} {
		if err := checkStage(p.Source(stage)); err != nil {
			return fmt.Errorf("%s stage: %w", stage, err)
		}
	}
	return nil
}

func checkStage(src string) error {
	src = StripComments(src)
	if !mainDecl.MatchString(src) {
		return fmt.Errorf("%w: no main function", ErrMalformed)
	}
	pairs := map[byte]byte{'}': '{', ')': '(', ']': '['}
	var stack []byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '{', '(', '[':
			stack = append(stack, c)
		case '}', ')', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[c] {
				return fmt.Errorf("%w: unexpected %q", ErrMalformed, c)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 {
		return fmt.Errorf("%w: unclosed %q", ErrMalformed, stack[len(stack)-1])
	}
	return nil
}

// StripComments removes // and /* */ comments, keeping line structure.
func StripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == '/' && i+1 < len(src) {
			switch src[i+1] {
			case '/':
				for i < len(src) && src[i] != '\n' {
					i++
				}
				if i < len(src) {
					b.WriteByte('\n')
				}
				continue
			case '*':
				i += 2
				for i < len(src) && !(src[i] == '*' && i+1 < len(src) && src[i+1] == '/') {
					if src[i] == '\n' {
						b.WriteByte('\n')
					}
					i++
				}
				i++
				b.WriteByte(' ')
				continue
			}
		}
		b.WriteByte(src[i])
	}
	return b.String()
}
