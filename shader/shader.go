package shader

import (
	"strings"
)

// ProgramPair holds the vertex and fragment source of one material. Sources
// are written against the WebGL1 dialect with the mesh built-ins
// (projectionMatrix, modelViewMatrix, position, uv) implied; Assemble turns
// them into complete translation units.
type ProgramPair struct {
	Vertex   string
	Fragment string
}

// Stage selects one half of a ProgramPair.
type Stage string

const (
	VertexStage   Stage = "vertex"
	FragmentStage Stage = "fragment"
)

// Source returns the program text for a stage.
func (p ProgramPair) Source(stage Stage) string {
	if stage == VertexStage {
		return p.Vertex
	}
	return p.Fragment
}

// ───────────────────────────────── Flat wave ───────────────────────────────────

const waveVertexSource = `
varying vec2 vUv;
void main() {
    vUv = uv;
    gl_Position = projectionMatrix * modelViewMatrix * vec4(position, 1.0);
}
`

const waveFragmentSource = `
precision mediump float;

uniform vec3 uColor;
uniform float uTime;

varying vec2 vUv;
void main() {
    gl_FragColor = vec4(sin(vUv.y + uTime) * uColor, 1.0);
}
`

// ──────────────────────────────── Noise ripple ─────────────────────────────────

// simplex3D is the 3D simplex noise of Ashima Arts (MIT), as packaged by
// glsl-noise. The Go port lives in reference.Simplex3.
const simplex3D = `
vec3 mod289(vec3 x) { return x - floor(x * (1.0 / 289.0)) * 289.0; }
vec4 mod289(vec4 x) { return x - floor(x * (1.0 / 289.0)) * 289.0; }
vec4 permute(vec4 x) { return mod289(((x * 34.0) + 1.0) * x); }
vec4 taylorInvSqrt(vec4 r) { return 1.79284291400159 - 0.85373472095314 * r; }

float snoise(vec3 v) {
    const vec2 C = vec2(1.0 / 6.0, 1.0 / 3.0);
    const vec4 D = vec4(0.0, 0.5, 1.0, 2.0);

    vec3 i  = floor(v + dot(v, C.yyy));
    vec3 x0 = v - i + dot(i, C.xxx);

    vec3 g  = step(x0.yzx, x0.xyz);
    vec3 l  = 1.0 - g;
    vec3 i1 = min(g.xyz, l.zxy);
    vec3 i2 = max(g.xyz, l.zxy);

    vec3 x1 = x0 - i1 + C.xxx;
    vec3 x2 = x0 - i2 + C.yyy;
    vec3 x3 = x0 - D.yyy;

    i = mod289(i);
    vec4 p = permute(permute(permute(
                 i.z + vec4(0.0, i1.z, i2.z, 1.0))
               + i.y + vec4(0.0, i1.y, i2.y, 1.0))
               + i.x + vec4(0.0, i1.x, i2.x, 1.0));

    float n_ = 0.142857142857;
    vec3 ns = n_ * D.wyz - D.xzx;

    vec4 j = p - 49.0 * floor(p * ns.z * ns.z);

    vec4 x_ = floor(j * ns.z);
    vec4 y_ = floor(j - 7.0 * x_);

    vec4 x = x_ * ns.x + ns.yyyy;
    vec4 y = y_ * ns.x + ns.yyyy;
    vec4 h = 1.0 - abs(x) - abs(y);

    vec4 b0 = vec4(x.xy, y.xy);
    vec4 b1 = vec4(x.zw, y.zw);

    vec4 s0 = floor(b0) * 2.0 + 1.0;
    vec4 s1 = floor(b1) * 2.0 + 1.0;
    vec4 sh = -step(h, vec4(0.0));

    vec4 a0 = b0.xzyw + s0.xzyw * sh.xxyy;
    vec4 a1 = b1.xzyw + s1.xzyw * sh.zzww;

    vec3 p0 = vec3(a0.xy, h.x);
    vec3 p1 = vec3(a0.zw, h.y);
    vec3 p2 = vec3(a1.xy, h.z);
    vec3 p3 = vec3(a1.zw, h.w);

    vec4 norm = taylorInvSqrt(vec4(dot(p0, p0), dot(p1, p1), dot(p2, p2), dot(p3, p3)));
    p0 *= norm.x;
    p1 *= norm.y;
    p2 *= norm.z;
    p3 *= norm.w;

    vec4 m = max(0.6 - vec4(dot(x0, x0), dot(x1, x1), dot(x2, x2), dot(x3, x3)), 0.0);
    m = m * m;
    return 42.0 * dot(m * m, vec4(dot(p0, x0), dot(p1, x1), dot(p2, x2), dot(p3, x3)));
}
`

// Displacement constants shared with the software evaluator.
const (
	RippleNoiseFrequency = 2.0
	RippleNoiseAmplitude = 0.4
	RippleWaveScale      = 0.2
)

const rippleVertexSource = `
precision mediump float;

varying vec2 vUv;
varying float vWave;

uniform float uTime;
` + simplex3D + `
void main() {
    vUv = uv;

    vec3 pos = position;
    float noiseFreq = 2.0;
    float noiseAmp = 0.4;
    vec3 noisePos = vec3(pos.x * noiseFreq + uTime, pos.y, pos.z);
    pos.z += snoise(noisePos) * noiseAmp;
    vWave = pos.z;

    gl_Position = projectionMatrix * modelViewMatrix * vec4(pos, 1.0);
}
`

const rippleFragmentSource = `
precision mediump float;

uniform vec3 uColor;
uniform float uTime;
uniform sampler2D uTexture;

varying vec2 vUv;
varying float vWave;

void main() {
    float wave = vWave * 0.2;
    vec3 texel = texture2D(uTexture, vUv + wave).rgb;
    gl_FragColor = vec4(texel, 1.0);
}
`

// ────────────────────────────────── Scaffold ───────────────────────────────────

const scaffoldVertexSource = `
void main() {
    gl_Position = projectionMatrix * modelViewMatrix * vec4(position, 1.0);
}
`

// The fragment stage is an unfinished placeholder and writes no color.
const scaffoldFragmentSource = `
void main() {
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

func WaveProgram() ProgramPair {
	return ProgramPair{Vertex: waveVertexSource, Fragment: waveFragmentSource}
}

func RippleProgram() ProgramPair {
	return ProgramPair{Vertex: rippleVertexSource, Fragment: rippleFragmentSource}
}

func ScaffoldProgram() ProgramPair {
	return ProgramPair{Vertex: scaffoldVertexSource, Fragment: scaffoldFragmentSource}
}

// Builtin returns the built-in program registered under name.
func Builtin(name string) (ProgramPair, bool) {
	switch name {
	case "wave":
		return WaveProgram(), true
	case "ripple":
		return RippleProgram(), true
	case "scaffold":
		return ScaffoldProgram(), true
	}
	return ProgramPair{}, false
}

// ────────────────────── Dynamic preamble / user code glue ──────────────────────

const vertexPreamble = `#version 300 es
precision highp float;
precision highp int;

uniform mat4 projectionMatrix;
uniform mat4 modelViewMatrix;

layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;
layout (location = 2) in vec2 uv;
`

const fragmentPreamble = `#version 300 es
precision highp float;
precision highp int;

out vec4 fragColor;
`

// Attribute locations bound by the vertex preamble.
const (
	PositionLocation = 0
	NormalLocation   = 1
	UVLocation       = 2
)

// Assemble produces a complete GLSL ES 3.00 translation unit for one stage:
// the preamble declaring the mesh built-ins followed by the program text with
// WebGL1 idioms rewritten.
func Assemble(p ProgramPair, stage Stage) string {
	src := p.Source(stage)
	if stage == VertexStage {
		return vertexPreamble + rewriteLegacy(src, "out")
	}
	return fragmentPreamble + rewriteLegacy(src, "in")
}

// rewriteLegacy maps varying to the stage's in/out qualifier and replaces the
// WebGL1 built-ins that GLSL ES 3.00 removed.
func rewriteLegacy(src, varyingQualifier string) string {
	var b strings.Builder
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "varying ") {
			line = strings.Replace(line, "varying ", varyingQualifier+" ", 1)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	out := b.String()
	out = replaceIdent(out, "texture2D", "texture")
	out = replaceIdent(out, "gl_FragColor", "fragColor")
	return out
}

// replaceIdent substitutes whole identifiers only.
func replaceIdent(src, old, repl string) string {
	var b strings.Builder
	for {
		i := strings.Index(src, old)
		if i < 0 {
			b.WriteString(src)
			return b.String()
		}
		end := i + len(old)
		if (i > 0 && isIdentByte(src[i-1])) || (end < len(src) && isIdentByte(src[end])) {
			b.WriteString(src[:end])
		} else {
			b.WriteString(src[:i])
			b.WriteString(repl)
		}
		src = src[end:]
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
