package reference

import (
	"github.com/chewxy/math32"
)

type vec3 [3]float32
type vec4 [4]float32

func floor4(v vec4) vec4 {
	return vec4{math32.Floor(v[0]), math32.Floor(v[1]), math32.Floor(v[2]), math32.Floor(v[3])}
}

func mod289(x float32) float32 {
	return x - math32.Floor(x*(1.0/289.0))*289.0
}

func mod289v(v vec4) vec4 {
	return vec4{mod289(v[0]), mod289(v[1]), mod289(v[2]), mod289(v[3])}
}

func permute(x vec4) vec4 {
	var out vec4
	for i := range x {
		out[i] = ((x[i] * 34.0) + 1.0) * x[i]
	}
	return mod289v(out)
}

func taylorInvSqrt(r vec4) vec4 {
	var out vec4
	for i := range r {
		out[i] = 1.79284291400159 - 0.85373472095314*r[i]
	}
	return out
}

// step mirrors GLSL step(edge, x).
func step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

func dot3(a, b vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Simplex3 evaluates 3D simplex noise, matching the snoise function compiled
// into the ripple vertex program. The result lies roughly in [-1, 1].
func Simplex3(vx, vy, vz float32) float32 {
	const (
		cx = 1.0 / 6.0
		cy = 1.0 / 3.0
	)

	// First corner.
	s := (vx + vy + vz) * cy
	i := vec3{math32.Floor(vx + s), math32.Floor(vy + s), math32.Floor(vz + s)}
	t := (i[0] + i[1] + i[2]) * cx
	x0 := vec3{vx - i[0] + t, vy - i[1] + t, vz - i[2] + t}

	// Other corners.
	g := vec3{step(x0[1], x0[0]), step(x0[2], x0[1]), step(x0[0], x0[2])}
	l := vec3{1 - g[0], 1 - g[1], 1 - g[2]}
	i1 := vec3{min(g[0], l[2]), min(g[1], l[0]), min(g[2], l[1])}
	i2 := vec3{max(g[0], l[2]), max(g[1], l[0]), max(g[2], l[1])}

	x1 := vec3{x0[0] - i1[0] + cx, x0[1] - i1[1] + cx, x0[2] - i1[2] + cx}
	x2 := vec3{x0[0] - i2[0] + cy, x0[1] - i2[1] + cy, x0[2] - i2[2] + cy}
	x3 := vec3{x0[0] - 0.5, x0[1] - 0.5, x0[2] - 0.5}

	for k := range i {
		i[k] = mod289(i[k])
	}
	return blendCorners(x0, x1, x2, x3, i, i1, i2)
}

// blendCorners hashes the simplex corners into gradients and sums the four
// corner contributions.
func blendCorners(x0, x1, x2, x3, i, i1, i2 vec3) float32 {
	// Permutations.
	p := permute(vec4{i[2] + 0, i[2] + i1[2], i[2] + i2[2], i[2] + 1})
	p = permute(vec4{p[0] + i[1] + 0, p[1] + i[1] + i1[1], p[2] + i[1] + i2[1], p[3] + i[1] + 1})
	p = permute(vec4{p[0] + i[0] + 0, p[1] + i[0] + i1[0], p[2] + i[0] + i2[0], p[3] + i[0] + 1})

	// Gradients: 7x7 points over a square, mapped onto an octahedron.
	const n = 0.142857142857
	ns := vec3{n * 2.0, n*0.5 - 1.0, n * 1.0}

	var j, x, y, h vec4
	for k := range p {
		j[k] = p[k] - 49.0*math32.Floor(p[k]*ns[2]*ns[2])
		xk := math32.Floor(j[k] * ns[2])
		yk := math32.Floor(j[k] - 7.0*xk)
		x[k] = xk*ns[0] + ns[1]
		y[k] = yk*ns[0] + ns[1]
		h[k] = 1.0 - math32.Abs(x[k]) - math32.Abs(y[k])
	}

	b0 := vec4{x[0], x[1], y[0], y[1]}
	b1 := vec4{x[2], x[3], y[2], y[3]}

	s0 := floor4(b0)
	s1 := floor4(b1)
	for k := 0; k < 4; k++ {
		s0[k] = s0[k]*2.0 + 1.0
		s1[k] = s1[k]*2.0 + 1.0
	}
	var sh vec4
	for k := range h {
		sh[k] = -step(h[k], 0)
	}

	a0 := vec4{
		b0[0] + s0[0]*sh[0],
		b0[2] + s0[2]*sh[0],
		b0[1] + s0[1]*sh[1],
		b0[3] + s0[3]*sh[1],
	}
	a1 := vec4{
		b1[0] + s1[0]*sh[2],
		b1[2] + s1[2]*sh[2],
		b1[1] + s1[1]*sh[3],
		b1[3] + s1[3]*sh[3],
	}

	p0 := vec3{a0[0], a0[1], h[0]}
	p1 := vec3{a0[2], a0[3], h[1]}
	p2 := vec3{a1[0], a1[1], h[2]}
	p3 := vec3{a1[2], a1[3], h[3]}

	norm := taylorInvSqrt(vec4{dot3(p0, p0), dot3(p1, p1), dot3(p2, p2), dot3(p3, p3)})
	grads := [4]vec3{p0, p1, p2, p3}
	corners := [4]vec3{x0, x1, x2, x3}

	// Mix final noise value.
	var sum float32
	for k := 0; k < 4; k++ {
		g := grads[k]
		g = vec3{g[0] * norm[k], g[1] * norm[k], g[2] * norm[k]}
		m := max(0.6-dot3(corners[k], corners[k]), 0)
		m *= m
		sum += m * m * dot3(g, corners[k])
	}
	return 42.0 * sum
}
