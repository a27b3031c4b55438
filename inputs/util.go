package inputs

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Helper to convert a wrap mode name to the OpenGL constant.
func getWrapMode(wrap string) int32 {
	switch wrap {
	case WrapRepeat:
		return gl.REPEAT
	case WrapMirror:
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}

// Helper to convert a filter name to OpenGL min/mag constants.
func getFilterMode(filter string) (minFilter, magFilter int32) {
	switch filter {
	case FilterLinear:
		return gl.LINEAR, gl.LINEAR
	case FilterNearest:
		return gl.NEAREST, gl.NEAREST
	default:
		return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	}
}
