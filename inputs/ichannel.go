package inputs

// Sampler filter and wrap mode names.
const (
	FilterMipmap  = "mipmap"
	FilterLinear  = "linear"
	FilterNearest = "nearest"

	WrapClamp  = "clamp"
	WrapRepeat = "repeat"
	WrapMirror = "mirror"
)

// Sampler describes how a texture is filtered, wrapped and oriented.
type Sampler struct {
	Filter string
	Wrap   string
	// VFlip flips rows on upload so that uv (0,0) is the bottom-left corner
	// of the image.
	VFlip bool
	// SRGB treats texels as sRGB encoded, so sampling returns linear values.
	SRGB bool
}

// DefaultSampler matches a freshly loaded image texture: mipmapped,
// clamped, flipped, raw (non-sRGB) texels.
func DefaultSampler() Sampler {
	return Sampler{Filter: FilterMipmap, Wrap: WrapClamp, VFlip: true}
}

// IChannel is a texture input that a renderer can bind to a sampler
// uniform. It satisfies uniform.TextureHandle.
type IChannel interface {
	// GetTextureID returns the OpenGL texture ID that should be bound, or 0
	// before Upload.
	GetTextureID() uint32

	// ChannelRes returns the resolution of the input channel as a vec3.
	ChannelRes() [3]float32

	// GetSamplerType returns the GLSL sampler type (e.g., "sampler2D").
	GetSamplerType() string

	// Upload creates the GPU texture. It must run on the render thread.
	Upload() error

	// Destroy releases any GPU resources held by the channel.
	Destroy()
}
