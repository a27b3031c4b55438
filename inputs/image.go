// inputs/image.go
package inputs

import (
	"fmt"
	"image"
	"log"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"
)

// ImageChannel represents a static image texture input.
type ImageChannel struct {
	name       string
	rgba       *image.RGBA
	textureID  uint32
	resolution [3]float32
	sampler    Sampler
}

// vflip vertically flips the provided RGBA image.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	// This is faster than calling At/Set for each pixel
	rowSize := bounds.Dx() * 4 // 4 bytes per pixel (RGBA)
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// NewImageChannel converts img to RGBA in upload order. The GPU texture is
// created later by Upload.
func NewImageChannel(name string, img image.Image, sampler Sampler) (*ImageChannel, error) {
	if img == nil {
		return nil, fmt.Errorf("input image %s is nil", name)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("input image %s is empty", name)
	}

	// Convert source image to RGBA for consistency.
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	if sampler.VFlip {
		rgba = vflip(rgba)
	}

	return &ImageChannel{
		name: name,
		rgba: rgba,
		resolution: [3]float32{
			float32(b.Dx()),
			float32(b.Dy()),
			1.0,
		},
		sampler: sampler,
	}, nil
}

// Upload creates and fills the OpenGL texture. Calling it again is a no-op.
func (c *ImageChannel) Upload() error {
	if c.textureID != 0 {
		return nil
	}
	width := int32(c.rgba.Rect.Size().X)
	height := int32(c.rgba.Rect.Size().Y)

	gl.GenTextures(1, &c.textureID)
	if c.textureID == 0 {
		return fmt.Errorf("failed to allocate texture for %s", c.name)
	}
	gl.BindTexture(gl.TEXTURE_2D, c.textureID)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, getWrapMode(c.sampler.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, getWrapMode(c.sampler.Wrap))

	minFilter, magFilter := getFilterMode(c.sampler.Filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)

	var internalFormat int32 = gl.RGBA8
	if c.sampler.SRGB {
		internalFormat = gl.SRGB8_ALPHA8
	}
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		internalFormat,
		width,
		height,
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(c.rgba.Pix),
	)

	if minFilter == gl.LINEAR_MIPMAP_LINEAR {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	log.Printf("Uploaded texture %s (%dx%d)", c.name, width, height)
	return nil
}

// wrap maps a texture coordinate into [0, 1] according to the wrap mode.
func (c *ImageChannel) wrap(t float32) float32 {
	switch c.sampler.Wrap {
	case WrapRepeat:
		return t - math32.Floor(t)
	case WrapMirror:
		f := t - 2*math32.Floor(t/2)
		if f > 1 {
			f = 2 - f
		}
		return f
	default:
		return min(max(t, 0), 1)
	}
}

func (c *ImageChannel) texel(x, y int) [4]float32 {
	w, h := c.rgba.Rect.Dx(), c.rgba.Rect.Dy()
	x = min(max(x, 0), w-1)
	y = min(max(y, 0), h-1)
	i := y*c.rgba.Stride + x*4
	p := c.rgba.Pix[i : i+4 : i+4]
	out := [4]float32{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
	if c.sampler.SRGB {
		for k := 0; k < 3; k++ {
			out[k] = srgbToLinear(out[k])
		}
	}
	return out
}

// srgbToLinear decodes one sRGB channel the way GL does for SRGB8_ALPHA8.
func srgbToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math32.Pow((v+0.055)/1.055, 2.4)
}

// Sample reads the texture on the CPU using GL texture coordinates: v = 0 is
// the first uploaded row. Nearest filtering picks one texel; the other
// filters blend the four nearest texels.
func (c *ImageChannel) Sample(u, v float32) [4]float32 {
	w := float32(c.rgba.Rect.Dx())
	h := float32(c.rgba.Rect.Dy())
	x := c.wrap(u)*w - 0.5
	y := c.wrap(v)*h - 0.5

	if c.sampler.Filter == FilterNearest {
		return c.texel(int(math32.Floor(x+0.5)), int(math32.Floor(y+0.5)))
	}

	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	fx := x - x0
	fy := y - y0
	ix, iy := int(x0), int(y0)
	t00 := c.texel(ix, iy)
	t10 := c.texel(ix+1, iy)
	t01 := c.texel(ix, iy+1)
	t11 := c.texel(ix+1, iy+1)

	var out [4]float32
	for k := range out {
		top := t00[k]*(1-fx) + t10[k]*fx
		bottom := t01[k]*(1-fx) + t11[k]*fx
		out[k] = top*(1-fy) + bottom*fy
	}
	return out
}

// --- IChannel Interface Implementation ---

var _ IChannel = (*ImageChannel)(nil)

func (c *ImageChannel) Name() string {
	return c.name
}

func (c *ImageChannel) GetTextureID() uint32 {
	return c.textureID
}

func (c *ImageChannel) ChannelRes() [3]float32 {
	return c.resolution
}

func (c *ImageChannel) Destroy() {
	if c.textureID != 0 {
		gl.DeleteTextures(1, &c.textureID)
		c.textureID = 0
	}
}

func (c *ImageChannel) GetSamplerType() string {
	// All image inputs are currently treated as 2D textures.
	return "sampler2D"
}
