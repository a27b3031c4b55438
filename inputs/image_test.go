package inputs

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoRows is a 2x2 image: red on top, blue below.
func twoRows() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		img.SetRGBA(x, 0, color.RGBA{255, 0, 0, 255})
		img.SetRGBA(x, 1, color.RGBA{0, 0, 255, 255})
	}
	return img
}

func TestNewImageChannelFlip(t *testing.T) {
	nearest := Sampler{Filter: FilterNearest, Wrap: WrapClamp}

	ch, err := NewImageChannel("plain", twoRows(), nearest)
	require.NoError(t, err)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, ch.Sample(0.25, 0.25))

	nearest.VFlip = true
	ch, err = NewImageChannel("flipped", twoRows(), nearest)
	require.NoError(t, err)
	assert.Equal(t, [4]float32{0, 0, 1, 1}, ch.Sample(0.25, 0.25), "v=0 is the image bottom")
	assert.Equal(t, [4]float32{1, 0, 0, 1}, ch.Sample(0.25, 0.75))
	assert.Equal(t, [3]float32{2, 2, 1}, ch.ChannelRes())
	assert.Equal(t, "sampler2D", ch.GetSamplerType())
	assert.Equal(t, uint32(0), ch.GetTextureID(), "not uploaded yet")
}

func TestNewImageChannelRejectsEmpty(t *testing.T) {
	_, err := NewImageChannel("nil", nil, DefaultSampler())
	assert.Error(t, err)
	_, err = NewImageChannel("empty", image.NewRGBA(image.Rect(0, 0, 0, 0)), DefaultSampler())
	assert.Error(t, err)
}

func TestSampleWrapModes(t *testing.T) {
	tests := []struct {
		wrap string
		u, v float32
		want [4]float32
	}{
		{WrapClamp, 0.25, 1.7, [4]float32{0, 0, 1, 1}},
		{WrapClamp, 0.25, -3, [4]float32{1, 0, 0, 1}},
		{WrapRepeat, 0.25, 1.25, [4]float32{1, 0, 0, 1}},
		{WrapRepeat, 0.25, 1.75, [4]float32{0, 0, 1, 1}},
		{WrapMirror, 0.25, 1.25, [4]float32{0, 0, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.wrap, func(t *testing.T) {
			ch, err := NewImageChannel("img", twoRows(), Sampler{Filter: FilterNearest, Wrap: tt.wrap})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ch.Sample(tt.u, tt.v))
		})
	}
}

func TestSampleBilinear(t *testing.T) {
	ch, err := NewImageChannel("img", twoRows(), Sampler{Filter: FilterLinear, Wrap: WrapClamp})
	require.NoError(t, err)
	mid := ch.Sample(0.5, 0.5)
	assert.InDelta(t, 0.5, mid[0], 1e-6)
	assert.InDelta(t, 0.5, mid[2], 1e-6)
	assert.InDelta(t, 1.0, mid[3], 1e-6)
}

func TestSampleSRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{128, 128, 128, 128})

	raw, err := NewImageChannel("raw", img, Sampler{Filter: FilterNearest})
	require.NoError(t, err)
	c := raw.Sample(0.5, 0.5)
	assert.InDelta(t, 128.0/255, c[0], 1e-6, "default sampling returns stored bytes")

	assert.False(t, DefaultSampler().SRGB)

	enc, err := NewImageChannel("srgb", img, Sampler{Filter: FilterNearest, SRGB: true})
	require.NoError(t, err)
	c = enc.Sample(0.5, 0.5)
	assert.InDelta(t, 0.2158, c[0], 1e-3)
	assert.InDelta(t, 0.2158, c[2], 1e-3)
	assert.InDelta(t, 128.0/255, c[3], 1e-6, "alpha stays linear")

	assert.InDelta(t, 0.01/12.92, srgbToLinear(0.01), 1e-7)
}

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, twoRows()))
	require.NoError(t, f.Close())
	return path
}

func TestLoadImage(t *testing.T) {
	path := writePNG(t, t.TempDir())
	ch, err := LoadImage(path, Sampler{Filter: FilterNearest})
	require.NoError(t, err)
	assert.Equal(t, "tex.png", ch.Name())
	assert.Equal(t, [4]float32{1, 0, 0, 1}, ch.Sample(0.5, 0.1))

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"), DefaultSampler())
	assert.Error(t, err)
}

func TestLoadImageAsync(t *testing.T) {
	path := writePNG(t, t.TempDir())

	select {
	case res := <-LoadImageAsync(context.Background(), path, DefaultSampler()):
		require.NoError(t, res.Err)
		assert.NotNil(t, res.Channel)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for image")
	}

	res := <-LoadImageAsync(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"), DefaultSampler())
	assert.Error(t, res.Err)
	assert.Nil(t, res.Channel)
}
