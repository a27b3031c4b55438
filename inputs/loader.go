package inputs

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	// Blank imports for image decoders so image.Decode can handle them.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage decodes an image file into an ImageChannel.
func LoadImage(path string, sampler Sampler) (*ImageChannel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	log.Printf("Decoded %s image %s (%dx%d)", format, filepath.Base(path), img.Bounds().Dx(), img.Bounds().Dy())
	return NewImageChannel(filepath.Base(path), img, sampler)
}

// LoadResult is the outcome of an asynchronous load.
type LoadResult struct {
	Channel *ImageChannel
	Err     error
}

// LoadImageAsync decodes path on a separate goroutine. Exactly one result
// is delivered unless ctx is cancelled first, in which case the channel is
// closed without a value. The returned channel never blocks the sender.
func LoadImageAsync(ctx context.Context, path string, sampler Sampler) <-chan LoadResult {
	out := make(chan LoadResult, 1)
	go func() {
		defer close(out)
		ch, err := LoadImage(path, sampler)
		if ctx.Err() != nil {
			return
		}
		out <- LoadResult{Channel: ch, Err: err}
	}()
	return out
}
