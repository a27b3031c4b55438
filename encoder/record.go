package encoder

import (
	"context"
	"fmt"
	"image"
	"log"
)

// RenderFunc produces the frame for the given scene time in seconds.
type RenderFunc func(t float64) (*image.RGBA, error)

// Record renders duration*fps frames at fixed time steps and hands each to w.
// Rendering stops early if ctx is cancelled.
func Record(ctx context.Context, render RenderFunc, w FrameWriter, duration float64, fps int) (int, error) {
	if fps <= 0 {
		return 0, fmt.Errorf("invalid frame rate %d", fps)
	}
	totalFrames := int(duration * float64(fps))
	timeStep := 1.0 / float64(fps)

	for i := 0; i < totalFrames; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		currentTime := float64(i) * timeStep
		img, err := render(currentTime)
		if err != nil {
			return i, fmt.Errorf("error rendering frame %d: %w", i, err)
		}
		if err := w.WriteFrame(img); err != nil {
			return i, err
		}
		if i > 0 && i%(fps*5) == 0 {
			log.Printf("Recorded %d/%d frames", i, totalFrames)
		}
	}
	return totalFrames, nil
}
