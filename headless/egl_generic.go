//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/goshaderwave/graphics"
)

// New reports that EGL pbuffer rendering is unavailable.
func New(width, height int) (graphics.Context, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
