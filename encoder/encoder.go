package encoder

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

var ErrFrameSize = errors.New("frame size mismatch")

// Config describes the output video.
type Config struct {
	Width      int
	Height     int
	FPS        int
	OutputFile string
	FFMPEGPath string
	Codec      string
}

// FrameWriter consumes rendered frames in presentation order.
type FrameWriter interface {
	WriteFrame(img *image.RGBA) error
}

// getArgs builds the ffmpeg arguments for raw RGBA frames arriving on stdin.
func getArgs(cfg Config) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"framerate": strconv.Itoa(cfg.FPS),
	}

	outputArgs = ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
	}
	switch cfg.Codec {
	case "hevc":
		outputArgs["c:v"] = "libx265"
		if strings.HasSuffix(cfg.OutputFile, ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	case "", "h264":
		outputArgs["c:v"] = "libx264"
	default:
		outputArgs["c:v"] = cfg.Codec
	}
	return
}

// FFmpegEncoder pipes frames into an ffmpeg child process.
type FFmpegEncoder struct {
	cfg    Config
	cmd    *exec.Cmd
	pipe   *io.PipeWriter
	done   chan error
	frames int64
}

// command compiles the ffmpeg invocation reading from r.
func command(cfg Config, r io.Reader) *exec.Cmd {
	inputArgs, outputArgs := getArgs(cfg)
	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(cfg.OutputFile, outputArgs).
		OverWriteOutput().WithInput(r).ErrorToStdOut()
	if cfg.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(cfg.FFMPEGPath)
	}
	return ffmpegCmd.Compile()
}

// NewFFmpegEncoder starts ffmpeg. Frames are accepted until Close.
func NewFFmpegEncoder(cfg Config) (*FFmpegEncoder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid encoder config %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}
	pipeReader, pipeWriter := io.Pipe()
	e := &FFmpegEncoder{
		cfg:  cfg,
		cmd:  command(cfg, pipeReader),
		pipe: pipeWriter,
		done: make(chan error, 1),
	}
	if err := e.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	log.Printf("Encoding %dx%d@%d to %s", cfg.Width, cfg.Height, cfg.FPS, cfg.OutputFile)

	go func() {
		err := e.cmd.Wait()
		// Unblock a writer stuck on a dead process.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		e.done <- err
	}()
	return e, nil
}

// WriteFrame sends one frame. img must match the configured size.
func (e *FFmpegEncoder) WriteFrame(img *image.RGBA) error {
	if img.Rect.Dx() != e.cfg.Width || img.Rect.Dy() != e.cfg.Height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSize, img.Rect.Dx(), img.Rect.Dy(), e.cfg.Width, e.cfg.Height)
	}
	rowSize := e.cfg.Width * 4
	if img.Stride == rowSize {
		if _, err := e.pipe.Write(img.Pix[:rowSize*e.cfg.Height]); err != nil {
			return fmt.Errorf("error writing frame %d: %w", e.frames, err)
		}
	} else {
		for y := 0; y < e.cfg.Height; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+rowSize]
			if _, err := e.pipe.Write(row); err != nil {
				return fmt.Errorf("error writing frame %d: %w", e.frames, err)
			}
		}
	}
	e.frames++
	return nil
}

// Close signals end of stream and waits for ffmpeg to finish.
func (e *FFmpegEncoder) Close() error {
	e.pipe.Close()
	err := <-e.done
	if err != nil {
		return fmt.Errorf("ffmpeg exited with error: %w", err)
	}
	log.Printf("Encoded %d frames to %s", e.frames, e.cfg.OutputFile)
	return nil
}
