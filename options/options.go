package options

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/richinsley/goshaderwave/uniform"
	"golang.org/x/image/colornames"
)

var ErrInvalid = errors.New("invalid options")

// ShaderOptions holds the run configuration. Fields are pointers so that
// they can be bound directly to command-line flags.
type ShaderOptions struct {
	Config     *string
	Variant    *string
	Color      *string
	Texture    *string
	ShaderDir  *string
	Width      *int
	Height     *int
	Record     *bool
	Software   *bool
	Headless   *bool
	Duration   *float64
	FPS        *int
	OutputFile *string
	FFMPEGPath *string
	Snapshot   *string
	SnapshotAt *float64
	Help       *bool
}

// fileOptions is the TOML layout of a config file.
type fileOptions struct {
	Variant    *string  `toml:"variant"`
	Color      *string  `toml:"color"`
	Texture    *string  `toml:"texture"`
	ShaderDir  *string  `toml:"shaders"`
	Width      *int     `toml:"width"`
	Height     *int     `toml:"height"`
	Record     *bool    `toml:"record"`
	Software   *bool    `toml:"software"`
	Headless   *bool    `toml:"headless"`
	Duration   *float64 `toml:"duration"`
	FPS        *int     `toml:"fps"`
	OutputFile *string  `toml:"output"`
	FFMPEGPath *string  `toml:"ffmpeg"`
	Snapshot   *string  `toml:"snapshot"`
	SnapshotAt *float64 `toml:"snapshot_at"`
}

// Defaults returns options with every field set to its default value.
func Defaults() *ShaderOptions {
	return &ShaderOptions{
		Config:     ptr(""),
		Variant:    ptr("wave"),
		Color:      ptr("gold"),
		Texture:    ptr(""),
		ShaderDir:  ptr(""),
		Width:      ptr(1280),
		Height:     ptr(720),
		Record:     ptr(false),
		Software:   ptr(false),
		Headless:   ptr(false),
		Duration:   ptr(10.0),
		FPS:        ptr(60),
		OutputFile: ptr("output.mp4"),
		FFMPEGPath: ptr(""),
		Snapshot:   ptr(""),
		SnapshotAt: ptr(0.0),
		Help:       ptr(false),
	}
}

func ptr[T any](v T) *T { return &v }

// parseFile decodes TOML config data.
func parseFile(data []byte) (*fileOptions, error) {
	var fo fileOptions
	if err := toml.Unmarshal(data, &fo); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &fo, nil
}

// LoadFile merges a TOML config file into o. Names in explicit (flag names
// given on the command line) keep their command-line values.
func (o *ShaderOptions) LoadFile(path string, explicit map[string]bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	fo, err := parseFile(data)
	if err != nil {
		return err
	}
	o.merge(fo, explicit)
	return nil
}

func mergeField[T any](dst *T, src *T, flagName string, explicit map[string]bool) {
	if src == nil || explicit[flagName] {
		return
	}
	*dst = *src
}

func (o *ShaderOptions) merge(fo *fileOptions, explicit map[string]bool) {
	mergeField(o.Variant, fo.Variant, "variant", explicit)
	mergeField(o.Color, fo.Color, "color", explicit)
	mergeField(o.Texture, fo.Texture, "texture", explicit)
	mergeField(o.ShaderDir, fo.ShaderDir, "shaders", explicit)
	mergeField(o.Width, fo.Width, "width", explicit)
	mergeField(o.Height, fo.Height, "height", explicit)
	mergeField(o.Record, fo.Record, "record", explicit)
	mergeField(o.Software, fo.Software, "software", explicit)
	mergeField(o.Headless, fo.Headless, "headless", explicit)
	mergeField(o.Duration, fo.Duration, "duration", explicit)
	mergeField(o.FPS, fo.FPS, "fps", explicit)
	mergeField(o.OutputFile, fo.OutputFile, "output", explicit)
	mergeField(o.FFMPEGPath, fo.FFMPEGPath, "ffmpeg", explicit)
	mergeField(o.Snapshot, fo.Snapshot, "snapshot", explicit)
	mergeField(o.SnapshotAt, fo.SnapshotAt, "snapshot-at", explicit)
}

// Validate checks option ranges.
func (o *ShaderOptions) Validate(variants []string) error {
	known := false
	for _, v := range variants {
		if v == *o.Variant {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: unknown variant %q (want one of %s)", ErrInvalid, *o.Variant, strings.Join(variants, ", "))
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, *o.Width, *o.Height)
	}
	if *o.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalid, *o.FPS)
	}
	if *o.Record && *o.Duration <= 0 {
		return fmt.Errorf("%w: duration %g", ErrInvalid, *o.Duration)
	}
	if *o.Headless && !*o.Record && *o.Snapshot == "" {
		return fmt.Errorf("%w: headless rendering needs -record or -snapshot", ErrInvalid)
	}
	if _, err := ParseColor(*o.Color); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ParseColor accepts an SVG color name ("gold") or #rrggbb.
func ParseColor(s string) (uniform.RGB, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 {
			return uniform.RGB{}, fmt.Errorf("bad color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return uniform.RGB{}, fmt.Errorf("bad color %q: %w", s, err)
		}
		return uniform.RGB{
			float32((v>>16)&0xff) / 255,
			float32((v>>8)&0xff) / 255,
			float32(v&0xff) / 255,
		}, nil
	}
	c, ok := colornames.Map[s]
	if !ok {
		return uniform.RGB{}, fmt.Errorf("unknown color %q", s)
	}
	return uniform.RGB{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}, nil
}
