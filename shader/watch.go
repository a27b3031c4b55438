package shader

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// File extensions of on-disk program overrides.
const (
	VertexExt   = ".vert"
	FragmentExt = ".frag"
)

// LoadOverride reads <dir>/<name>.vert and <dir>/<name>.frag. A missing file
// keeps the corresponding stage of base.
func LoadOverride(dir, name string, base ProgramPair) (ProgramPair, error) {
	out := base
	for _, stage := range []struct {
		ext string
		dst *string
	}{
		{VertexExt, &out.Vertex},
		{FragmentExt, &out.Fragment},
	} {
		data, err := os.ReadFile(filepath.Join(dir, name+stage.ext))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return base, fmt.Errorf("failed to read %s%s: %w", name, stage.ext, err)
		}
		*stage.dst = string(data)
	}
	return out, nil
}

// Watcher reloads a program override whenever its files change on disk.
type Watcher struct {
	dir      string
	name     string
	base     ProgramPair
	debounce time.Duration
	watcher  *fsnotify.Watcher
	updates  chan ProgramPair
}

// NewWatcher starts watching dir for changes to the override files of the
// named program. Reloaded pairs are delivered on Updates.
func NewWatcher(dir, name string, base ProgramPair) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:      dir,
		name:     name,
		base:     base,
		debounce: 100 * time.Millisecond,
		watcher:  fw,
		updates:  make(chan ProgramPair, 1),
	}, nil
}

// Updates delivers the latest reloaded program. Only the newest pending pair
// is kept.
func (w *Watcher) Updates() <-chan ProgramPair {
	return w.updates
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	base := filepath.Base(ev.Name)
	if base != w.name+VertexExt && base != w.name+FragmentExt {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// Run processes file events until ctx is done. Editors often emit several
// events per save, so reloads are debounced.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Warning: shader watcher error: %v", err)
		case <-fire:
			fire = nil
			p, err := LoadOverride(w.dir, w.name, w.base)
			if err != nil {
				log.Printf("Warning: failed to reload shader %s: %v", w.name, err)
				continue
			}
			log.Printf("Reloaded shader %s from %s", w.name, w.dir)
			w.publish(p)
		}
	}
}

func (w *Watcher) publish(p ProgramPair) {
	select {
	case <-w.updates:
	default:
	}
	w.updates <- p
}
