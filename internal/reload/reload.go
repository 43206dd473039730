// Package reload watches an OBJ file and parses it again whenever it changes.
package reload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/smasonuk/meshpack"
)

// DefaultDelay is how long a file must stay quiet before it is reloaded.
// Editors often write a file in several steps.
const DefaultDelay = 150 * time.Millisecond

// Result is the outcome of one reload. Exactly one of Mesh and Err is set.
type Result struct {
	Mesh *meshpack.Mesh
	Err  error
}

type Watcher struct {
	path    string
	delay   time.Duration
	opts    []meshpack.Option
	fsw     *fsnotify.Watcher
	results chan Result
	done    chan struct{}
	once    sync.Once
	log     *slog.Logger
}

// Watch starts watching path. The parent directory is watched rather than the
// file so that editors which replace the file on save are still seen. opts
// are passed to meshpack.Load on every reload.
func Watch(ctx context.Context, path string, delay time.Duration, opts ...meshpack.Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("error watching %s: %w", filepath.Dir(abs), err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	w := &Watcher{
		path:    abs,
		delay:   delay,
		opts:    opts,
		fsw:     fsw,
		results: make(chan Result, 1),
		done:    make(chan struct{}),
		log:     slog.With(slog.String("watch", abs)),
	}
	go w.run(ctx)
	return w, nil
}

// Results delivers a Result after each burst of changes. It is closed once
// the watcher stops.
func (w *Watcher) Results() <-chan Result {
	return w.results
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.results)

	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Close()
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug("model changed", slog.String("op", event.Op.String()))
			timer.Reset(w.delay)
		case <-timer.C:
			m, err := meshpack.Load(w.path, w.opts...)
			if err != nil {
				w.log.Warn("reload failed", slog.Any("err", err))
			} else {
				w.log.Info("reloaded model", slog.Int("triangles", m.TriangleCount()))
			}
			select {
			case w.results <- Result{Mesh: m, Err: err}:
			case <-w.done:
				return
			case <-ctx.Done():
				w.Close()
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("file watcher error", slog.Any("err", err))
		}
	}
}
