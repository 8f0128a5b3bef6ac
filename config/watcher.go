package config

import (
	"bytes"
	"context"
	"path/filepath"
	"time"

	"github.com/a8m/envsubst"
	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/rotviz/logging"
)

// settleTime is how long the file must go without events before it is re-read, so that an editor
// writing a file in several steps causes one reload.
const settleTime = 100 * time.Millisecond

// A Watcher re-reads a config file whenever it changes on disk.
type Watcher struct {
	path    string
	logger  logging.Logger
	watcher *fsnotify.Watcher
	last    []byte
	settled chan struct{}
}

// NewWatcher starts watching path. The directory is watched rather than the file so that editors
// which replace the file on save are noticed.
func NewWatcher(path string, logger logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return nil, errors.Wrapf(multierr.Combine(err, watcher.Close()), "watching %q", abs)
	}
	w := &Watcher{
		path:    abs,
		logger:  logger.Sublogger("watcher"),
		watcher: watcher,
		settled: make(chan struct{}, 1),
	}
	// the current contents are not a change
	if buf, err := envsubst.ReadFile(abs); err == nil {
		w.last = buf
	}
	return w, nil
}

// Run calls onChange with every valid new version of the file until ctx is done or the watcher
// is closed. Versions that fail to parse are logged and skipped. onChange runs on the caller's
// goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func(*Config)) error {
	debounced := debounce.New(settleTime)
	settle := func() {
		select {
		case w.settled <- struct{}{}:
		default:
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			debounced(settle)
		case <-w.settled:
			if cfg := w.reload(ctx); cfg != nil {
				onChange(cfg)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) *Config {
	buf, err := envsubst.ReadFile(w.path)
	if err != nil {
		w.logger.Warnw("failed to read changed config", "path", w.path, "error", err)
		return nil
	}
	if bytes.Equal(buf, w.last) {
		return nil
	}
	cfg, err := FromReader(ctx, w.path, bytes.NewReader(buf), w.logger)
	if err != nil {
		w.logger.Warnw("ignoring invalid config change", "path", w.path, "error", err)
		return nil
	}
	w.last = buf
	w.logger.Infow("config changed", "path", w.path)
	return cfg
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Watch is NewWatcher followed by Run.
func Watch(ctx context.Context, path string, logger logging.Logger, onChange func(*Config)) error {
	w, err := NewWatcher(path, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			logger.Debugw("closing config watcher", "error", err)
		}
	}()
	return w.Run(ctx, onChange)
}
