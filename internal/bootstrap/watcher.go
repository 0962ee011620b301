package bootstrap

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/arisehq/chatbot-backend/internal/services"
)

// Watcher re-applies a training file whenever it changes on disk, so
// operators can grow the rule set by editing a file, without restarting
// the server.
type Watcher struct {
	watcher *fsnotify.Watcher
	svc     *services.IntentService
	path    string

	// debounce absorbs editor write bursts (truncate+write, atomic rename).
	debounce time.Duration
}

// NewWatcher starts watching the directory containing path. Watching the
// directory rather than the file keeps the watch alive across atomic
// replaces, where editors rename a temp file over the original.
func NewWatcher(svc *services.IntentService, path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		svc:      svc,
		path:     path,
		debounce: 100 * time.Millisecond,
	}, nil
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run blocks, re-applying the training file on every write or create event
// that targets it, until ctx is cancelled or the watcher closes. Apply
// failures are logged and the watch continues; a broken edit should not take
// the loop down.
func (w *Watcher) Run(ctx context.Context) {
	log.Info().Str("path", w.path).Msg("training file watcher started")

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}

			// Let the write settle before reading.
			time.Sleep(w.debounce)

			rep, err := ApplyTrainingFile(ctx, w.svc, w.path)
			if err != nil {
				log.Error().Err(err).Str("path", w.path).Msg("training file reload failed")
				continue
			}
			log.Info().
				Str("path", w.path).
				Int("added", rep.Added).
				Int("updated", rep.Updated).
				Int("skipped", rep.Skipped).
				Msg("training file reloaded")

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("training file watcher error")
		}
	}
}

// matches reports whether an event path refers to the watched training file.
func (w *Watcher) matches(name string) bool {
	return strings.EqualFold(filepath.Clean(name), filepath.Clean(w.path)) ||
		filepath.Base(name) == filepath.Base(w.path)
}
