package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce batches the burst of events an editor produces on save.
const watchDebounce = 150 * time.Millisecond

// boardWatcher reports changes to one board file. The parent directory is
// watched rather than the file itself so that editors which save by
// replacing the file are still picked up.
type boardWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *log.Logger
}

func newBoardWatcher(path string, logger *log.Logger) (*boardWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &boardWatcher{watcher: w, path: abs, debounce: watchDebounce, logger: logger}, nil
}

// Run calls onChange after each settled change to the file and returns when
// ctx ends. It closes the watcher on return.
func (bw *boardWatcher) Run(ctx context.Context, onChange func()) error {
	defer bw.watcher.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-bw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != bw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			bw.logger.Debug("board changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(bw.debounce)
			} else {
				timer.Reset(bw.debounce)
			}
			fire = timer.C

		case err, ok := <-bw.watcher.Errors:
			if !ok {
				return nil
			}
			bw.logger.Warn("watch error", "err", err)

		case <-fire:
			fire = nil
			onChange()
		}
	}
}
