package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/fsnotify/fsnotify"
)

// Follow watches the directory of path and calls fn with the records
// appended to store since the previous call. Records present when Follow
// starts are not reported. It returns nil when ctx is done.
func Follow(ctx context.Context, store Store, path string, fn func([]types.InstallRecord)) error {
	logger := logging.GetLogger("history")

	state, err := store.Load()
	if err != nil {
		return err
	}
	seen := len(state.Installs)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	base := filepath.Base(path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("fsnotify event channel closed unexpectedly")
			}
			// The JSON file is replaced by rename; SQLite writes its -wal sibling
			if !strings.HasPrefix(filepath.Base(evt.Name), base) || strings.HasSuffix(evt.Name, ".lock") {
				continue
			}
			if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Rename) {
				continue
			}

			state, err := store.Load()
			if err != nil {
				logger.Debug().Err(err).Msg("History reload failed, waiting for next change")
				continue
			}
			switch {
			case len(state.Installs) > seen:
				fn(state.Installs[seen:])
				seen = len(state.Installs)
			case len(state.Installs) < seen:
				// History was reset; report from the new start next time
				seen = len(state.Installs)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return fmt.Errorf("fsnotify error channel closed unexpectedly")
			}
			logger.Warn().Err(err).Msg("History watch error")
		}
	}
}
