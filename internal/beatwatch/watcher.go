package beatwatch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"beatwatch.beatmonitor.org/internal/logging"
)

// startWatcher ingests raw files as they appear under the data directory.
// Re-ingesting on every write is idempotent: StoreRecording replaces the
// previous version of the recording.
func (manager *Manager) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating file watcher: %w", err)
	}

	// Watch the data directory and every existing subdirectory.
	err = filepath.WalkDir(manager.config.DataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("error watching data directory: %w", err)
	}

	manager.wg.Add(1)
	go manager.watchLoop(watcher)

	manager.logger.Info("watching data directory", slog.String("dir", manager.config.DataDir))
	return nil
}

func (manager *Manager) watchLoop(watcher *fsnotify.Watcher) {
	defer manager.wg.Done()
	defer logging.SafeCloseWithLogging(watcher, manager.logger, "fsnotify_watcher")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			manager.handleWatchEvent(watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.LogError(manager.logger, "file watcher error", err,
				slog.String("dir", manager.config.DataDir))
		case <-manager.shutdownChan:
			manager.logger.Info("shutting down data directory watcher")
			return
		}
	}
}

func (manager *Manager) handleWatchEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	// New subdirectories need their own watch.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.Add(event.Name); err != nil {
				logging.LogError(manager.logger, "failed to watch new directory", err,
					slog.String("dir", event.Name))
			}
			return
		}
	}

	if !IsRawDataFile(event.Name) {
		return
	}

	if err := manager.IngestFile(context.Background(), event.Name); err != nil {
		logging.LogError(manager.logger, "failed to ingest watched file", err,
			slog.String("file", event.Name))
	}
}
