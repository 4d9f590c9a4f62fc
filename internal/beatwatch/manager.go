package beatwatch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"beatwatch.beatmonitor.org/beatdb"
	"beatwatch.beatmonitor.org/internal/logging"
	"beatwatch.beatmonitor.org/internal/metrics"
	"beatwatch.beatmonitor.org/internal/models"
	"beatwatch.beatmonitor.org/internal/parser"
)

// Manager owns the parsed BEATwatch data and provides methods to access it.
type Manager struct {
	config Config
	logger *slog.Logger
	parser *parser.Parser

	BeatDB *beatdb.Client

	mu         sync.RWMutex
	recordings map[string]*models.Recording

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitManager parses every raw file under the configured data directory and
// stores the results. With Watch enabled, new files are ingested as the
// BEATmonitor server drops them into the directory.
func InitManager(config Config, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	p, err := parser.New(config.Timezone, logger)
	if err != nil {
		return nil, err
	}

	db, err := beatdb.NewClient(beatdb.NewConfig(config.DBPath, config.Env, config.Verbose), logger)
	if err != nil {
		return nil, fmt.Errorf("error building BEATwatch database: %w", err)
	}

	manager := &Manager{
		config:       config,
		logger:       logger,
		parser:       p,
		BeatDB:       db,
		recordings:   make(map[string]*models.Recording),
		shutdownChan: make(chan struct{}),
	}

	if config.DataDir != "" {
		if err := manager.ingestDirectory(context.Background(), config.DataDir); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if config.Watch {
		if err := manager.startWatcher(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return manager, nil
}

// Shutdown gracefully shuts down the manager and its background goroutines
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
		if manager.BeatDB != nil {
			logging.SafeCloseWithLogging(manager.BeatDB, manager.logger, "beatwatch_db")
		}
	})
}

// IsRawDataFile reports whether path looks like a file written by the
// BEATwatch application.
func IsRawDataFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hr", ".sv":
		return true
	default:
		return false
	}
}

// ingestDirectory parses every raw file under root.
func (manager *Manager) ingestDirectory(ctx context.Context, root string) error {
	runID := uuid.NewString()
	manager.logger.Info("ingesting data directory",
		slog.String("dir", root), slog.String("run_id", runID))

	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsRawDataFile(path) {
			return nil
		}
		if err := manager.IngestFile(ctx, path); err != nil {
			// One bad file must not abort the whole scan.
			logging.LogError(manager.logger, "failed to ingest file", err,
				slog.String("file", path), slog.String("run_id", runID))
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("error scanning data directory %s: %w", root, err)
	}

	manager.logger.Info("data directory ingested",
		slog.String("run_id", runID), slog.Int("files", count))
	return nil
}

// IngestFile parses one raw file and stores the recording, replacing any
// previously ingested version.
func (manager *Manager) IngestFile(ctx context.Context, path string) error {
	rec, err := manager.parser.ParseFile(path, manager.config.fileVersion())
	if err != nil {
		metrics.IncFileParsed(false)
		return err
	}

	if err := manager.BeatDB.StoreRecording(ctx, rec); err != nil {
		metrics.IncFileParsed(false)
		return err
	}

	manager.mu.Lock()
	manager.recordings[rec.ID] = rec
	manager.mu.Unlock()

	metrics.IncFileParsed(true)
	metrics.AddSamplesIngested("hr", len(rec.HeartRate))
	metrics.AddSamplesIngested("accel", len(rec.Accel))
	metrics.AddSamplesIngested("survey", len(rec.Survey))

	if manager.config.Verbose {
		manager.logger.Info("recording ingested",
			slog.String("id", rec.ID),
			slog.Int("hr", len(rec.HeartRate)),
			slog.Int("accel", len(rec.Accel)),
			slog.Int("survey", len(rec.Survey)))
	}

	return nil
}

// GetRecordings returns every ingested recording sorted by ID.
func (manager *Manager) GetRecordings() []*models.Recording {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	out := make([]*models.Recording, 0, len(manager.recordings))
	for _, rec := range manager.recordings {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindRecording returns the recording with the given ID, or nil.
func (manager *Manager) FindRecording(id string) *models.Recording {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.recordings[id]
}

// Parser returns the configured raw file parser.
func (manager *Manager) Parser() *parser.Parser {
	return manager.parser
}

// PrintStatistics logs a summary of what was ingested.
func (manager *Manager) PrintStatistics() {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	var hr, accel, survey int
	for _, rec := range manager.recordings {
		hr += len(rec.HeartRate)
		accel += len(rec.Accel)
		survey += len(rec.Survey)
	}

	manager.logger.Info("beatwatch data loaded",
		slog.String("dir", manager.config.DataDir),
		slog.Int("recordings", len(manager.recordings)),
		slog.Int("hr_samples", hr),
		slog.Int("accel_samples", accel),
		slog.Int("survey_responses", survey))
}
