package beatwatch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"beatwatch.beatmonitor.org/internal/logging"
	"beatwatch.beatmonitor.org/internal/models"
	"beatwatch.beatmonitor.org/internal/parser"
)

// ExtractedDirName is the directory extracted data is written to, relative
// to the extraction root.
const ExtractedDirName = "extracted"

// ExtractRawFiles reads all raw files under root, extracts their data and
// writes per-stream CSV files plus a metadata document under
// root/extracted/<recording-id>/. Returns the number of files extracted.
func ExtractRawFiles(p *parser.Parser, root string, recursive bool, version float64, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	outRoot := filepath.Join(root, ExtractedDirName)
	count := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == outRoot {
				return fs.SkipDir
			}
			if !recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !IsRawDataFile(path) {
			return nil
		}

		rec, err := p.ParseFile(path, version)
		if err != nil {
			logging.LogError(logger, "failed to parse raw file", err, slog.String("file", path))
			return nil
		}

		if err := writeExtracted(rec, outRoot); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("error extracting %s: %w", root, err)
	}

	logger.Info("extraction finished", slog.String("dir", outRoot), slog.Int("files", count))
	return count, nil
}

func writeExtracted(rec *models.Recording, outRoot string) error {
	dir := filepath.Join(outRoot, rec.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating %s: %w", dir, err)
	}

	if err := writeMetadataJSON(filepath.Join(dir, "metadata.json"), rec.Metadata); err != nil {
		return err
	}

	if len(rec.HeartRate) > 0 {
		if err := writeHeartRateCSV(filepath.Join(dir, "heart_rate.csv"), rec.HeartRate); err != nil {
			return err
		}
	}
	if len(rec.Accel) > 0 {
		if err := writeAccelCSV(filepath.Join(dir, "accel.csv"), rec.Accel); err != nil {
			return err
		}
	}
	if len(rec.Survey) > 0 {
		if err := writeSurveyCSV(filepath.Join(dir, "survey.csv"), rec.Survey); err != nil {
			return err
		}
	}

	return nil
}

func writeMetadataJSON(path string, meta models.Metadata) error {
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding metadata: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	defer logging.HandleDeferredError(&err, f.Close, nil, "close_"+filepath.Base(path))

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("error writing header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("error writing row to %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

func formatAbsolute(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func writeHeartRateCSV(path string, samples []models.HeartRateSample) error {
	header := []string{"time_elapsed_ms", "time_absolute", "heart_rate_bpm", "confidence", "ppg_raw", "ppg_filter"}
	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []string{
			strconv.FormatInt(s.TimeElapsed.Milliseconds(), 10),
			formatAbsolute(s.TimeAbsolute),
			strconv.FormatInt(int64(s.BPM), 10),
			strconv.FormatUint(uint64(s.Confidence), 10),
			strconv.FormatInt(int64(s.PPGRaw), 10),
			strconv.FormatInt(int64(s.PPGFilter), 10),
		})
	}
	return writeCSV(path, header, rows)
}

func writeAccelCSV(path string, samples []models.AccelSample) error {
	header := []string{"time_elapsed_ms", "time_absolute", "x", "y", "z", "magnitude", "difference"}
	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []string{
			strconv.FormatInt(s.TimeElapsed.Milliseconds(), 10),
			formatAbsolute(s.TimeAbsolute),
			strconv.FormatInt(int64(s.X), 10),
			strconv.FormatInt(int64(s.Y), 10),
			strconv.FormatInt(int64(s.Z), 10),
			strconv.FormatInt(int64(s.Magnitude), 10),
			strconv.FormatInt(int64(s.Difference), 10),
		})
	}
	return writeCSV(path, header, rows)
}

func writeSurveyCSV(path string, responses []models.SurveyResponse) error {
	header := []string{"number", "item", "question", "input", "range", "response", "time_absolute", "time_elapsed_ms"}
	rows := make([][]string, 0, len(responses))
	for _, s := range responses {
		rows = append(rows, []string{
			strconv.FormatInt(s.Number, 10),
			strconv.FormatInt(s.Item, 10),
			s.Question,
			s.Input,
			jsonField(s.Range),
			jsonField(s.Response),
			formatAbsolute(s.TimeAbsolute),
			strconv.FormatInt(s.TimeElapsed.Milliseconds(), 10),
		})
	}
	return writeCSV(path, header, rows)
}

func jsonField(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
