package beatwatch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beatwatch.beatmonitor.org/internal/appconf"
	"beatwatch.beatmonitor.org/internal/logging"
)

const rawHRFile = `{"File":{"Name":"03-01_time_21-13-42_a6ed_W023.hr","DeviceID":"a6ed"}}
{"Status":{"state":"START_RECORD"},"Record":{"UNIXTimeStamp":1740863622000,"StudyName":"pilot"}}
40,720,95,12345,2345
80,730,96,12350,2350
A40,12,-5,1020,1021,3
`

const rawSurveyFile = `{"Record":{"State":"START_RECORD","UNIXTimeStamp":1740863622000}}
{"number":1,"item":2,"timeStamp":1740863623000,"question":"How tired are you?","input":"range","range":[0,10],"response":3}
`

func testLogger() *slog.Logger {
	return logging.NewStructuredLogger(io.Discard, slog.LevelDebug)
}

func writeDataDir(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "03-01_time_21-13-42_a6ed_W023.hr"), []byte(rawHRFile), 0o644))

	sub := filepath.Join(dir, "W025")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(sub, "03-02_time_01-53-40_f937_W025.sv"), []byte(rawSurveyFile), 0o644))

	// Ignored: not a BEATwatch extension.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))
	return dir
}

func newTestManager(t *testing.T, config Config) *Manager {
	if config.DBPath == "" {
		config.DBPath = ":memory:"
	}
	config.Env = appconf.Test

	manager, err := InitManager(config, testLogger())
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)
	return manager
}

func TestInitManagerIngestsDirectory(t *testing.T) {
	dir := writeDataDir(t)
	manager := newTestManager(t, Config{DataDir: dir})

	recs := manager.GetRecordings()
	require.Len(t, recs, 2)
	assert.Equal(t, "03-01_time_21-13-42_a6ed_W023", recs[0].ID)
	assert.Equal(t, "03-02_time_01-53-40_f937_W025", recs[1].ID)

	hr := manager.FindRecording("03-01_time_21-13-42_a6ed_W023")
	require.NotNil(t, hr)
	assert.Len(t, hr.HeartRate, 2)
	assert.Len(t, hr.Accel, 1)

	sv := manager.FindRecording("03-02_time_01-53-40_f937_W025")
	require.NotNil(t, sv)
	assert.Len(t, sv.Survey, 1)
	assert.Empty(t, sv.HeartRate)
}

func TestInitManagerStoresToDatabase(t *testing.T) {
	dir := writeDataDir(t)
	manager := newTestManager(t, Config{DataDir: dir})

	n, err := manager.BeatDB.Queries.CountRecordings(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestFindRecordingMissing(t *testing.T) {
	manager := newTestManager(t, Config{DataDir: t.TempDir()})
	assert.Nil(t, manager.FindRecording("nope"))
}

func TestIngestFileReplacesRecording(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.hr")
	require.NoError(t, os.WriteFile(path, []byte(rawHRFile), 0o644))

	manager := newTestManager(t, Config{DataDir: dir})
	require.Len(t, manager.FindRecording("rec").HeartRate, 2)

	// Device appended another sample; re-ingest picks it up.
	longer := rawHRFile + "120,740,97,12360,2360\n"
	require.NoError(t, os.WriteFile(path, []byte(longer), 0o644))
	require.NoError(t, manager.IngestFile(context.Background(), path))

	assert.Len(t, manager.FindRecording("rec").HeartRate, 3)
}

func TestInitManagerBadTimezone(t *testing.T) {
	_, err := InitManager(Config{Timezone: "Nope/Nope", DBPath: ":memory:", Env: appconf.Test}, testLogger())
	assert.Error(t, err)
}

func TestIsRawDataFile(t *testing.T) {
	assert.True(t, IsRawDataFile("a/b/c.hr"))
	assert.True(t, IsRawDataFile("c.SV"))
	assert.False(t, IsRawDataFile("c.txt"))
	assert.False(t, IsRawDataFile("c"))
}

func TestShutdownIsIdempotent(t *testing.T) {
	manager := newTestManager(t, Config{DataDir: t.TempDir(), Watch: true})
	manager.Shutdown()
	assert.NotPanics(t, manager.Shutdown)
}

func TestWatcherIngestsNewFile(t *testing.T) {
	dir := t.TempDir()
	manager := newTestManager(t, Config{DataDir: dir, Watch: true})

	path := filepath.Join(dir, "03-01_time_22-00-00_a6ed_W024.hr")
	require.NoError(t, os.WriteFile(path, []byte(rawHRFile), 0o644))

	require.Eventually(t, func() bool {
		return manager.FindRecording("03-01_time_22-00-00_a6ed_W024") != nil
	}, 5*time.Second, 20*time.Millisecond)
}
