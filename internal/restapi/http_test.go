package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"beatwatch.beatmonitor.org/internal/app"
	"beatwatch.beatmonitor.org/internal/appconf"
	"beatwatch.beatmonitor.org/internal/beatwatch"
	"beatwatch.beatmonitor.org/internal/logging"
	"beatwatch.beatmonitor.org/internal/models"
)

const testRecordingID = "03-01_time_21-13-42_a6ed_W023"

// rawTestFile interleaves metadata, survey, heart rate and accel lines the
// way BEATwatch writes them.
const rawTestFile = `{"File":{"Name":"03-01_time_21-13-42_a6ed_W023.hr","AppVersion":"0.1.0","DeviceID":"a6ed","StudyName":"pilot","StudyInstance":"S1"}}
{"Status":{"state":"START_RECORD","battery":78},"Record":{"UNIXTimeStamp":1740863622000}}
40,720,95,12345,2345
80,730,96,12350,2350
A40,12,-5,1020,1021,3
{"number":1,"item":2,"timeStamp":1740863623000,"question":"How stressed are you?","input":"range","range":[0,10],"response":7}
{"Status":{"state":"STOP_RECORD","battery":77},"Record":{"UNIXTimeStamp":1740863700000}}
`

// createTestApi creates a RestAPI instance backed by an in-memory manager
// loaded with one recording.
func createTestApi(t *testing.T) *RestAPI {
	dataDir := t.TempDir()
	path := filepath.Join(dataDir, testRecordingID+".hr")
	require.NoError(t, os.WriteFile(path, []byte(rawTestFile), 0o644))

	logger := logging.NewStructuredLogger(io.Discard, slog.LevelDebug)

	manager, err := beatwatch.InitManager(beatwatch.Config{
		DataDir:  dataDir,
		DBPath:   ":memory:",
		Timezone: "UTC",
		Env:      appconf.Test,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)

	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.EnvFlagToEnvironment("test"),
			ApiKeys:   []string{"TEST"},
			RateLimit: 1000,
		},
		Logger:  logger,
		Manager: manager,
	}

	return NewRestAPI(application)
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the
// specified endpoint, and returns the response and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	server := httptest.NewServer(api.Routes())
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}
