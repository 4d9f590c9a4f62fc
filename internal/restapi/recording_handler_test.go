package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingHandlerEndToEnd(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/recording/"+testRecordingID+".json?key=TEST")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 200, model.Code)

	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok)

	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, testRecordingID, entry["id"])
	assert.Equal(t, "pilot", entry["studyName"])

	metadata, ok := entry["metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "a6ed", metadata["DeviceID"])
	assert.EqualValues(t, 1740863622000, metadata["start_UNIXTimeStamp"])
	assert.EqualValues(t, 77, metadata["status_battery"])
}

func TestRecordingHandlerNotFound(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/recording/nope.json?key=TEST")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "resource not found", model.Text)
}

func TestRecordingHandlerRejectsInvalidID(t *testing.T) {
	api := createTestApi(t)
	resp, _ := serveApiAndRetrieveEndpoint(t, api, "/api/recording/bad!id.json?key=TEST")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
