package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurveyHandlerEndToEnd(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t,
		"/api/recording/"+testRecordingID+"/survey.json?key=TEST")

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok)

	list := retrieveList(t, data)
	require.Len(t, list, 1)

	entry, ok := list[0].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1740863623000, entry["time"])
	assert.EqualValues(t, 1000, entry["timeElapsedMs"])
	assert.EqualValues(t, 1, entry["number"])
	assert.EqualValues(t, 2, entry["item"])
	assert.Equal(t, "How stressed are you?", entry["question"])
	assert.Equal(t, "range", entry["input"])
	assert.EqualValues(t, 7, entry["response"])

	rng, ok := entry["range"].([]interface{})
	require.True(t, ok)
	require.Len(t, rng, 2)
	assert.EqualValues(t, 0, rng[0])
	assert.EqualValues(t, 10, rng[1])
}

func TestSurveyHandlerElapsedWindowExcludesResponse(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t,
		"/api/recording/"+testRecordingID+"/survey.json?key=TEST&axis=elapsed&from=0&to=500")

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Empty(t, data["list"])
}
