package restapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentTimeHandlerEndToEnd(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/current-time.json?key=TEST")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 200, model.Code)

	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok)

	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok)

	millis, ok := entry["time"].(float64)
	require.True(t, ok)
	assert.InDelta(t, time.Now().UnixMilli(), int64(millis), 5000)

	readable, ok := entry["readableTime"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, readable)
	assert.NoError(t, err)
}

func TestCurrentTimeHandlerRequiresValidApiKey(t *testing.T) {
	_, resp, _ := serveAndRetrieveEndpoint(t, "/api/current-time.json?key=wrong")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
