package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	handler := securityHeaders(okHandler())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/recordings.json", nil))

	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", recorder.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, recorder.Header().Get("Strict-Transport-Security"))
	assert.NotEmpty(t, recorder.Header().Get("Content-Security-Policy"))
}

func TestSecurityHeadersCORS(t *testing.T) {
	handler := securityHeaders(okHandler())

	req := httptest.NewRequest("GET", "/api/recordings.json", nil)
	req.Header.Set("Origin", "https://dashboard.beatmonitor.org")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", recorder.Header().Get("Access-Control-Allow-Methods"))
}

func TestSecurityHeadersPreflight(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	handler := securityHeaders(next)

	req := httptest.NewRequest("OPTIONS", "/api/recordings.json", nil)
	req.Header.Set("Origin", "https://dashboard.beatmonitor.org")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, called)
}
