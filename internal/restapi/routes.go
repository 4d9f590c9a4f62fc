package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// SetRoutes registers every endpoint on the router. The Prometheus endpoint
// is unauthenticated so the scraper does not need an API key.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/recordings.json", validateAPIKey(api, api.recordingsHandler))
	router.Handler(http.MethodGet, "/api/recording/:id", validateAPIKey(api, api.recordingHandler))
	router.Handler(http.MethodGet, "/api/recording/:id/heart-rate.json", validateAPIKey(api, api.heartRateHandler))
	router.Handler(http.MethodGet, "/api/recording/:id/accelerometer.json", validateAPIKey(api, api.accelerometerHandler))
	router.Handler(http.MethodGet, "/api/recording/:id/survey.json", validateAPIKey(api, api.surveyHandler))
	router.Handler(http.MethodGet, "/api/current-time.json", validateAPIKey(api, api.currentTimeHandler))
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
}

// Routes builds the full HTTP handler with middleware applied.
func (api *RestAPI) Routes() http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)

	var handler http.Handler = router
	if api.Logger != nil {
		handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	}
	if api.rateLimiter != nil {
		handler = api.rateLimiter(handler)
	}
	return securityHeaders(handler)
}
