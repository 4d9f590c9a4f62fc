package restapi

import (
	"net/http"

	"beatwatch.beatmonitor.org/internal/models"
	"beatwatch.beatmonitor.org/internal/parser"
)

func (api *RestAPI) heartRateHandler(w http.ResponseWriter, r *http.Request) {
	rec, query, ok := api.recordingForStreamRequest(w, r)
	if !ok {
		return
	}

	samples := rec.HeartRate
	if query != nil {
		selected, err := parser.SelectHeartRate(samples, *query, api.Logger)
		if err != nil {
			api.serverErrorResponse(w, r, err)
			return
		}
		samples = selected
	}

	entries := make([]models.HeartRateEntry, 0, len(samples))
	for _, s := range samples {
		entries = append(entries, models.NewHeartRateEntry(s))
	}

	response := models.NewListResponse(entries, streamReferences(rec))
	api.sendResponse(w, r, response)
}
