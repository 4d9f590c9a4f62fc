package restapi

import (
	"net/http"

	"beatwatch.beatmonitor.org/internal/models"
	"beatwatch.beatmonitor.org/internal/parser"
)

func (api *RestAPI) accelerometerHandler(w http.ResponseWriter, r *http.Request) {
	rec, query, ok := api.recordingForStreamRequest(w, r)
	if !ok {
		return
	}

	samples := rec.Accel
	if query != nil {
		selected, err := parser.SelectAccel(samples, *query, api.Logger)
		if err != nil {
			api.serverErrorResponse(w, r, err)
			return
		}
		samples = selected
	}

	entries := make([]models.AccelEntry, 0, len(samples))
	for _, s := range samples {
		entries = append(entries, models.NewAccelEntry(s))
	}

	response := models.NewListResponse(entries, streamReferences(rec))
	api.sendResponse(w, r, response)
}
