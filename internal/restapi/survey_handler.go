package restapi

import (
	"net/http"

	"beatwatch.beatmonitor.org/internal/models"
	"beatwatch.beatmonitor.org/internal/parser"
)

func (api *RestAPI) surveyHandler(w http.ResponseWriter, r *http.Request) {
	rec, query, ok := api.recordingForStreamRequest(w, r)
	if !ok {
		return
	}

	responses := rec.Survey
	if query != nil {
		selected, err := parser.SelectSurvey(responses, *query, api.Logger)
		if err != nil {
			api.serverErrorResponse(w, r, err)
			return
		}
		responses = selected
	}

	entries := make([]models.SurveyEntry, 0, len(responses))
	for _, s := range responses {
		entries = append(entries, models.NewSurveyEntry(s))
	}

	response := models.NewListResponse(entries, streamReferences(rec))
	api.sendResponse(w, r, response)
}
