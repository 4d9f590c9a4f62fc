package restapi

import (
	"net/http"

	"beatwatch.beatmonitor.org/internal/models"
)

func (api *RestAPI) recordingsHandler(w http.ResponseWriter, r *http.Request) {
	recordings := api.Manager.GetRecordings()

	summaries := make([]models.RecordingSummary, 0, len(recordings))
	seen := make(map[models.StudyReference]bool)
	studies := make([]models.StudyReference, 0)

	for _, rec := range recordings {
		summaries = append(summaries, rec.Summarize())

		study := models.NewStudyReference(rec.Metadata)
		if !seen[study] {
			seen[study] = true
			studies = append(studies, study)
		}
	}

	references := models.ReferencesModel{
		Recordings: []models.RecordingSummary{},
		Studies:    studies,
	}

	response := models.NewListResponse(summaries, references)
	api.sendResponse(w, r, response)
}
