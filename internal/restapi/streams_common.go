package restapi

import (
	"net/http"

	"beatwatch.beatmonitor.org/internal/models"
	"beatwatch.beatmonitor.org/internal/parser"
	"beatwatch.beatmonitor.org/internal/utils"
)

// recordingForStreamRequest resolves the recording and optional time window
// shared by the heart rate, accelerometer and survey endpoints. ok is false
// when a response has already been written.
func (api *RestAPI) recordingForStreamRequest(w http.ResponseWriter, r *http.Request) (*models.Recording, *parser.PeriodQuery, bool) {
	id := utils.RecordingIDParam(r)

	fieldErrors := make(map[string][]string)
	if err := utils.ValidateID(id); err != nil {
		fieldErrors["id"] = append(fieldErrors["id"], "Invalid field value for field \"id\".")
		api.validationErrorResponse(w, r, fieldErrors)
		return nil, nil, false
	}

	query, ok := utils.ParsePeriodQuery(r.URL.Query(), fieldErrors)
	if !ok {
		api.validationErrorResponse(w, r, fieldErrors)
		return nil, nil, false
	}

	rec := api.Manager.FindRecording(id)
	if rec == nil {
		api.sendNotFound(w, r)
		return nil, nil, false
	}

	return rec, query, true
}

// streamReferences builds the references block shared by the stream endpoints.
func streamReferences(rec *models.Recording) models.ReferencesModel {
	return models.ReferencesModel{
		Recordings: []models.RecordingSummary{rec.Summarize()},
		Studies:    []models.StudyReference{models.NewStudyReference(rec.Metadata)},
	}
}
