package restapi

import (
	"net/http"

	"beatwatch.beatmonitor.org/internal/models"
	"beatwatch.beatmonitor.org/internal/utils"
)

func (api *RestAPI) recordingHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.RecordingIDParam(r)

	if err := utils.ValidateID(id); err != nil {
		fieldErrors := map[string][]string{"id": {"Invalid field value for field \"id\"."}}
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	rec := api.Manager.FindRecording(id)
	if rec == nil {
		api.sendNotFound(w, r)
		return
	}

	references := models.NewEmptyReferences()
	references.Studies = append(references.Studies, models.NewStudyReference(rec.Metadata))

	response := models.NewEntryResponse(models.NewRecordingEntry(rec), references)
	api.sendResponse(w, r, response)
}
