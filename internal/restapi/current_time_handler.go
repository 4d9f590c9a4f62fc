package restapi

import (
	"net/http"
	"time"

	"beatwatch.beatmonitor.org/internal/models"
)

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	data := models.NewCurrentTimeData(time.Now())
	response := models.NewOKResponse(data)
	api.sendResponse(w, r, response)
}
