package utils

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// RecordingIDParam reads the :id path parameter from the request context.
// Recording routes accept the ID bare or with a trailing ".json", so the
// extension is stripped before lookup.
func RecordingIDParam(r *http.Request) string {
	params := httprouter.ParamsFromContext(r.Context())
	return strings.TrimSuffix(params.ByName("id"), ".json")
}
