package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/Proger1298/gaming-server/internal/apperr"
)

// respondJSON writes status and a pretty-printed JSON body, matching the
// original's PrettyPrint(4-space indent) + Cache-Control: no-cache contract.
func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := json.MarshalIndent(body, "", "    ")
	if err != nil {
		respondError(w, apperr.BadRequest("failed to encode response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	w.Write(data)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an apperr.Error onto the wire, including the Allow
// header for CodeInvalidMethod. Any other error is treated as an opaque 400
// badRequest, since every handler in this package is expected to already
// normalize its failures to *apperr.Error before calling this.
func respondError(w http.ResponseWriter, err error) {
	appErr, ok := err.(*apperr.Error)
	if !ok {
		appErr = apperr.BadRequest(err.Error())
	}

	if appErr.Allow != "" {
		w.Header().Set("Allow", appErr.Allow)
	}
	respondJSON(w, appErr.Status, errorBody{Code: string(appErr.Code), Message: appErr.Message})
}
