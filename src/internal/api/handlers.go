package api

import (
	"encoding/json"
	"net/http"
)

// Handler manages all API endpoints and dependencies.
type Handler struct {
	store     RecordStore
	lifecycle RouterLifecycle
	history   HistoryReader
}

// NewHandler creates a new API handler. history may be nil when the journal
// is disabled.
func NewHandler(store RecordStore, lc RouterLifecycle, history HistoryReader) *Handler {
	return &Handler{
		store:     store,
		lifecycle: lc,
		history:   history,
	}
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// writeCreated writes a 201 Created response with data.
func writeCreated(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, data)
}

// writeNoContent writes a 204 No Content response.
func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON decodes JSON from the request body, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
