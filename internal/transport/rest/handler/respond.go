package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"medintake/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the core's error taxonomy to HTTP status
// codes. Anything unrecognized is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrSessionNotFound), errors.Is(err, model.ErrReportNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrOutOfOrderAnswer), errors.Is(err, model.ErrSessionCompleted), errors.Is(err, model.ErrSessionNotCompleted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrInvalidAnswer):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, model.ErrReportMalformed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
