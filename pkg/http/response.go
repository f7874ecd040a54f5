package http

import (
	"encoding/json"
	"net/http"

	apperrors "fleetalloc/pkg/errors"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// HistoryResponse is the pagination envelope of the history report. The
// field names are part of the inherited API contract.
type HistoryResponse struct {
	Total   int64 `json:"total"`
	Skip    int64 `json:"skip"`
	Limit   int64 `json:"limit"`
	Results any   `json:"results"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), ErrorResponse{
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, data)
}

func WriteDetail(w http.ResponseWriter, detail string) error {
	return WriteJSON(w, http.StatusOK, DetailResponse{Detail: detail})
}
