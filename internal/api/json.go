package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"tripboard/internal/board"
	"tripboard/internal/codec"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, title string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, board.ErrTripNotFound):
		status = http.StatusNotFound
		title = "Trip not found"
	case errors.Is(err, board.ErrLegIndex),
		errors.Is(err, board.ErrInvalidStatusKey),
		errors.Is(err, board.ErrInvalidState),
		errors.Is(err, codec.ErrUnsupportedFormat),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	writeProblem(w, status, title, err.Error(), r.URL.Path)
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	present, err := decodeOptionalJSON(w, r, v)
	if err == nil && !present {
		return badRequest("request body is required")
	}
	return err
}

// decodeOptionalJSON is decodeJSON for endpoints where the body may be empty.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) (bool, error) {
	if r.Body == nil {
		return false, nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, badRequest("invalid JSON: %v", err)
	}
	return true, nil
}

const maxBodyBytes = 8 << 20
