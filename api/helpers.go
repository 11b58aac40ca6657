package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/garnizeh/offerdesk/internal/workflow"
)

// maxBodySize bounds every JSON request body.
const maxBodySize = 64 * 1024

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

type errorResponse struct {
	Error  string                `json:"error"`
	Fields []workflow.FieldError `json:"fields,omitempty"`
}

// writeError maps workflow errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var ve *workflow.ValidationError
	var te *workflow.TransitionError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, errorResponse{Error: "invalid offer", Fields: ve.Fields}, http.StatusBadRequest)
	case errors.Is(err, workflow.ErrNotFound):
		writeJSON(w, errorResponse{Error: "offer not found"}, http.StatusNotFound)
	case errors.As(err, &te):
		writeJSON(w, errorResponse{Error: te.Error()}, http.StatusConflict)
	case errors.Is(err, workflow.ErrPrecondition):
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusConflict)
	case errors.Is(err, workflow.ErrDispatchFailed):
		writeJSON(w, errorResponse{Error: err.Error()}, http.StatusBadGateway)
	default:
		logger.Error("request failed", slog.Any("err", err))
		writeJSON(w, errorResponse{Error: "internal error"}, http.StatusInternalServerError)
	}
}

// readBody reads at most maxBodySize bytes. An empty body yields nil.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxBodySize {
		return nil, errBodyTooLarge
	}
	return b, nil
}

var errBodyTooLarge = errors.New("request body too large")

// pagination reads limit and offset query params.
func pagination(r *http.Request, def, max int) (limit, offset int) {
	q := r.URL.Query()
	limit = def
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= max {
			limit = v
		}
	}
	if o := q.Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
