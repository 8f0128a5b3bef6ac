package web

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"go.viam.com/rotviz/session"
	"go.viam.com/rotviz/state"
	"go.viam.com/rotviz/textformat"
)

// ErrorResponse is the body of every failed request. Field names the view a rejected edit was
// typed into.
type ErrorResponse struct {
	Error    string          `json:"error"`
	Field    string          `json:"field,omitempty"`
	Snapshot *state.Snapshot `json:"snapshot,omitempty"`
}

// errTooManyRequests is returned when sessions are being created faster than allowed.
var errTooManyRequests = errors.New("too many new sessions, try again later")

// badRequestError marks an error caused by the request rather than by the server.
type badRequestError struct {
	err error
}

func newBadRequestError(err error) error {
	if err == nil {
		return nil
	}
	return &badRequestError{err: err}
}

func (e *badRequestError) Error() string {
	return e.err.Error()
}

func (e *badRequestError) Unwrap() error {
	return e.err
}

// statusFor maps an error onto an HTTP status code.
func statusFor(err error) int {
	var inputErr *state.InputError
	var parseErr *textformat.ParseError
	var badReq *badRequestError
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, errTooManyRequests):
		return http.StatusTooManyRequests
	case errors.As(err, &inputErr), errors.As(err, &parseErr), errors.As(err, &badReq):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (svc *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	svc.writeErrorWithSnapshot(w, r, err, nil)
}

func (svc *Service) writeErrorWithSnapshot(w http.ResponseWriter, r *http.Request, err error, snap *state.Snapshot) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error(), Snapshot: snap}
	var inputErr *state.InputError
	if errors.As(err, &inputErr) {
		resp.Field = string(inputErr.Repr)
	}
	if status >= http.StatusInternalServerError {
		svc.logger.Warnw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		svc.logger.CDebugw(r.Context(), "request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	svc.writeJSON(w, r, status, resp)
}

func (svc *Service) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		svc.logger.CDebugw(r.Context(), "failed to write response", "error", err)
	}
}
