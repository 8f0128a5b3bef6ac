package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"goji.io/pat"

	"go.viam.com/rotviz/config"
	"go.viam.com/rotviz/render"
	"go.viam.com/rotviz/session"
	"go.viam.com/rotviz/spatialmath"
	"go.viam.com/rotviz/state"
)

// maxBodyBytes bounds request bodies; the largest legitimate body is a matrix typed as text.
const maxBodyBytes = 64 << 10

// TextRequest sets a view from free text.
type TextRequest struct {
	Repr state.Representation `json:"repr"`
	Text string               `json:"text"`
}

// SliderRequest moves one slider of a view.
type SliderRequest struct {
	Repr  state.Representation `json:"repr"`
	Index int                  `json:"index"`
	Value float64              `json:"value"`
}

// SessionResponse is a session id together with its current snapshot.
type SessionResponse struct {
	ID       string         `json:"id"`
	Snapshot state.Snapshot `json:"snapshot"`
}

// LinkResponse holds the URL parameters that recreate a session.
type LinkResponse struct {
	Query string `json:"query"`
}

func (svc *Service) healthz(w http.ResponseWriter, r *http.Request) {
	svc.writeJSON(w, r, http.StatusOK, map[string]interface{}{"ok": true, "sessions": svc.manager.Len()})
}

// createSession starts a session from the default settings overlaid with the URL parameters.
func (svc *Service) createSession(w http.ResponseWriter, r *http.Request) {
	if !svc.allowSession() {
		svc.writeError(w, r, errTooManyRequests)
		return
	}
	query, err := config.SettingsFromQuery(r.URL.Query(), svc.Defaults())
	if err != nil {
		svc.writeError(w, r, newBadRequestError(err))
		return
	}
	sess, err := svc.manager.Create(query.Settings)
	if err != nil {
		svc.writeError(w, r, err)
		return
	}
	snap, err := sess.Do(query.Apply)
	if err != nil {
		if delErr := svc.manager.Delete(sess.ID()); delErr != nil {
			svc.logger.CDebugw(r.Context(), "dropping rejected session", "id", sess.ID(), "error", delErr)
		}
		svc.writeError(w, r, newBadRequestError(err))
		return
	}
	svc.logger.CDebugw(r.Context(), "session created", "id", sess.ID())
	svc.writeJSON(w, r, http.StatusCreated, SessionResponse{ID: sess.ID().String(), Snapshot: snap})
}

func (svc *Service) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := svc.manager.GetString(pat.Param(r, "id"))
	if err != nil {
		svc.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (svc *Service) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := svc.lookup(w, r)
	if !ok {
		return
	}
	svc.writeJSON(w, r, http.StatusOK, SessionResponse{ID: sess.ID().String(), Snapshot: sess.View()})
}

func (svc *Service) deleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := svc.lookup(w, r)
	if !ok {
		return
	}
	if err := svc.manager.Delete(sess.ID()); err != nil {
		svc.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// edit runs fn on the session's state and answers with the resulting snapshot. A rejected edit
// answers 400 and still carries the snapshot, which records the offending field.
func (svc *Service) edit(w http.ResponseWriter, r *http.Request, fn func(st *state.State) error) {
	sess, ok := svc.lookup(w, r)
	if !ok {
		return
	}
	snap, err := sess.Do(fn)
	if err != nil {
		svc.writeErrorWithSnapshot(w, r, err, &snap)
		return
	}
	svc.writeJSON(w, r, http.StatusOK, SessionResponse{ID: sess.ID().String(), Snapshot: snap})
}

func (svc *Service) setText(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeBody(r, &req); err != nil {
		svc.writeError(w, r, err)
		return
	}
	svc.edit(w, r, func(st *state.State) error {
		return st.SetText(req.Repr, req.Text)
	})
}

func (svc *Service) setSlider(w http.ResponseWriter, r *http.Request) {
	var req SliderRequest
	if err := decodeBody(r, &req); err != nil {
		svc.writeError(w, r, err)
		return
	}
	svc.edit(w, r, func(st *state.State) error {
		return st.SetSlider(req.Repr, req.Index, req.Value)
	})
}

// updateSettings applies the fields present in the body and leaves the others as they are.
func (svc *Service) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]interface{}
	if err := decodeBody(r, &req); err != nil {
		svc.writeError(w, r, err)
		return
	}
	svc.edit(w, r, func(st *state.State) error {
		settings, err := config.SettingsFromMap(req, st.Settings())
		if err != nil {
			return newBadRequestError(errors.Wrap(err, "invalid settings"))
		}
		return st.UpdateSettings(settings)
	})
}

// setRotation replaces the rotation with a typed orientation, e.g.
// {"type": "euler_angles_degrees", "value": {"order": "ZYX", "angles": [90, 0, 0]}}.
func (svc *Service) setRotation(w http.ResponseWriter, r *http.Request) {
	o, ok := svc.decodeOrientation(w, r)
	if !ok {
		return
	}
	svc.edit(w, r, func(st *state.State) error {
		st.SetRotation(o)
		return nil
	})
}

// apply rotates the current rotation by a typed orientation expressed in the fixed frame.
func (svc *Service) apply(w http.ResponseWriter, r *http.Request) {
	o, ok := svc.decodeOrientation(w, r)
	if !ok {
		return
	}
	svc.edit(w, r, func(st *state.State) error {
		st.Apply(o)
		return nil
	})
}

func (svc *Service) decodeOrientation(w http.ResponseWriter, r *http.Request) (spatialmath.Orientation, bool) {
	var raw spatialmath.RawOrientation
	if err := decodeBody(r, &raw); err != nil {
		svc.writeError(w, r, err)
		return nil, false
	}
	o, err := spatialmath.ParseOrientation(raw)
	if err != nil {
		svc.writeError(w, r, newBadRequestError(errors.Wrap(err, "invalid orientation")))
		return nil, false
	}
	return o, true
}

// orientation answers the rotation as a typed quaternion, the form setRotation accepts.
func (svc *Service) orientation(w http.ResponseWriter, r *http.Request) {
	sess, ok := svc.lookup(w, r)
	if !ok {
		return
	}
	var o spatialmath.Orientation
	if _, err := sess.Do(func(st *state.State) error {
		o = st.Orientation()
		return nil
	}); err != nil {
		svc.writeError(w, r, err)
		return
	}
	m, err := spatialmath.OrientationMap(o)
	if err != nil {
		svc.writeError(w, r, err)
		return
	}
	svc.writeJSON(w, r, http.StatusOK, m)
}

func (svc *Service) reset(w http.ResponseWriter, r *http.Request) {
	svc.edit(w, r, func(st *state.State) error {
		st.Reset()
		return nil
	})
}

func (svc *Service) preview(w http.ResponseWriter, r *http.Request) {
	sess, ok := svc.lookup(w, r)
	if !ok {
		return
	}
	var o spatialmath.Orientation
	if _, err := sess.Do(func(st *state.State) error {
		o = st.Orientation()
		return nil
	}); err != nil {
		svc.writeError(w, r, err)
		return
	}
	png, err := render.PNG(o, svc.previewOptions())
	if err != nil {
		svc.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		svc.logger.CDebugw(r.Context(), "failed to write preview", "error", err)
	}
}

func (svc *Service) link(w http.ResponseWriter, r *http.Request) {
	sess, ok := svc.lookup(w, r)
	if !ok {
		return
	}
	svc.writeJSON(w, r, http.StatusOK, LinkResponse{Query: config.EncodeQuery(sess.View()).Encode()})
}

// convert answers a snapshot for the URL parameters without creating a session.
func (svc *Service) convert(w http.ResponseWriter, r *http.Request) {
	query, err := config.SettingsFromQuery(r.URL.Query(), svc.Defaults())
	if err != nil {
		svc.writeError(w, r, newBadRequestError(err))
		return
	}
	st, err := query.NewState()
	if err != nil {
		svc.writeError(w, r, newBadRequestError(err))
		return
	}
	svc.writeJSON(w, r, http.StatusOK, st.View())
}

func (svc *Service) schema(w http.ResponseWriter, r *http.Request) {
	svc.writeJSON(w, r, http.StatusOK, config.Schema())
}

// decodeBody reads one JSON value from the request body into v.
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return newBadRequestError(errors.Wrap(err, "invalid request body"))
	}
	return nil
}
