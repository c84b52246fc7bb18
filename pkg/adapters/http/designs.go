package http

import (
	"net/http"

	"github.com/aretw0/automaton/pkg/designer"
	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/schema"
	"github.com/go-chi/chi/v5"
)

// ListDesigns handles the GET /designs request.
func (s *Server) ListDesigns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"designs": ids})
}

// GetDesign handles the GET /designs/{id} request.
func (s *Server) GetDesign(w http.ResponseWriter, r *http.Request) {
	d, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d.Code())
}

// PutDesign handles the PUT /designs/{id} request.
// "If-None-Match: *" turns the upsert into a create that fails on an existing id.
func (s *Server) PutDesign(w http.ResponseWriter, r *http.Request) {
	var code schema.Code
	if !s.decode(w, r, &code) {
		return
	}

	id := chi.URLParam(r, "id")
	create := r.Header.Get("If-None-Match") == "*"
	var (
		d   *designer.Designer
		err error
	)
	if create {
		d, err = s.Sessions.Create(r.Context(), id, &code)
	} else {
		d, err = s.Sessions.Put(r.Context(), id, &code)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.broadcast(id, "put", "", d)
	status := http.StatusOK
	if create {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, d.Code())
}

// DeleteDesign handles the DELETE /designs/{id} request.
func (s *Server) DeleteDesign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Streams.Broadcast(DesignEvent{Op: "delete", Design: id})
	w.WriteHeader(http.StatusNoContent)
}

// AddState handles the POST /designs/{id}/states request.
func (s *Server) AddState(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string           `json:"name"`
		Position *domain.Position `json:"position,omitempty"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	var pos domain.Position
	if body.Position != nil {
		pos = *body.Position
	}
	s.edit(w, r, "add_state", body.Name, http.StatusCreated, func(d *designer.Designer) error {
		_, err := d.AddState(body.Name, pos)
		return err
	})
}

// RemoveState handles the DELETE /designs/{id}/states/{name} request.
func (s *Server) RemoveState(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.edit(w, r, "remove_state", name, http.StatusOK, func(d *designer.Designer) error {
		id, err := lookup(d, "remove_state", name)
		if err != nil {
			return err
		}
		return d.RemoveState(id)
	})
}

// SwitchFinal handles the POST /designs/{id}/states/{name}/final request.
func (s *Server) SwitchFinal(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.edit(w, r, "switch_final", name, http.StatusOK, func(d *designer.Designer) error {
		id, err := lookup(d, "switch_final", name)
		if err != nil {
			return err
		}
		return d.SwitchFinal(id)
	})
}

// RenameState handles the POST /designs/{id}/states/{name}/rename request.
func (s *Server) RenameState(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	name := chi.URLParam(r, "name")
	s.edit(w, r, "rename_state", body.Name, http.StatusOK, func(d *designer.Designer) error {
		id, err := lookup(d, "rename_state", name)
		if err != nil {
			return err
		}
		return d.RenameState(id, body.Name)
	})
}

// MoveState handles the PUT /designs/{id}/states/{name}/position request.
func (s *Server) MoveState(w http.ResponseWriter, r *http.Request) {
	var pos domain.Position
	if !s.decode(w, r, &pos) {
		return
	}
	name := chi.URLParam(r, "name")
	s.edit(w, r, "move_state", name, http.StatusOK, func(d *designer.Designer) error {
		id, err := lookup(d, "move_state", name)
		if err != nil {
			return err
		}
		return d.MoveState(id, pos)
	})
}

// SetTransition handles the PUT /designs/{id}/transitions request.
func (s *Server) SetTransition(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From   string                 `json:"from"`
		To     string                 `json:"to"`
		Labels []schema.TransitionDef `json:"labels"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	labels := make([]domain.Label, 0, len(body.Labels))
	for _, t := range body.Labels {
		labels = append(labels, t.Label())
	}
	s.edit(w, r, "add_transition", body.From+"->"+body.To, http.StatusOK, func(d *designer.Designer) error {
		from, to, err := lookupPair(d, "add_transition", body.From, body.To)
		if err != nil {
			return err
		}
		return d.AddTransition(from, to, labels)
	})
}

// RemoveTransition handles the DELETE /designs/{id}/transitions/{from}/{to} request.
func (s *Server) RemoveTransition(w http.ResponseWriter, r *http.Request) {
	fromName, toName := chi.URLParam(r, "from"), chi.URLParam(r, "to")
	s.edit(w, r, "remove_transition", fromName+"->"+toName, http.StatusOK, func(d *designer.Designer) error {
		from, to, err := lookupPair(d, "remove_transition", fromName, toName)
		if err != nil {
			return err
		}
		return d.RemoveTransition(from, to)
	})
}

// ExecuteDesign handles the POST /designs/{id}/execute request.
func (s *Server) ExecuteDesign(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if !s.decode(w, r, &body) {
		return
	}
	d, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.run(r.Context(), d, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// edit applies fn under the design lock, then notifies subscribers and returns the new code.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, op, subject string, status int, fn func(d *designer.Designer) error) {
	id := chi.URLParam(r, "id")
	d, err := s.Sessions.Edit(r.Context(), id, fn)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.broadcast(id, op, subject, d)
	s.writeJSON(w, status, d.Code())
}

func (s *Server) broadcast(id, op, subject string, d *designer.Designer) {
	s.Streams.Broadcast(DesignEvent{
		Op:            op,
		Design:        id,
		Subject:       subject,
		States:        d.CountStates(),
		Deterministic: d.IsDeterministic(),
	})
}

func lookup(d *designer.Designer, op, name string) (int, error) {
	id, ok := d.StateID(name)
	if !ok {
		return 0, &domain.EditError{Op: op, Subject: name, Err: domain.ErrUnknownState}
	}
	return id, nil
}

func lookupPair(d *designer.Designer, op, from, to string) (int, int, error) {
	fromID, err := lookup(d, op, from)
	if err != nil {
		return 0, 0, err
	}
	toID, err := lookup(d, op, to)
	if err != nil {
		return 0, 0, err
	}
	return fromID, toID, nil
}
