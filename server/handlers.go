package server

import (
	"encoding/json"
	"net/http"

	"github.com/cavabunga/cavabunga/ical"
	"github.com/cavabunga/cavabunga/internal/icalfmt"
	"github.com/cavabunga/cavabunga/manager"
)

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &manager.Error{Kind: manager.KindConflict, Message: "invalid request payload: " + err.Error()}
	}
	return nil
}

// requireQueryID extracts a mandatory id-valued query parameter.
func requireQueryID(r *http.Request, name string) (int64, error) {
	opt, err := queryID(r, name)
	if err != nil {
		return 0, err
	}
	id, ok := opt.Get()
	if !ok {
		return 0, &manager.Error{Kind: manager.KindConflict, Message: "query parameter " + name + " is required"}
	}
	return id, nil
}

// Participant handlers

func (s *Server) addParticipant(w http.ResponseWriter, r *http.Request) {
	var p ical.Participant
	if err := decodeBody(r, &p); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.manager.AddParticipant(r.Context(), &p); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &p)
}

func (s *Server) listParticipants(w http.ResponseWriter, r *http.Request) {
	var (
		participants []*ical.Participant
		err          error
	)
	if t, ok := queryParam(r, "type").Get(); ok {
		participants, err = s.manager.ListParticipantsByType(r.Context(), ical.ParticipantType(t))
	} else {
		participants, err = s.manager.ListParticipants(r.Context())
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, participants)
}

func (s *Server) getParticipant(w http.ResponseWriter, r *http.Request) {
	p, err := s.manager.GetParticipantByKey(r.Context(), r.PathValue("key"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var p ical.Participant
	if err := decodeBody(r, &p); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.manager.UpdateParticipant(r.Context(), id, &p); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, &p)
}

func (s *Server) deleteParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.manager.DeleteParticipantByID(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

// Component handlers

func (s *Server) addComponent(w http.ResponseWriter, r *http.Request) {
	var c ical.Component
	if err := decodeBody(r, &c); err != nil {
		s.writeError(w, err)
		return
	}
	owner := r.URL.Query().Get("owner")
	parentOpt, err := queryID(r, "parent")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var parentID *int64
	if id, ok := parentOpt.Get(); ok {
		parentID = &id
	}
	if err := s.manager.AddComponent(r.Context(), &c, owner, parentID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &c)
}

func (s *Server) listComponents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parentOpt, err := queryID(r, "parent")
	if err != nil {
		s.writeError(w, err)
		return
	}
	ownerOpt := queryParam(r, "owner")
	typeOpt := queryParam(r, "type")

	var components []*ical.Component
	switch {
	case parentOpt.IsPresent() && typeOpt.IsPresent():
		components, err = s.manager.ListComponentsByParentAndType(ctx, parentOpt.MustGet(), ical.ComponentType(typeOpt.MustGet()))
	case parentOpt.IsPresent():
		components, err = s.manager.ListComponentsByParent(ctx, parentOpt.MustGet())
	case ownerOpt.IsPresent() && typeOpt.IsPresent():
		components, err = s.manager.ListComponentsByOwnerAndType(ctx, ownerOpt.MustGet(), ical.ComponentType(typeOpt.MustGet()))
	case ownerOpt.IsPresent():
		components, err = s.manager.ListComponentsByOwner(ctx, ownerOpt.MustGet())
	case typeOpt.IsPresent():
		components, err = s.manager.ListComponentsByType(ctx, ical.ComponentType(typeOpt.MustGet()))
	default:
		components, err = s.manager.ListComponents(ctx)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, components)
}

func (s *Server) getComponent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	c, err := s.manager.GetComponentByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

// exportComponent renders a component subtree as iCalendar text.
func (s *Server) exportComponent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	c, err := s.manager.GetComponentByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set(headerContentType, mimeTypeCalendar)
	if err := icalfmt.Encode(w, c); err != nil {
		s.logger.Error("encoding calendar", "id", id, "error", err)
	}
}

func (s *Server) updateComponent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var c ical.Component
	if err := decodeBody(r, &c); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.manager.UpdateComponent(r.Context(), id, &c); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, &c)
}

func (s *Server) deleteComponent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.manager.DeleteComponentByID(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

// Property handlers

func (s *Server) addProperty(w http.ResponseWriter, r *http.Request) {
	var p ical.Property
	if err := decodeBody(r, &p); err != nil {
		s.writeError(w, err)
		return
	}
	componentID, err := requireQueryID(r, "component")
	if err != nil {
		s.writeError(w, err)
		return
	}
	owner := r.URL.Query().Get("owner")
	if err := s.manager.AddProperty(r.Context(), &p, owner, componentID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &p)
}

func (s *Server) listProperties(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	componentOpt, err := queryID(r, "component")
	if err != nil {
		s.writeError(w, err)
		return
	}
	typeOpt := queryParam(r, "type")

	var properties []*ical.Property
	switch {
	case componentOpt.IsPresent() && typeOpt.IsPresent():
		properties, err = s.manager.ListPropertiesByComponentAndType(ctx, componentOpt.MustGet(), ical.PropertyType(typeOpt.MustGet()))
	case componentOpt.IsPresent():
		properties, err = s.manager.ListPropertiesByComponent(ctx, componentOpt.MustGet())
	case typeOpt.IsPresent():
		properties, err = s.manager.ListPropertiesByType(ctx, ical.PropertyType(typeOpt.MustGet()))
	default:
		properties, err = s.manager.ListProperties(ctx)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, properties)
}

func (s *Server) getProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, err := s.manager.GetPropertyByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var p ical.Property
	if err := decodeBody(r, &p); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.manager.UpdateProperty(r.Context(), id, &p); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, &p)
}

func (s *Server) deleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.manager.DeleteProperty(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

// Parameter handlers

func (s *Server) addParameter(w http.ResponseWriter, r *http.Request) {
	var p ical.Parameter
	if err := decodeBody(r, &p); err != nil {
		s.writeError(w, err)
		return
	}
	componentID, err := requireQueryID(r, "component")
	if err != nil {
		s.writeError(w, err)
		return
	}
	propertyID, err := requireQueryID(r, "property")
	if err != nil {
		s.writeError(w, err)
		return
	}
	owner := r.URL.Query().Get("owner")
	if err := s.manager.AddParameter(r.Context(), &p, owner, componentID, propertyID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &p)
}

func (s *Server) listParameters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	propertyOpt, err := queryID(r, "property")
	if err != nil {
		s.writeError(w, err)
		return
	}
	typeOpt := queryParam(r, "type")

	var parameters []*ical.Parameter
	switch {
	case propertyOpt.IsPresent() && typeOpt.IsPresent():
		parameters, err = s.manager.ListParametersByPropertyAndType(ctx, propertyOpt.MustGet(), ical.ParameterType(typeOpt.MustGet()))
	case propertyOpt.IsPresent():
		parameters, err = s.manager.ListParametersByProperty(ctx, propertyOpt.MustGet())
	case typeOpt.IsPresent():
		parameters, err = s.manager.ListParametersByType(ctx, ical.ParameterType(typeOpt.MustGet()))
	default:
		parameters, err = s.manager.ListParameters(ctx)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, parameters)
}

func (s *Server) getParameter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, err := s.manager.GetParameterByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateParameter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var p ical.Parameter
	if err := decodeBody(r, &p); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.manager.UpdateParameter(r.Context(), id, &p); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, &p)
}

func (s *Server) deleteParameter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.manager.DeleteParameter(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
