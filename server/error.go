package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cavabunga/cavabunga/manager"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set(headerContentType, mimeTypeJSON)
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// writeError maps a manager error kind to its status code; anything else is
// an internal error with the message withheld from the client.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var me *manager.Error
	if errors.As(err, &me) {
		status := http.StatusInternalServerError
		switch me.Kind {
		case manager.KindNotFound:
			status = http.StatusNotFound
		case manager.KindConflict:
			status = http.StatusConflict
		}
		s.writeJSON(w, status, ErrorResponse{Code: 1, Message: me.Message})
		return
	}

	s.logger.Error("request failed", "error", err)
	s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Code: 1, Message: "internal error"})
}
