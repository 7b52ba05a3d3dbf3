package main

import (
	"encoding/json"
	"net/http"

	"prayerchain/internal/data"
)

// flash mirrors the message categories the original UI rendered as alert
// banners; the JSON layer keeps them so a client can do the same.
type flash struct {
	Success []string `json:"success,omitempty"`
	Info    []string `json:"info,omitempty"`
	Error   []string `json:"error,omitempty"`
}

type envelope map[string]interface{}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("response encoding failed", "err", err)
	}
}

// respondError maps the error taxonomy onto responses. Every kind is
// per-request and recoverable; nothing here is fatal to the process.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	if ve, ok := data.AsValidation(err); ok {
		s.writeJSON(w, http.StatusBadRequest, envelope{
			"errors":   ve.Fields,
			"messages": flash{Error: ve.Messages()},
		})
		return
	}
	switch err {
	case data.ErrNotFound:
		s.writeJSON(w, http.StatusNotFound, envelope{
			"messages": flash{Error: []string{"That partner does not exist"}},
		})
	case data.ErrForbidden:
		s.writeJSON(w, http.StatusUnauthorized, envelope{
			"messages": flash{Error: []string{"You are unauthorized"}},
		})
	case data.ErrTokenExpired:
		s.writeJSON(w, http.StatusBadRequest, envelope{
			"messages": flash{Error: []string{"Password reset token is invalid or has expired"}},
		})
	default:
		s.log.Error("request failed", "err", err)
		s.writeJSON(w, http.StatusInternalServerError, envelope{
			"messages": flash{Error: []string{"Something went wrong"}},
		})
	}
}
