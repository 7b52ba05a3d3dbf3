package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"prayerchain/internal/data"
	"prayerchain/internal/middleware"
	"prayerchain/internal/normalize"
)

// sessionDuration is how long a login stays valid.
const sessionDuration = 24 * time.Hour

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// handleIndex returns the landing payload: the session agent's document
// when logged in, an anonymous payload otherwise.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if agent, ok := middleware.AgentFromContext(r.Context()); ok {
		s.writeJSON(w, http.StatusOK, envelope{"agent": agent})
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"title": "Accountant", "agent": nil})
}

// handleRegister creates a new agent account and logs it in.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	name := r.PostFormValue("name")

	agent, err := s.agents.Create(r.Context(), email, password, name)
	if err != nil {
		s.respondError(w, err)
		return
	}

	token, expiresAt, err := s.jwt.GenerateToken(agent.ID, agent.Email)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.setSessionCookie(w, token, expiresAt)

	s.writeJSON(w, http.StatusCreated, envelope{
		"agent":    agent,
		"messages": flash{Info: []string{fmt.Sprintf("Hello, %s!", agent.Email)}},
	})
}

// handleLogin authenticates an agent and sets the session cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := normalize.Email(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	fail := func() {
		s.writeJSON(w, http.StatusUnauthorized, envelope{
			"messages": flash{Error: []string{"Login failed"}},
		})
	}

	agent, err := s.agents.FindByEmail(r.Context(), email)
	if err != nil {
		if err == data.ErrNotFound {
			fail()
			return
		}
		s.respondError(w, err)
		return
	}

	if !s.validPassword(agent.Password, password) {
		fail()
		return
	}

	token, expiresAt, err := s.jwt.GenerateToken(agent.ID, agent.Email)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.setSessionCookie(w, token, expiresAt)

	s.writeJSON(w, http.StatusOK, envelope{
		"agent":    agent,
		"messages": flash{Info: []string{fmt.Sprintf("Hello, %s!", agent.Email)}},
	})
}

// handleLogout clears the session cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	s.writeJSON(w, http.StatusOK, envelope{
		"messages": flash{Info: []string{"Goodbye"}},
	})
}

// handleDeleteAgent destroys the session agent's account and everything
// nested inside it. The path id must match the session agent; anything
// else is an ownership violation.
func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	agent, _ := middleware.AgentFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, data.ErrNotFound)
		return
	}
	if id != agent.ID {
		s.respondError(w, data.ErrForbidden)
		return
	}

	if err := s.agents.Delete(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}
	s.clearSessionCookie(w)
	s.writeJSON(w, http.StatusOK, envelope{
		"messages": flash{Success: []string{"Account deleted"}},
	})
}

// handleResetInfo describes the reset-request form for the client.
func (s *Server) handleResetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, envelope{"action": "/reset", "fields": []string{"email"}})
}

// handleResetRequest starts the password reset flow. The token is
// persisted before the mail goes out; a mail failure does not undo it.
func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")

	agent, err := s.flow.Request(r.Context(), email)
	if err != nil {
		if err == data.ErrNotFound {
			s.writeJSON(w, http.StatusNotFound, envelope{
				"messages": flash{Error: []string{"No account with that email address exists"}},
			})
			return
		}
		s.respondError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"messages": flash{Success: []string{
			fmt.Sprintf("An email has been sent to %s with further instructions", agent.Email),
		}},
	})
}

// handleResetToken checks a reset token ahead of showing the new-password
// form.
func (s *Server) handleResetToken(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if err := s.flow.Peek(r.Context(), token); err != nil {
		s.respondError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{
		"action": fmt.Sprintf("/reset/%s", token),
		"fields": []string{"password", "confirm"},
	})
}

// handleResetConsume replaces the password and invalidates the token.
func (s *Server) handleResetConsume(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirm")

	if _, err := s.flow.Consume(r.Context(), token, password, confirm); err != nil {
		s.respondError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"messages": flash{Success: []string{"Password reset"}},
	})
}
