package main

import (
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"

	"prayerchain/internal/data"
	"prayerchain/internal/middleware"
)

// handleCreatePartner adds a partner to the head of the session agent's
// list. The whole aggregate is validated before anything is written; on
// failure the committed document is untouched because the mutation ran on
// a clone.
func (s *Server) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	agent, _ := middleware.AgentFromContext(r.Context())

	partner := data.NewPartner(r.PostFormValue("name"), r.PostFormValue("email"))
	work := agent.Clone()
	work.AddPartner(partner)

	if _, err := s.agents.Save(r.Context(), work); err != nil {
		s.respondError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, envelope{
		"partner":  partner,
		"messages": flash{Success: []string{fmt.Sprintf("Added %s to prayer chain", partner.Name)}},
	})
}

// handleShowPartner renders one partner from the session agent's own list.
func (s *Server) handleShowPartner(w http.ResponseWriter, r *http.Request) {
	agent, _ := middleware.AgentFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, data.ErrNotFound)
		return
	}
	partner, ok := agent.FindPartner(id)
	if !ok {
		s.respondError(w, data.ErrNotFound)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"partner":        partner,
		"modes_of_thanks": data.ModeValues,
	})
}

// handleUpdatePartner applies non-blank fields to a partner. Blank values
// are skipped, never used to clear a field.
func (s *Server) handleUpdatePartner(w http.ResponseWriter, r *http.Request) {
	agent, _ := middleware.AgentFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, data.ErrForbidden)
		return
	}

	work := agent.Clone()
	if !work.UpdatePartner(id, map[string]string{
		"name":  r.PostFormValue("name"),
		"email": r.PostFormValue("email"),
	}) {
		s.respondError(w, data.ErrForbidden)
		return
	}

	saved, err := s.agents.Save(r.Context(), work)
	if err != nil {
		s.respondError(w, err)
		return
	}

	partner, _ := saved.FindPartner(id)
	s.writeJSON(w, http.StatusOK, envelope{
		"partner":  partner,
		"messages": flash{Success: []string{"Update successful"}},
	})
}

// handleDeletePartner splices a partner out of the list, destroying every
// record nested under it.
func (s *Server) handleDeletePartner(w http.ResponseWriter, r *http.Request) {
	agent, _ := middleware.AgentFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, data.ErrForbidden)
		return
	}

	work := agent.Clone()
	partner, ok := work.FindPartner(id)
	if !ok {
		s.respondError(w, data.ErrForbidden)
		return
	}
	email := partner.Email
	work.RemovePartner(id)

	if _, err := s.agents.Save(r.Context(), work); err != nil {
		s.respondError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"messages": flash{Success: []string{fmt.Sprintf("%s removed for eternity", email)}},
	})
}

// mutatePartner runs fn against a partner inside a cloned aggregate and
// saves the result. fn returns the success flash message.
func (s *Server) mutatePartner(w http.ResponseWriter, r *http.Request, fn func(p *data.Partner) (string, error)) {
	agent, _ := middleware.AgentFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		s.noSuchPartner(w)
		return
	}

	work := agent.Clone()
	partner, ok := work.FindPartner(id)
	if !ok {
		s.noSuchPartner(w)
		return
	}

	success, err := fn(partner)
	if err != nil {
		s.respondError(w, err)
		return
	}

	saved, err := s.agents.Save(r.Context(), work)
	if err != nil {
		s.respondError(w, err)
		return
	}

	partner, _ = saved.FindPartner(id)
	s.writeJSON(w, http.StatusCreated, envelope{
		"partner":  partner,
		"messages": flash{Success: []string{success}},
	})
}

func (s *Server) noSuchPartner(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusNotFound, envelope{
		"messages": flash{Error: []string{"You have no such partner"}},
	})
}

// handleAddDonation records a donation. The amount arrives as a currency
// string and is stored as integer minor units.
func (s *Server) handleAddDonation(w http.ResponseWriter, r *http.Request) {
	s.mutatePartner(w, r, func(p *data.Partner) (string, error) {
		amount, err := data.ParseAmount(r.PostFormValue("amount"))
		if err != nil {
			ve := data.NewValidationError()
			ve.Add("amount", "No donation amount supplied")
			return "", ve
		}
		date, ok := parseDate(r.PostFormValue("date"))
		if !ok {
			ve := data.NewValidationError()
			ve.Add("date", "Cannot read that date")
			return "", ve
		}
		p.AddDonation(data.NewDonation(date, amount))
		return "Donation added", nil
	})
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	s.mutatePartner(w, r, func(p *data.Partner) (string, error) {
		p.AddNote(data.NewNote(r.PostFormValue("text")))
		return "Note added", nil
	})
}

func (s *Server) handleAddPrayer(w http.ResponseWriter, r *http.Request) {
	s.mutatePartner(w, r, func(p *data.Partner) (string, error) {
		p.AddPrayer(data.NewNote(r.PostFormValue("text")))
		return "Prayer added", nil
	})
}

func (s *Server) handleAddThankYou(w http.ResponseWriter, r *http.Request) {
	s.mutatePartner(w, r, func(p *data.Partner) (string, error) {
		date, ok := parseDate(r.PostFormValue("date"))
		if !ok {
			ve := data.NewValidationError()
			ve.Add("date", "Cannot read that date")
			return "", ve
		}
		p.AddThankYou(data.NewThankYou(date, r.PostFormValue("mode")))
		return "Thank you recorded", nil
	})
}

func (s *Server) handleAddAppointment(w http.ResponseWriter, r *http.Request) {
	s.mutatePartner(w, r, func(p *data.Partner) (string, error) {
		dateOfRequest, ok := parseDate(r.PostFormValue("dateOfRequest"))
		if !ok {
			ve := data.NewValidationError()
			ve.Add("dateOfRequest", "Cannot read that date")
			return "", ve
		}
		followUpOn, ok := parseDate(r.PostFormValue("followUpOn"))
		if !ok {
			ve := data.NewValidationError()
			ve.Add("followUpOn", "Cannot read that date")
			return "", ve
		}
		p.AddAppointment(data.NewAppointment(dateOfRequest, followUpOn, r.PostFormValue("requestMode")))
		return "Appointment requested", nil
	})
}

// nested removal handlers share the same clone-mutate-save shape

func (s *Server) handleRemoveDonation(w http.ResponseWriter, r *http.Request) {
	s.removeNested(w, r, "did", func(p *data.Partner, id bson.ObjectID) bool { return p.RemoveDonation(id) }, "Donation removed")
}

func (s *Server) handleRemoveNote(w http.ResponseWriter, r *http.Request) {
	s.removeNested(w, r, "nid", func(p *data.Partner, id bson.ObjectID) bool { return p.RemoveNote(id) }, "Note removed")
}

func (s *Server) handleRemovePrayer(w http.ResponseWriter, r *http.Request) {
	s.removeNested(w, r, "nid", func(p *data.Partner, id bson.ObjectID) bool { return p.RemovePrayer(id) }, "Prayer removed")
}

func (s *Server) handleRemoveThankYou(w http.ResponseWriter, r *http.Request) {
	s.removeNested(w, r, "tid", func(p *data.Partner, id bson.ObjectID) bool { return p.RemoveThankYou(id) }, "Thank you removed")
}

func (s *Server) handleRemoveAppointment(w http.ResponseWriter, r *http.Request) {
	s.removeNested(w, r, "aid", func(p *data.Partner, id bson.ObjectID) bool { return p.RemoveAppointment(id) }, "Appointment removed")
}

func (s *Server) removeNested(w http.ResponseWriter, r *http.Request, varName string, remove func(*data.Partner, bson.ObjectID) bool, success string) {
	agent, _ := middleware.AgentFromContext(r.Context())

	pid, err := pathID(r, "id")
	if err != nil {
		s.noSuchPartner(w)
		return
	}
	nid, err := pathID(r, varName)
	if err != nil {
		s.respondError(w, data.ErrNotFound)
		return
	}

	work := agent.Clone()
	partner, ok := work.FindPartner(pid)
	if !ok {
		s.noSuchPartner(w)
		return
	}
	if !remove(partner, nid) {
		s.respondError(w, data.ErrNotFound)
		return
	}

	if _, err := s.agents.Save(r.Context(), work); err != nil {
		s.respondError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"messages": flash{Success: []string{success}},
	})
}

// handleAddAppointmentNote and handleAddAppointmentFollowUp target a
// record two levels down: partner -> appointment -> note/follow-up.

func (s *Server) handleAddAppointmentNote(w http.ResponseWriter, r *http.Request) {
	s.mutateAppointment(w, r, func(ap *data.Appointment) (string, error) {
		ap.AddNote(data.NewNote(r.PostFormValue("text")))
		return "Note added", nil
	})
}

func (s *Server) handleAddAppointmentFollowUp(w http.ResponseWriter, r *http.Request) {
	s.mutateAppointment(w, r, func(ap *data.Appointment) (string, error) {
		date, ok := parseDate(r.PostFormValue("date"))
		if !ok {
			ve := data.NewValidationError()
			ve.Add("date", "Cannot read that date")
			return "", ve
		}
		ap.AddFollowUp(data.NewFollowUp(date, r.PostFormValue("mode")))
		return "Follow up added", nil
	})
}

func (s *Server) mutateAppointment(w http.ResponseWriter, r *http.Request, fn func(ap *data.Appointment) (string, error)) {
	s.mutatePartner(w, r, func(p *data.Partner) (string, error) {
		aid, err := pathID(r, "aid")
		if err != nil {
			return "", data.ErrNotFound
		}
		appointment, ok := p.FindAppointment(aid)
		if !ok {
			return "", data.ErrNotFound
		}
		return fn(appointment)
	})
}
