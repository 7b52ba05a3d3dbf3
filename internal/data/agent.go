package data

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"prayerchain/internal/normalize"
)

// NewAgent builds an unsaved agent. The plaintext password is held as a
// pending change and hashed when the store saves the document.
func NewAgent(email, password, name string) *Agent {
	now := time.Now()
	a := &Agent{
		Email:     normalize.Email(email),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.SetPassword(password)
	return a
}

// SetPassword replaces the agent's password. The hash is recomputed at the
// next save; edits that never call SetPassword leave the stored hash
// byte-identical.
func (a *Agent) SetPassword(plaintext string) {
	a.pendingPassword = strings.TrimSpace(plaintext)
	a.passwordDirty = true
}

// PasswordDirty reports whether a plaintext replacement is waiting to be
// hashed.
func (a *Agent) PasswordDirty() bool {
	return a.passwordDirty
}

// Clone returns a deep copy of the agent. Mutating handlers work on the
// clone and only adopt it once validation and persistence succeed, so a
// failed save leaves the committed state untouched.
func (a *Agent) Clone() *Agent {
	c := *a
	c.ResetPasswordExpires = cloneTimePtr(a.ResetPasswordExpires)
	c.Partners = make([]Partner, len(a.Partners))
	for i, p := range a.Partners {
		c.Partners[i] = clonePartner(p)
	}
	return &c
}

func clonePartner(p Partner) Partner {
	c := p
	c.Donations = append([]Donation(nil), p.Donations...)
	c.Notes = append([]Note(nil), p.Notes...)
	c.Prayers = append([]Note(nil), p.Prayers...)
	c.ThankYous = append([]ThankYou(nil), p.ThankYous...)
	c.Appointments = make([]Appointment, len(p.Appointments))
	for i, ap := range p.Appointments {
		c.Appointments[i] = cloneAppointment(ap)
	}
	return c
}

func cloneAppointment(ap Appointment) Appointment {
	c := ap
	c.DateOfReply = cloneTimePtr(ap.DateOfReply)
	c.Notes = append([]Note(nil), ap.Notes...)
	c.FollowUps = make([]FollowUp, len(ap.FollowUps))
	for i, f := range ap.FollowUps {
		c.FollowUps[i] = cloneFollowUp(f)
	}
	return c
}

func cloneFollowUp(f FollowUp) FollowUp {
	c := f
	c.DateOfReply = cloneTimePtr(f.DateOfReply)
	c.Notes = append([]Note(nil), f.Notes...)
	return c
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// AddPartner prepends a partner: newest first is the canonical order.
func (a *Agent) AddPartner(p Partner) {
	a.Partners = append([]Partner{p}, a.Partners...)
}

// FindPartner returns a pointer into the partner list so nested
// collections can be mutated in place. The lookup is scoped to this agent
// only; there is no global partner query.
func (a *Agent) FindPartner(id bson.ObjectID) (*Partner, bool) {
	for i := range a.Partners {
		if a.Partners[i].ID == id {
			return &a.Partners[i], true
		}
	}
	return nil, false
}

// UpdatePartner applies the provided fields to the matching partner. Blank
// or whitespace-only values are silently skipped, never used to clear a
// field. Returns false when the id is not in this agent's list.
func (a *Agent) UpdatePartner(id bson.ObjectID, fields map[string]string) bool {
	p, ok := a.FindPartner(id)
	if !ok {
		return false
	}
	for key, raw := range fields {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		switch key {
		case "name":
			p.Name = v
		case "email":
			p.Email = v
		}
	}
	p.UpdatedAt = time.Now()
	return true
}

// RemovePartner splices the matching partner out of the list, preserving
// the order of the remaining entries. Returns false when the id is absent.
func (a *Agent) RemovePartner(id bson.ObjectID) bool {
	for i := range a.Partners {
		if a.Partners[i].ID == id {
			a.Partners = append(a.Partners[:i], a.Partners[i+1:]...)
			return true
		}
	}
	return false
}

// AddDonation prepends a donation to the partner's list.
func (p *Partner) AddDonation(d Donation) {
	p.Donations = append([]Donation{d}, p.Donations...)
}

// RemoveDonation splices out the matching donation.
func (p *Partner) RemoveDonation(id bson.ObjectID) bool {
	for i := range p.Donations {
		if p.Donations[i].ID == id {
			p.Donations = append(p.Donations[:i], p.Donations[i+1:]...)
			return true
		}
	}
	return false
}

// AddNote prepends a note to the partner's list.
func (p *Partner) AddNote(n Note) {
	p.Notes = append([]Note{n}, p.Notes...)
}

// RemoveNote splices out the matching note.
func (p *Partner) RemoveNote(id bson.ObjectID) bool {
	for i := range p.Notes {
		if p.Notes[i].ID == id {
			p.Notes = append(p.Notes[:i], p.Notes[i+1:]...)
			return true
		}
	}
	return false
}

// AddPrayer prepends a prayer to the partner's list.
func (p *Partner) AddPrayer(n Note) {
	p.Prayers = append([]Note{n}, p.Prayers...)
}

// RemovePrayer splices out the matching prayer.
func (p *Partner) RemovePrayer(id bson.ObjectID) bool {
	for i := range p.Prayers {
		if p.Prayers[i].ID == id {
			p.Prayers = append(p.Prayers[:i], p.Prayers[i+1:]...)
			return true
		}
	}
	return false
}

// AddThankYou prepends a thank-you to the partner's list.
func (p *Partner) AddThankYou(ty ThankYou) {
	p.ThankYous = append([]ThankYou{ty}, p.ThankYous...)
}

// RemoveThankYou splices out the matching thank-you.
func (p *Partner) RemoveThankYou(id bson.ObjectID) bool {
	for i := range p.ThankYous {
		if p.ThankYous[i].ID == id {
			p.ThankYous = append(p.ThankYous[:i], p.ThankYous[i+1:]...)
			return true
		}
	}
	return false
}

// AddAppointment prepends an appointment to the partner's list.
func (p *Partner) AddAppointment(ap Appointment) {
	p.Appointments = append([]Appointment{ap}, p.Appointments...)
}

// RemoveAppointment splices out the matching appointment and everything
// nested under it.
func (p *Partner) RemoveAppointment(id bson.ObjectID) bool {
	for i := range p.Appointments {
		if p.Appointments[i].ID == id {
			p.Appointments = append(p.Appointments[:i], p.Appointments[i+1:]...)
			return true
		}
	}
	return false
}

// FindAppointment returns a pointer into the appointment list.
func (p *Partner) FindAppointment(id bson.ObjectID) (*Appointment, bool) {
	for i := range p.Appointments {
		if p.Appointments[i].ID == id {
			return &p.Appointments[i], true
		}
	}
	return nil, false
}
