package data

import (
	"fmt"
	"strings"
)

// Validation messages, kept identical between the in-memory checks and the
// storage-layer backstop so callers see one vocabulary.
const (
	msgNoEmail        = "No email supplied"
	msgEmailTaken     = "That email is taken"
	msgNoPassword     = "No password supplied"
	msgNoName         = "No name supplied"
	msgNoAmount       = "No donation amount supplied"
	msgNoteText       = "No note text supplied"
	msgPrayerText     = "No prayer text supplied"
	msgTimeTraveller  = "You are not a time traveller"
	msgNoThanksMode   = "No mode of expressing thanks supplied"
	msgNoApptMode     = "No mode of requesting an appointment supplied"
	msgNoFollowUpMode = "No mode of requesting an followUp supplied"
)

// Validate walks the whole document tree and collects every violation into
// one ValidationError keyed by field path. It never stops at the first
// failure: a single save surfaces all of them at once. Returns nil when
// the aggregate is valid.
func (a *Agent) Validate() error {
	ve := NewValidationError()

	if strings.TrimSpace(a.Email) == "" {
		ve.Add("email", msgNoEmail)
	}
	if a.passwordDirty {
		if a.pendingPassword == "" {
			ve.Add("password", msgNoPassword)
		}
	} else if a.Password == "" {
		ve.Add("password", msgNoPassword)
	}

	for i := range a.Partners {
		a.Partners[i].validate(ve, fmt.Sprintf("partners.%d", i))
	}
	a.validatePartnerEmails(ve)

	if ve.Any() {
		return ve
	}
	return nil
}

// validatePartnerEmails runs the pairwise duplicate scan over the partner
// list. Case-sensitive, scoped to this agent only, first duplicate in list
// order wins the message. O(n²), fine for lists of tens.
func (a *Agent) validatePartnerEmails(ve *ValidationError) {
	for i := range a.Partners {
		p := &a.Partners[i]
		for j := range a.Partners {
			q := &a.Partners[j]
			if q.ID != p.ID && q.Email == p.Email {
				ve.Add("partners", fmt.Sprintf("You already have a partner with email: %s", p.Email))
				return
			}
		}
	}
}

func (p *Partner) validate(ve *ValidationError, path string) {
	if strings.TrimSpace(p.Email) == "" {
		ve.Add(path+".email", msgNoEmail)
	}
	if strings.TrimSpace(p.Name) == "" {
		ve.Add(path+".name", msgNoName)
	}
	for i := range p.Donations {
		p.Donations[i].validate(ve, fmt.Sprintf("%s.donations.%d", path, i))
	}
	for i := range p.Notes {
		validateText(ve, fmt.Sprintf("%s.notes.%d.text", path, i), p.Notes[i].Text, msgNoteText)
	}
	for i := range p.Prayers {
		validateText(ve, fmt.Sprintf("%s.prayers.%d.text", path, i), p.Prayers[i].Text, msgPrayerText)
	}
	for i := range p.ThankYous {
		p.ThankYous[i].validate(ve, fmt.Sprintf("%s.thank_yous.%d", path, i))
	}
	for i := range p.Appointments {
		p.Appointments[i].validate(ve, fmt.Sprintf("%s.appointments.%d", path, i))
	}
}

func (d *Donation) validate(ve *ValidationError, path string) {
	if d.Amount == 0 {
		ve.Add(path+".amount", msgNoAmount)
	}
}

func (ty *ThankYou) validate(ve *ValidationError, path string) {
	validateMode(ve, path+".mode", ty.Mode, msgNoThanksMode, "Unknown mode of expressing thanks")
}

func (ap *Appointment) validate(ve *ValidationError, path string) {
	validateMode(ve, path+".request_mode", ap.RequestMode, msgNoApptMode, "Unknown mode of requesting an appointment")
	// re-checked on every save: editing DateOfRequest later can invalidate
	// a previously valid FollowUpOn
	if !ap.FollowUpOn.After(ap.DateOfRequest) {
		ve.Add(path+".follow_up_on", msgTimeTraveller)
	}
	for i := range ap.Notes {
		validateText(ve, fmt.Sprintf("%s.notes.%d.text", path, i), ap.Notes[i].Text, msgNoteText)
	}
	for i := range ap.FollowUps {
		ap.FollowUps[i].validate(ve, fmt.Sprintf("%s.follow_ups.%d", path, i))
	}
}

func (f *FollowUp) validate(ve *ValidationError, path string) {
	validateMode(ve, path+".mode", f.Mode, msgNoFollowUpMode, "Unknown mode of requesting an followUp")
	for i := range f.Notes {
		validateText(ve, fmt.Sprintf("%s.notes.%d.text", path, i), f.Notes[i].Text, msgNoteText)
	}
}

func validateText(ve *ValidationError, path, text, requiredMsg string) {
	if strings.TrimSpace(text) == "" {
		ve.Add(path, requiredMsg)
	}
}

// validateMode checks a mode field against the fixed literals. The unknown
// message quotes the offending value verbatim.
func validateMode(ve *ValidationError, path, value, requiredMsg, unknownPrefix string) {
	if strings.TrimSpace(value) == "" {
		ve.Add(path, requiredMsg)
		return
	}
	if !validMode(value) {
		ve.Add(path, fmt.Sprintf("%s: '%s'", unknownPrefix, value))
	}
}
