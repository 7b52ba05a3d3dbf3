// Package data holds the agent document model, its validation rules and
// the Mongo-backed store. One document per agent: the entire partner tree
// travels embedded inside it and sub-records are never persisted on their
// own.
package data

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Mode enumerates how a thank-you, appointment request or follow-up was
// made. The literals are fixed; anything else fails validation.
const (
	ModeEmail     = "Email"
	ModeSnailMail = "Snail Mail"
	ModeInPerson  = "In Person"
	ModePhone     = "Phone"
)

// ModeValues lists the accepted mode literals in display order.
var ModeValues = []string{ModeEmail, ModeSnailMail, ModeInPerson, ModePhone}

// followUpLead is the default gap between an appointment request and its
// follow-up date.
const followUpLead = 9 * 24 * time.Hour

func validMode(v string) bool {
	for _, m := range ModeValues {
		if v == m {
			return true
		}
	}
	return false
}

// Note is a timestamped text record. The same shape backs partner notes,
// partner prayers and the note lists nested under appointments and
// follow-ups.
type Note struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Text      string        `bson:"text" json:"text"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// NewNote builds a note with trimmed text and fresh timestamps.
func NewNote(text string) Note {
	now := time.Now()
	return Note{
		ID:        bson.NewObjectID(),
		Text:      strings.TrimSpace(text),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Donation records a gift in integer minor units (cents).
type Donation struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Date      time.Time     `bson:"date" json:"date"`
	Amount    int64         `bson:"amount" json:"amount"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// NewDonation builds a donation. A zero date defaults to now.
func NewDonation(date time.Time, amount int64) Donation {
	now := time.Now()
	if date.IsZero() {
		date = now
	}
	return Donation{
		ID:        bson.NewObjectID(),
		Date:      date,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FormatAmount returns the donation amount as a fixed two-decimal string.
func (d Donation) FormatAmount() string {
	return FormatAmount(d.Amount)
}

// ThankYou records an expression of thanks and the mode it was made in.
type ThankYou struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Date      time.Time     `bson:"date" json:"date"`
	Mode      string        `bson:"mode" json:"mode"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// NewThankYou builds a thank-you. A zero date defaults to now.
func NewThankYou(date time.Time, mode string) ThankYou {
	now := time.Now()
	if date.IsZero() {
		date = now
	}
	return ThankYou{
		ID:        bson.NewObjectID(),
		Date:      date,
		Mode:      strings.TrimSpace(mode),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FollowUp is a follow-up contact owned by an appointment.
type FollowUp struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Date        time.Time     `bson:"date" json:"date"`
	DateOfReply *time.Time    `bson:"date_of_reply,omitempty" json:"date_of_reply,omitempty"`
	ReplyResult string        `bson:"reply_result,omitempty" json:"reply_result,omitempty"`
	Mode        string        `bson:"mode" json:"mode"`
	Notes       []Note        `bson:"notes" json:"notes"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}

// NewFollowUp builds a follow-up. A zero date defaults to now.
func NewFollowUp(date time.Time, mode string) FollowUp {
	now := time.Now()
	if date.IsZero() {
		date = now
	}
	return FollowUp{
		ID:        bson.NewObjectID(),
		Date:      date,
		Mode:      strings.TrimSpace(mode),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddNote prepends a note to the follow-up.
func (f *FollowUp) AddNote(n Note) {
	f.Notes = append([]Note{n}, f.Notes...)
}

// Appointment is a meeting request owned by a partner. Its follow-up date
// must fall strictly after the request date; the check runs on every save,
// so later edits to DateOfRequest can invalidate FollowUpOn.
type Appointment struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DateOfRequest time.Time     `bson:"date_of_request" json:"date_of_request"`
	FollowUpOn    time.Time     `bson:"follow_up_on" json:"follow_up_on"`
	DateOfReply   *time.Time    `bson:"date_of_reply,omitempty" json:"date_of_reply,omitempty"`
	ReplyResult   string        `bson:"reply_result,omitempty" json:"reply_result,omitempty"`
	RequestMode   string        `bson:"request_mode" json:"request_mode"`
	Notes         []Note        `bson:"notes" json:"notes"`
	FollowUps     []FollowUp    `bson:"follow_ups" json:"follow_ups"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
}

// NewAppointment builds an appointment. A zero request date defaults to
// now; a zero follow-up date defaults to nine days after the request.
func NewAppointment(dateOfRequest, followUpOn time.Time, mode string) Appointment {
	now := time.Now()
	if dateOfRequest.IsZero() {
		dateOfRequest = now
	}
	if followUpOn.IsZero() {
		followUpOn = dateOfRequest.Add(followUpLead)
	}
	return Appointment{
		ID:            bson.NewObjectID(),
		DateOfRequest: dateOfRequest,
		FollowUpOn:    followUpOn,
		RequestMode:   strings.TrimSpace(mode),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AddNote prepends a note to the appointment.
func (a *Appointment) AddNote(n Note) {
	a.Notes = append([]Note{n}, a.Notes...)
}

// AddFollowUp prepends a follow-up to the appointment.
func (a *Appointment) AddFollowUp(f FollowUp) {
	a.FollowUps = append([]FollowUp{f}, a.FollowUps...)
}

// Partner is a prayer-partner contact owned by exactly one agent. It has
// no identity outside the agent document.
type Partner struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string        `bson:"email" json:"email"`
	Name         string        `bson:"name" json:"name"`
	Donations    []Donation    `bson:"donations" json:"donations"`
	Notes        []Note        `bson:"notes" json:"notes"`
	Prayers      []Note        `bson:"prayers" json:"prayers"`
	ThankYous    []ThankYou    `bson:"thank_yous" json:"thank_yous"`
	Appointments []Appointment `bson:"appointments" json:"appointments"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}

// NewPartner builds a partner with trimmed name and email.
func NewPartner(name, email string) Partner {
	now := time.Now()
	return Partner{
		ID:        bson.NewObjectID(),
		Email:     strings.TrimSpace(email),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Agent is the root document: the authenticated account plus its whole
// partner tree. Password holds the bcrypt hash; a plaintext replacement
// sits in pendingPassword until the next save hashes it.
type Agent struct {
	ID                   bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email                string        `bson:"email" json:"email"`
	Password             string        `bson:"password" json:"-"`
	Name                 string        `bson:"name,omitempty" json:"name,omitempty"`
	ResetPasswordToken   string        `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpires *time.Time    `bson:"reset_password_expires,omitempty" json:"-"`
	Partners             []Partner     `bson:"partners" json:"partners"`
	CreatedAt            time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time     `bson:"updated_at" json:"updated_at"`

	// change-detection state for the password; never persisted
	pendingPassword string
	passwordDirty   bool
}
