package domain

import "time"

// RoleSet holds the role flags a user declares when enrolling in an
// edition. At least one flag must be true for a valid enrollment.
type RoleSet struct {
	Athlete   bool `json:"is_athlete"`
	Cameraman bool `json:"is_cameraman"`
	Fanfare   bool `json:"is_fanfare"`
	Pompom    bool `json:"is_pompom"`
	Volunteer bool `json:"is_volunteer"`
}

func (r RoleSet) Any() bool {
	return r.Athlete || r.Cameraman || r.Fanfare || r.Pompom || r.Volunteer
}

// Participant is a user's enrollment in one competition edition.
// The Validated flag is owned by the validation service; the
// registration flow never sets it.
type Participant struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	EditionID    uint      `json:"edition_id"`
	Roles        RoleSet   `json:"roles"`
	Category     string    `json:"category"` // declared sport category
	Phone        string    `json:"phone"`
	PhotoRelease bool      `json:"photo_release"`
	Validated    bool      `json:"validated"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SportEnrollment attaches a participant to one sport, and optionally
// to a team of that sport. LicenseValid is set by an admin, never by
// the participant.
type SportEnrollment struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	ParticipantID uint      `json:"participant_id"`
	SportID       uint      `json:"sport_id"`
	SchoolID      uint      `json:"school_id"`
	TeamID        *uint     `json:"team_id"`
	LicenseNumber string    `json:"license_number"`
	LicenseValid  bool      `json:"is_license_valid"`
	Substitute    bool      `json:"substitute"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
