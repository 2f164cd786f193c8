package domain

import "time"

type Team struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	SportID   uint              `json:"sport_id"`
	SchoolID  uint              `json:"school_id"`
	CaptainID *uint             `json:"captain_id"` // user ID of a current member, or nil
	Members   []SportEnrollment `json:"members,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// RemoveMember drops the enrollment of the given user from the team
// roster. Removing the captain clears the captain reference.
func (t *Team) RemoveMember(userID uint) {
	members := t.Members[:0]
	for _, m := range t.Members {
		if m.UserID != userID {
			members = append(members, m)
		}
	}
	t.Members = members

	if t.CaptainID != nil && *t.CaptainID == userID {
		t.CaptainID = nil
	}
}

// HasMember reports whether the given user is currently enrolled in
// the team.
func (t *Team) HasMember(userID uint) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}

	return false
}
