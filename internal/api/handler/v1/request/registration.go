package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type StartRegistrationRequest struct {
	EditionID uint `json:"edition_id"`
}

func (req *StartRegistrationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EditionID, validation.Required, validation.Min(uint(1))),
	)
}

type ProductSelection struct {
	ProductID uint   `json:"product_id"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}

// AdvanceRequest carries the full form; the step machine only reads
// the fields owned by the currently visible step, so local validation
// of the rest happens on their own steps.
type AdvanceRequest struct {
	Phone         string             `json:"phone"`
	IsAthlete     bool               `json:"is_athlete"`
	IsCameraman   bool               `json:"is_cameraman"`
	IsFanfare     bool               `json:"is_fanfare"`
	IsPompom      bool               `json:"is_pompom"`
	IsVolunteer   bool               `json:"is_volunteer"`
	Category      string             `json:"category"`
	PhotoRelease  bool               `json:"photo_release"`
	SportID       uint               `json:"sport_id"`
	LicenseNumber string             `json:"license_number"`
	Substitute    bool               `json:"substitute"`
	TeamLeader    bool               `json:"team_leader"`
	TeamID        uint               `json:"team_id"`
	TeamName      string             `json:"team_name"`
	Products      []ProductSelection `json:"products"`
}
