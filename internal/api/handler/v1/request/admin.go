package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// RemoveParticipantRequest drives participant removal. For athletes
// the sport enrollment is deleted before the participant record.
type RemoveParticipantRequest struct {
	EditionID uint `json:"edition_id"`
	SportID   uint `json:"sport_id"`
	IsAthlete bool `json:"is_athlete"`
}

func (req *RemoveParticipantRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.EditionID, validation.Required, validation.Min(uint(1))),
	)
	if err != nil {
		return err
	}

	if req.IsAthlete {
		return validation.ValidateStruct(
			req,
			validation.Field(&req.SportID, validation.Required, validation.Min(uint(1))),
		)
	}

	return nil
}
