package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateSportRequest struct {
	Name       string `json:"name"`
	Collective bool   `json:"collective"`
}

func (req *CreateSportRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 50)),
	)
}

type CreateSchoolRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

func (req *CreateSchoolRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.City, validation.Length(0, 100)),
	)
}

type SaveSportQuotaRequest struct {
	SportID          uint `json:"sport_id"`
	SchoolID         uint `json:"school_id"`
	ParticipantQuota *int `json:"participant_quota"`
	TeamQuota        *int `json:"team_quota"`
}

func (req *SaveSportQuotaRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SportID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.SchoolID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.ParticipantQuota, validation.Min(0)),
		validation.Field(&req.TeamQuota, validation.Min(0)),
	)
}

type ChangeTeamRequest struct {
	SportID uint  `json:"sport_id"`
	UserID  uint  `json:"user_id"`
	TeamID  *uint `json:"team_id"` // nil removes the member from any team
}

func (req *ChangeTeamRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SportID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.UserID, validation.Required, validation.Min(uint(1))),
	)
}

type SetLicenseValidRequest struct {
	SportID uint `json:"sport_id"`
	UserID  uint `json:"user_id"`
	Valid   bool `json:"valid"`
}

func (req *SetLicenseValidRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SportID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.UserID, validation.Required, validation.Min(uint(1))),
	)
}
