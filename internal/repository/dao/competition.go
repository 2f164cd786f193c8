package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantExists   = errors.New("participant already exists for this edition")
	ErrEnrollmentNotFound  = errors.New("sport enrollment not found")
	ErrEnrollmentExists    = errors.New("sport enrollment already exists")
	ErrTeamNotFound        = errors.New("team not found")
	ErrSportNotFound       = errors.New("sport not found")
	ErrSchoolNotFound      = errors.New("school not found")
	ErrQuotaNotFound       = errors.New("quota not found")
)

type Edition struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Year      int    `gorm:"not null"`
	Active    bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Sport struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"unique;not null"`
	Collective bool   `gorm:"default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type School struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"unique;not null"`
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Team struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	SportID   uint   `gorm:"not null;index"`
	SchoolID  uint   `gorm:"not null;index"`
	CaptainID *uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Participant struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"not null;index:idx_participant_user_edition,unique"`
	EditionID    uint `gorm:"not null;index:idx_participant_user_edition,unique"`
	IsAthlete    bool `gorm:"default:false"`
	IsCameraman  bool `gorm:"default:false"`
	IsFanfare    bool `gorm:"default:false"`
	IsPompom     bool `gorm:"default:false"`
	IsVolunteer  bool `gorm:"default:false"`
	Category     string
	Phone        string
	PhotoRelease bool `gorm:"default:false"`
	Validated    bool `gorm:"default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type SportEnrollment struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"not null;index"`
	ParticipantID uint `gorm:"not null;index"`
	SportID       uint `gorm:"not null;index"`
	SchoolID      uint `gorm:"not null;index"`
	TeamID        *uint
	LicenseNumber string
	LicenseValid  bool `gorm:"default:false"`
	Substitute    bool `gorm:"default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type SportQuota struct {
	ID               uint `gorm:"primaryKey"`
	SportID          uint `gorm:"not null;index:idx_sport_quota,unique"`
	SchoolID         uint `gorm:"not null;index:idx_sport_quota,unique"`
	ParticipantQuota *int
	TeamQuota        *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type GeneralQuota struct {
	ID               uint `gorm:"primaryKey"`
	SchoolID         uint `gorm:"not null;uniqueIndex"`
	Athlete          *int
	NonAthlete       *int
	Cameraman        *int
	Pompom           *int
	Fanfare          *int
	AthleteCameraman *int
	AthletePompom    *int
	AthleteFanfare   *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CompetitionDAO struct {
	db *gorm.DB
}

func NewCompetitionDAO(db *gorm.DB) *CompetitionDAO {
	return &CompetitionDAO{
		db: db,
	}
}

func (d *CompetitionDAO) InsertParticipant(ctx context.Context, p Participant) (Participant, error) {
	result := d.db.WithContext(ctx).Create(&p)
	if result.Error != nil {
		return Participant{}, result.Error
	}

	return p, nil
}

func (d *CompetitionDAO) FindParticipant(ctx context.Context, userID, editionID uint) (Participant, error) {
	var p Participant

	result := d.db.WithContext(ctx).
		First(&p, "user_id = ? AND edition_id = ?", userID, editionID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return p, nil
}

func (d *CompetitionDAO) FindParticipantsBySchool(ctx context.Context, schoolID, editionID uint) ([]Participant, error) {
	var participants []Participant

	result := d.db.WithContext(ctx).
		Joins("JOIN users ON users.id = participants.user_id").
		Where("users.school_id = ? AND participants.edition_id = ?", schoolID, editionID).
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

func (d *CompetitionDAO) SetParticipantValidated(ctx context.Context, userID, editionID uint, validated bool) error {
	result := d.db.WithContext(ctx).
		Model(&Participant{}).
		Where("user_id = ? AND edition_id = ?", userID, editionID).
		Update("validated", validated)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}

	return nil
}

func (d *CompetitionDAO) DeleteParticipant(ctx context.Context, userID, editionID uint) error {
	result := d.db.WithContext(ctx).
		Where("user_id = ? AND edition_id = ?", userID, editionID).
		Delete(&Participant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}

	return nil
}

func (d *CompetitionDAO) InsertEnrollment(ctx context.Context, e SportEnrollment) (SportEnrollment, error) {
	result := d.db.WithContext(ctx).Create(&e)
	if result.Error != nil {
		return SportEnrollment{}, result.Error
	}

	return e, nil
}

func (d *CompetitionDAO) FindEnrollment(ctx context.Context, sportID, userID uint) (SportEnrollment, error) {
	var e SportEnrollment

	result := d.db.WithContext(ctx).
		First(&e, "sport_id = ? AND user_id = ?", sportID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return SportEnrollment{}, ErrEnrollmentNotFound
		}

		return SportEnrollment{}, result.Error
	}

	return e, nil
}

func (d *CompetitionDAO) FindEnrollmentByUser(ctx context.Context, userID uint) (SportEnrollment, error) {
	var e SportEnrollment

	result := d.db.WithContext(ctx).First(&e, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return SportEnrollment{}, ErrEnrollmentNotFound
		}

		return SportEnrollment{}, result.Error
	}

	return e, nil
}

func (d *CompetitionDAO) FindEnrollmentsBySportAndSchool(ctx context.Context, sportID, schoolID uint) ([]SportEnrollment, error) {
	var enrollments []SportEnrollment

	result := d.db.WithContext(ctx).
		Where("sport_id = ? AND school_id = ?", sportID, schoolID).
		Find(&enrollments)
	if result.Error != nil {
		return nil, result.Error
	}

	return enrollments, nil
}

func (d *CompetitionDAO) FindEnrollmentsByTeam(ctx context.Context, teamID uint) ([]SportEnrollment, error) {
	var enrollments []SportEnrollment

	result := d.db.WithContext(ctx).Where("team_id = ?", teamID).Find(&enrollments)
	if result.Error != nil {
		return nil, result.Error
	}

	return enrollments, nil
}

// UpdateEnrollmentTeam moves a user's enrollment to another team, or
// out of any team when teamID is nil. If the user captains a team they
// are leaving, the captain reference is cleared in the same
// transaction, as DeleteEnrollment does.
func (d *CompetitionDAO) UpdateEnrollmentTeam(ctx context.Context, sportID, userID uint, teamID *uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&SportEnrollment{}).
			Where("sport_id = ? AND user_id = ?", sportID, userID).
			Update("team_id", teamID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEnrollmentNotFound
		}

		vacated := tx.Model(&Team{}).
			Where("sport_id = ? AND captain_id = ?", sportID, userID)
		if teamID != nil {
			vacated = vacated.Where("id <> ?", *teamID)
		}

		return vacated.Update("captain_id", nil).Error
	})
}

func (d *CompetitionDAO) SetEnrollmentLicenseValid(ctx context.Context, sportID, userID uint, valid bool) error {
	result := d.db.WithContext(ctx).
		Model(&SportEnrollment{}).
		Where("sport_id = ? AND user_id = ?", sportID, userID).
		Update("license_valid", valid)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEnrollmentNotFound
	}

	return nil
}

// DeleteEnrollment removes a user's enrollment for a sport. If the
// user captains a team of that sport, the captain reference is
// cleared in the same transaction so the team invariant holds.
func (d *CompetitionDAO) DeleteEnrollment(ctx context.Context, sportID, userID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("sport_id = ? AND user_id = ?", sportID, userID).
			Delete(&SportEnrollment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEnrollmentNotFound
		}

		return tx.Model(&Team{}).
			Where("sport_id = ? AND captain_id = ?", sportID, userID).
			Update("captain_id", nil).Error
	})
}

func (d *CompetitionDAO) InsertTeam(ctx context.Context, team Team) (Team, error) {
	result := d.db.WithContext(ctx).Create(&team)
	if result.Error != nil {
		return Team{}, result.Error
	}

	return team, nil
}

func (d *CompetitionDAO) FindTeamByID(ctx context.Context, id uint) (Team, error) {
	var team Team

	result := d.db.WithContext(ctx).First(&team, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Team{}, ErrTeamNotFound
		}

		return Team{}, result.Error
	}

	return team, nil
}

func (d *CompetitionDAO) FindTeamsBySport(ctx context.Context, sportID uint) ([]Team, error) {
	var teams []Team

	result := d.db.WithContext(ctx).Where("sport_id = ?", sportID).Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}

	return teams, nil
}

func (d *CompetitionDAO) FindTeamByCaptain(ctx context.Context, sportID, schoolID, captainID uint) (Team, error) {
	var team Team

	result := d.db.WithContext(ctx).
		First(&team, "sport_id = ? AND school_id = ? AND captain_id = ?", sportID, schoolID, captainID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Team{}, ErrTeamNotFound
		}

		return Team{}, result.Error
	}

	return team, nil
}

func (d *CompetitionDAO) FindSports(ctx context.Context) ([]Sport, error) {
	var sports []Sport

	result := d.db.WithContext(ctx).Find(&sports)
	if result.Error != nil {
		return nil, result.Error
	}

	return sports, nil
}

func (d *CompetitionDAO) FindSportsBySchool(ctx context.Context, schoolID uint) ([]Sport, error) {
	var sports []Sport

	result := d.db.WithContext(ctx).
		Distinct("sports.*").
		Joins("JOIN sport_enrollments ON sport_enrollments.sport_id = sports.id").
		Where("sport_enrollments.school_id = ?", schoolID).
		Find(&sports)
	if result.Error != nil {
		return nil, result.Error
	}

	return sports, nil
}

func (d *CompetitionDAO) InsertSport(ctx context.Context, sport Sport) (Sport, error) {
	result := d.db.WithContext(ctx).Create(&sport)
	if result.Error != nil {
		return Sport{}, result.Error
	}

	return sport, nil
}

func (d *CompetitionDAO) FindSchools(ctx context.Context) ([]School, error) {
	var schools []School

	result := d.db.WithContext(ctx).Find(&schools)
	if result.Error != nil {
		return nil, result.Error
	}

	return schools, nil
}

func (d *CompetitionDAO) InsertSchool(ctx context.Context, school School) (School, error) {
	result := d.db.WithContext(ctx).Create(&school)
	if result.Error != nil {
		return School{}, result.Error
	}

	return school, nil
}

func (d *CompetitionDAO) FindSportQuota(ctx context.Context, sportID, schoolID uint) (SportQuota, error) {
	var quota SportQuota

	result := d.db.WithContext(ctx).
		First(&quota, "sport_id = ? AND school_id = ?", sportID, schoolID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return SportQuota{}, ErrQuotaNotFound
		}

		return SportQuota{}, result.Error
	}

	return quota, nil
}

func (d *CompetitionDAO) FindGeneralQuota(ctx context.Context, schoolID uint) (GeneralQuota, error) {
	var quota GeneralQuota

	result := d.db.WithContext(ctx).First(&quota, "school_id = ?", schoolID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return GeneralQuota{}, ErrQuotaNotFound
		}

		return GeneralQuota{}, result.Error
	}

	return quota, nil
}

func (d *CompetitionDAO) UpsertSportQuota(ctx context.Context, quota SportQuota) (SportQuota, error) {
	existing, err := d.FindSportQuota(ctx, quota.SportID, quota.SchoolID)
	if err == nil {
		quota.ID = existing.ID
	} else if !errors.Is(err, ErrQuotaNotFound) {
		return SportQuota{}, err
	}

	result := d.db.WithContext(ctx).Save(&quota)
	if result.Error != nil {
		return SportQuota{}, result.Error
	}

	return quota, nil
}
