package repository

import (
	"context"
	"fmt"

	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/repository/dao"
)

var (
	ErrParticipantNotFound = dao.ErrParticipantNotFound
	ErrEnrollmentNotFound  = dao.ErrEnrollmentNotFound
	ErrTeamNotFound        = dao.ErrTeamNotFound
	ErrSportNotFound       = dao.ErrSportNotFound
	ErrSchoolNotFound      = dao.ErrSchoolNotFound
	ErrQuotaNotFound       = dao.ErrQuotaNotFound
)

type CompetitionDAO interface {
	InsertParticipant(ctx context.Context, p dao.Participant) (dao.Participant, error)
	FindParticipant(ctx context.Context, userID, editionID uint) (dao.Participant, error)
	FindParticipantsBySchool(ctx context.Context, schoolID, editionID uint) ([]dao.Participant, error)
	SetParticipantValidated(ctx context.Context, userID, editionID uint, validated bool) error
	DeleteParticipant(ctx context.Context, userID, editionID uint) error
	InsertEnrollment(ctx context.Context, e dao.SportEnrollment) (dao.SportEnrollment, error)
	FindEnrollment(ctx context.Context, sportID, userID uint) (dao.SportEnrollment, error)
	FindEnrollmentByUser(ctx context.Context, userID uint) (dao.SportEnrollment, error)
	FindEnrollmentsBySportAndSchool(ctx context.Context, sportID, schoolID uint) ([]dao.SportEnrollment, error)
	FindEnrollmentsByTeam(ctx context.Context, teamID uint) ([]dao.SportEnrollment, error)
	UpdateEnrollmentTeam(ctx context.Context, sportID, userID uint, teamID *uint) error
	SetEnrollmentLicenseValid(ctx context.Context, sportID, userID uint, valid bool) error
	DeleteEnrollment(ctx context.Context, sportID, userID uint) error
	InsertTeam(ctx context.Context, team dao.Team) (dao.Team, error)
	FindTeamByID(ctx context.Context, id uint) (dao.Team, error)
	FindTeamsBySport(ctx context.Context, sportID uint) ([]dao.Team, error)
	FindTeamByCaptain(ctx context.Context, sportID, schoolID, captainID uint) (dao.Team, error)
	FindSports(ctx context.Context) ([]dao.Sport, error)
	FindSportsBySchool(ctx context.Context, schoolID uint) ([]dao.Sport, error)
	InsertSport(ctx context.Context, sport dao.Sport) (dao.Sport, error)
	FindSchools(ctx context.Context) ([]dao.School, error)
	InsertSchool(ctx context.Context, school dao.School) (dao.School, error)
	FindSportQuota(ctx context.Context, sportID, schoolID uint) (dao.SportQuota, error)
	FindGeneralQuota(ctx context.Context, schoolID uint) (dao.GeneralQuota, error)
	UpsertSportQuota(ctx context.Context, quota dao.SportQuota) (dao.SportQuota, error)
}

type CompetitionRepository struct {
	dao CompetitionDAO
}

func NewCompetitionRepository(dao CompetitionDAO) *CompetitionRepository {
	return &CompetitionRepository{
		dao: dao,
	}
}

func (r *CompetitionRepository) CreateParticipant(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	created, err := r.dao.InsertParticipant(ctx, r.participantDomainToDao(p))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.InsertParticipant -> %w", err)
	}

	return r.participantDaoToDomain(created), nil
}

func (r *CompetitionRepository) FindParticipant(ctx context.Context, userID, editionID uint) (domain.Participant, error) {
	found, err := r.dao.FindParticipant(ctx, userID, editionID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.FindParticipant -> %w", err)
	}

	return r.participantDaoToDomain(found), nil
}

func (r *CompetitionRepository) FindParticipantsBySchool(ctx context.Context, schoolID, editionID uint) ([]domain.Participant, error) {
	found, err := r.dao.FindParticipantsBySchool(ctx, schoolID, editionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindParticipantsBySchool -> %w", err)
	}

	participants := make([]domain.Participant, len(found))
	for i, p := range found {
		participants[i] = r.participantDaoToDomain(p)
	}

	return participants, nil
}

func (r *CompetitionRepository) ValidateParticipant(ctx context.Context, userID, editionID uint) error {
	if err := r.dao.SetParticipantValidated(ctx, userID, editionID, true); err != nil {
		return fmt.Errorf("r.dao.SetParticipantValidated -> %w", err)
	}

	return nil
}

func (r *CompetitionRepository) InvalidateParticipant(ctx context.Context, userID, editionID uint) error {
	if err := r.dao.SetParticipantValidated(ctx, userID, editionID, false); err != nil {
		return fmt.Errorf("r.dao.SetParticipantValidated -> %w", err)
	}

	return nil
}

func (r *CompetitionRepository) DeleteParticipant(ctx context.Context, userID, editionID uint) error {
	if err := r.dao.DeleteParticipant(ctx, userID, editionID); err != nil {
		return fmt.Errorf("r.dao.DeleteParticipant -> %w", err)
	}

	return nil
}

func (r *CompetitionRepository) CreateEnrollment(ctx context.Context, e domain.SportEnrollment) (domain.SportEnrollment, error) {
	created, err := r.dao.InsertEnrollment(ctx, r.enrollmentDomainToDao(e))
	if err != nil {
		return domain.SportEnrollment{}, fmt.Errorf("r.dao.InsertEnrollment -> %w", err)
	}

	return r.enrollmentDaoToDomain(created), nil
}

func (r *CompetitionRepository) FindEnrollment(ctx context.Context, sportID, userID uint) (domain.SportEnrollment, error) {
	found, err := r.dao.FindEnrollment(ctx, sportID, userID)
	if err != nil {
		return domain.SportEnrollment{}, fmt.Errorf("r.dao.FindEnrollment -> %w", err)
	}

	return r.enrollmentDaoToDomain(found), nil
}

func (r *CompetitionRepository) FindEnrollmentByUser(ctx context.Context, userID uint) (domain.SportEnrollment, error) {
	found, err := r.dao.FindEnrollmentByUser(ctx, userID)
	if err != nil {
		return domain.SportEnrollment{}, fmt.Errorf("r.dao.FindEnrollmentByUser -> %w", err)
	}

	return r.enrollmentDaoToDomain(found), nil
}

func (r *CompetitionRepository) FindRoster(ctx context.Context, sportID, schoolID uint) ([]domain.SportEnrollment, error) {
	found, err := r.dao.FindEnrollmentsBySportAndSchool(ctx, sportID, schoolID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindEnrollmentsBySportAndSchool -> %w", err)
	}

	roster := make([]domain.SportEnrollment, len(found))
	for i, e := range found {
		roster[i] = r.enrollmentDaoToDomain(e)
	}

	return roster, nil
}

func (r *CompetitionRepository) ChangeEnrollmentTeam(ctx context.Context, sportID, userID uint, teamID *uint) error {
	if err := r.dao.UpdateEnrollmentTeam(ctx, sportID, userID, teamID); err != nil {
		return fmt.Errorf("r.dao.UpdateEnrollmentTeam -> %w", err)
	}

	return nil
}

func (r *CompetitionRepository) SetLicenseValid(ctx context.Context, sportID, userID uint, valid bool) error {
	if err := r.dao.SetEnrollmentLicenseValid(ctx, sportID, userID, valid); err != nil {
		return fmt.Errorf("r.dao.SetEnrollmentLicenseValid -> %w", err)
	}

	return nil
}

func (r *CompetitionRepository) DeleteEnrollment(ctx context.Context, sportID, userID uint) error {
	if err := r.dao.DeleteEnrollment(ctx, sportID, userID); err != nil {
		return fmt.Errorf("r.dao.DeleteEnrollment -> %w", err)
	}

	return nil
}

func (r *CompetitionRepository) CreateTeam(ctx context.Context, team domain.Team) (domain.Team, error) {
	created, err := r.dao.InsertTeam(ctx, r.teamDomainToDao(team))
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.InsertTeam -> %w", err)
	}

	return r.teamDaoToDomain(created), nil
}

func (r *CompetitionRepository) FindTeamByID(ctx context.Context, id uint) (domain.Team, error) {
	found, err := r.dao.FindTeamByID(ctx, id)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindTeamByID -> %w", err)
	}

	team := r.teamDaoToDomain(found)

	members, err := r.dao.FindEnrollmentsByTeam(ctx, team.ID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindEnrollmentsByTeam -> %w", err)
	}
	for _, m := range members {
		team.Members = append(team.Members, r.enrollmentDaoToDomain(m))
	}

	return team, nil
}

func (r *CompetitionRepository) FindTeamsBySport(ctx context.Context, sportID uint) ([]domain.Team, error) {
	found, err := r.dao.FindTeamsBySport(ctx, sportID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTeamsBySport -> %w", err)
	}

	teams := make([]domain.Team, len(found))
	for i, t := range found {
		teams[i] = r.teamDaoToDomain(t)
	}

	return teams, nil
}

func (r *CompetitionRepository) FindTeamByCaptain(ctx context.Context, sportID, schoolID, captainID uint) (domain.Team, error) {
	found, err := r.dao.FindTeamByCaptain(ctx, sportID, schoolID, captainID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindTeamByCaptain -> %w", err)
	}

	return r.teamDaoToDomain(found), nil
}

func (r *CompetitionRepository) FindSports(ctx context.Context) ([]domain.Sport, error) {
	found, err := r.dao.FindSports(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSports -> %w", err)
	}

	sports := make([]domain.Sport, len(found))
	for i, s := range found {
		sports[i] = r.sportDaoToDomain(s)
	}

	return sports, nil
}

func (r *CompetitionRepository) FindSportsBySchool(ctx context.Context, schoolID uint) ([]domain.Sport, error) {
	found, err := r.dao.FindSportsBySchool(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSportsBySchool -> %w", err)
	}

	sports := make([]domain.Sport, len(found))
	for i, s := range found {
		sports[i] = r.sportDaoToDomain(s)
	}

	return sports, nil
}

func (r *CompetitionRepository) CreateSport(ctx context.Context, sport domain.Sport) (domain.Sport, error) {
	created, err := r.dao.InsertSport(ctx, dao.Sport{
		Name:       sport.Name,
		Collective: sport.Collective,
	})
	if err != nil {
		return domain.Sport{}, fmt.Errorf("r.dao.InsertSport -> %w", err)
	}

	return r.sportDaoToDomain(created), nil
}

func (r *CompetitionRepository) FindSchools(ctx context.Context) ([]domain.School, error) {
	found, err := r.dao.FindSchools(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSchools -> %w", err)
	}

	schools := make([]domain.School, len(found))
	for i, s := range found {
		schools[i] = domain.School{
			ID:        s.ID,
			Name:      s.Name,
			City:      s.City,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		}
	}

	return schools, nil
}

func (r *CompetitionRepository) CreateSchool(ctx context.Context, school domain.School) (domain.School, error) {
	created, err := r.dao.InsertSchool(ctx, dao.School{
		Name: school.Name,
		City: school.City,
	})
	if err != nil {
		return domain.School{}, fmt.Errorf("r.dao.InsertSchool -> %w", err)
	}

	return domain.School{
		ID:        created.ID,
		Name:      created.Name,
		City:      created.City,
		CreatedAt: created.CreatedAt,
		UpdatedAt: created.UpdatedAt,
	}, nil
}

func (r *CompetitionRepository) FindSportQuota(ctx context.Context, sportID, schoolID uint) (domain.SportQuota, error) {
	found, err := r.dao.FindSportQuota(ctx, sportID, schoolID)
	if err != nil {
		return domain.SportQuota{}, fmt.Errorf("r.dao.FindSportQuota -> %w", err)
	}

	return domain.SportQuota{
		ID:               found.ID,
		SportID:          found.SportID,
		SchoolID:         found.SchoolID,
		ParticipantQuota: found.ParticipantQuota,
		TeamQuota:        found.TeamQuota,
	}, nil
}

func (r *CompetitionRepository) FindGeneralQuota(ctx context.Context, schoolID uint) (domain.GeneralQuota, error) {
	found, err := r.dao.FindGeneralQuota(ctx, schoolID)
	if err != nil {
		return domain.GeneralQuota{}, fmt.Errorf("r.dao.FindGeneralQuota -> %w", err)
	}

	return domain.GeneralQuota{
		ID:               found.ID,
		SchoolID:         found.SchoolID,
		Athlete:          found.Athlete,
		NonAthlete:       found.NonAthlete,
		Cameraman:        found.Cameraman,
		Pompom:           found.Pompom,
		Fanfare:          found.Fanfare,
		AthleteCameraman: found.AthleteCameraman,
		AthletePompom:    found.AthletePompom,
		AthleteFanfare:   found.AthleteFanfare,
	}, nil
}

func (r *CompetitionRepository) SaveSportQuota(ctx context.Context, quota domain.SportQuota) (domain.SportQuota, error) {
	saved, err := r.dao.UpsertSportQuota(ctx, dao.SportQuota{
		ID:               quota.ID,
		SportID:          quota.SportID,
		SchoolID:         quota.SchoolID,
		ParticipantQuota: quota.ParticipantQuota,
		TeamQuota:        quota.TeamQuota,
	})
	if err != nil {
		return domain.SportQuota{}, fmt.Errorf("r.dao.UpsertSportQuota -> %w", err)
	}

	return domain.SportQuota{
		ID:               saved.ID,
		SportID:          saved.SportID,
		SchoolID:         saved.SchoolID,
		ParticipantQuota: saved.ParticipantQuota,
		TeamQuota:        saved.TeamQuota,
	}, nil
}

func (r *CompetitionRepository) participantDaoToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		ID:        p.ID,
		UserID:    p.UserID,
		EditionID: p.EditionID,
		Roles: domain.RoleSet{
			Athlete:   p.IsAthlete,
			Cameraman: p.IsCameraman,
			Fanfare:   p.IsFanfare,
			Pompom:    p.IsPompom,
			Volunteer: p.IsVolunteer,
		},
		Category:     p.Category,
		Phone:        p.Phone,
		PhotoRelease: p.PhotoRelease,
		Validated:    p.Validated,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r *CompetitionRepository) participantDomainToDao(p domain.Participant) dao.Participant {
	return dao.Participant{
		ID:           p.ID,
		UserID:       p.UserID,
		EditionID:    p.EditionID,
		IsAthlete:    p.Roles.Athlete,
		IsCameraman:  p.Roles.Cameraman,
		IsFanfare:    p.Roles.Fanfare,
		IsPompom:     p.Roles.Pompom,
		IsVolunteer:  p.Roles.Volunteer,
		Category:     p.Category,
		Phone:        p.Phone,
		PhotoRelease: p.PhotoRelease,
		Validated:    p.Validated,
	}
}

func (r *CompetitionRepository) enrollmentDaoToDomain(e dao.SportEnrollment) domain.SportEnrollment {
	return domain.SportEnrollment{
		ID:            e.ID,
		UserID:        e.UserID,
		ParticipantID: e.ParticipantID,
		SportID:       e.SportID,
		SchoolID:      e.SchoolID,
		TeamID:        e.TeamID,
		LicenseNumber: e.LicenseNumber,
		LicenseValid:  e.LicenseValid,
		Substitute:    e.Substitute,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func (r *CompetitionRepository) enrollmentDomainToDao(e domain.SportEnrollment) dao.SportEnrollment {
	return dao.SportEnrollment{
		ID:            e.ID,
		UserID:        e.UserID,
		ParticipantID: e.ParticipantID,
		SportID:       e.SportID,
		SchoolID:      e.SchoolID,
		TeamID:        e.TeamID,
		LicenseNumber: e.LicenseNumber,
		LicenseValid:  e.LicenseValid,
		Substitute:    e.Substitute,
	}
}

func (r *CompetitionRepository) teamDaoToDomain(t dao.Team) domain.Team {
	return domain.Team{
		ID:        t.ID,
		Name:      t.Name,
		SportID:   t.SportID,
		SchoolID:  t.SchoolID,
		CaptainID: t.CaptainID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (r *CompetitionRepository) teamDomainToDao(t domain.Team) dao.Team {
	return dao.Team{
		ID:        t.ID,
		Name:      t.Name,
		SportID:   t.SportID,
		SchoolID:  t.SchoolID,
		CaptainID: t.CaptainID,
	}
}

func (r *CompetitionRepository) sportDaoToDomain(s dao.Sport) domain.Sport {
	return domain.Sport{
		ID:         s.ID,
		Name:       s.Name,
		Collective: s.Collective,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
