package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/repository"
)

var (
	ErrSportNotFound      = repository.ErrSportNotFound
	ErrSchoolNotFound     = repository.ErrSchoolNotFound
	ErrTeamNotFound       = repository.ErrTeamNotFound
	ErrEnrollmentNotFound = repository.ErrEnrollmentNotFound

	ErrTeamMismatch = errors.New("team does not belong to the enrollment's sport and school")
)

type CompetitionRepository interface {
	FindSports(ctx context.Context) ([]domain.Sport, error)
	FindSportsBySchool(ctx context.Context, schoolID uint) ([]domain.Sport, error)
	CreateSport(ctx context.Context, sport domain.Sport) (domain.Sport, error)
	FindSchools(ctx context.Context) ([]domain.School, error)
	CreateSchool(ctx context.Context, school domain.School) (domain.School, error)
	FindTeamsBySport(ctx context.Context, sportID uint) ([]domain.Team, error)
	FindTeamByID(ctx context.Context, id uint) (domain.Team, error)
	FindEnrollment(ctx context.Context, sportID, userID uint) (domain.SportEnrollment, error)
	SaveSportQuota(ctx context.Context, quota domain.SportQuota) (domain.SportQuota, error)
	SetLicenseValid(ctx context.Context, sportID, userID uint, valid bool) error
	ChangeEnrollmentTeam(ctx context.Context, sportID, userID uint, teamID *uint) error
}

// CompetitionService serves the reference data the dashboard and the
// registration flow browse: sports, schools, teams, quotas.
type CompetitionService struct {
	repo CompetitionRepository
}

func NewCompetitionService(repo CompetitionRepository) *CompetitionService {
	return &CompetitionService{
		repo: repo,
	}
}

func (s *CompetitionService) ListSports(ctx context.Context) ([]domain.Sport, error) {
	sports, err := s.repo.FindSports(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindSports -> %w", err)
	}

	return sports, nil
}

func (s *CompetitionService) ListSportsBySchool(ctx context.Context, schoolID uint) ([]domain.Sport, error) {
	sports, err := s.repo.FindSportsBySchool(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindSportsBySchool -> %w", err)
	}

	return sports, nil
}

func (s *CompetitionService) CreateSport(ctx context.Context, sport domain.Sport) (domain.Sport, error) {
	created, err := s.repo.CreateSport(ctx, sport)
	if err != nil {
		return domain.Sport{}, fmt.Errorf("s.repo.CreateSport -> %w", err)
	}

	return created, nil
}

func (s *CompetitionService) ListSchools(ctx context.Context) ([]domain.School, error) {
	schools, err := s.repo.FindSchools(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindSchools -> %w", err)
	}

	return schools, nil
}

func (s *CompetitionService) CreateSchool(ctx context.Context, school domain.School) (domain.School, error) {
	created, err := s.repo.CreateSchool(ctx, school)
	if err != nil {
		return domain.School{}, fmt.Errorf("s.repo.CreateSchool -> %w", err)
	}

	return created, nil
}

func (s *CompetitionService) ListTeamsBySport(ctx context.Context, sportID uint) ([]domain.Team, error) {
	teams, err := s.repo.FindTeamsBySport(ctx, sportID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindTeamsBySport -> %w", err)
	}

	return teams, nil
}

func (s *CompetitionService) GetTeam(ctx context.Context, id uint) (domain.Team, error) {
	team, err := s.repo.FindTeamByID(ctx, id)
	if err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.FindTeamByID -> %w", err)
	}

	return team, nil
}

func (s *CompetitionService) SaveSportQuota(ctx context.Context, quota domain.SportQuota) (domain.SportQuota, error) {
	saved, err := s.repo.SaveSportQuota(ctx, quota)
	if err != nil {
		return domain.SportQuota{}, fmt.Errorf("s.repo.SaveSportQuota -> %w", err)
	}

	return saved, nil
}

// SetLicenseValid is the admin action marking an enrollment's license
// as checked. The registration flow never touches this flag.
func (s *CompetitionService) SetLicenseValid(ctx context.Context, sportID, userID uint, valid bool) error {
	if err := s.repo.SetLicenseValid(ctx, sportID, userID, valid); err != nil {
		return fmt.Errorf("s.repo.SetLicenseValid -> %w", err)
	}

	return nil
}

// ChangeTeam moves an enrollment to another team. The target team must
// belong to the enrollment's sport and school.
func (s *CompetitionService) ChangeTeam(ctx context.Context, sportID, userID uint, teamID *uint) error {
	if teamID != nil {
		enrollment, err := s.repo.FindEnrollment(ctx, sportID, userID)
		if err != nil {
			return fmt.Errorf("s.repo.FindEnrollment -> %w", err)
		}

		team, err := s.repo.FindTeamByID(ctx, *teamID)
		if err != nil {
			return fmt.Errorf("s.repo.FindTeamByID -> %w", err)
		}
		if team.SportID != sportID || team.SchoolID != enrollment.SchoolID {
			return ErrTeamMismatch
		}
	}

	if err := s.repo.ChangeEnrollmentTeam(ctx, sportID, userID, teamID); err != nil {
		return fmt.Errorf("s.repo.ChangeEnrollmentTeam -> %w", err)
	}

	return nil
}
