package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/service"
)

type fakeCompetitionRepo struct {
	enrollment    domain.SportEnrollment
	enrollmentErr error
	team          domain.Team
	teamErr       error

	moved       bool
	movedTeamID *uint
}

func (f *fakeCompetitionRepo) FindSports(_ context.Context) ([]domain.Sport, error) {
	return nil, nil
}

func (f *fakeCompetitionRepo) FindSportsBySchool(_ context.Context, _ uint) ([]domain.Sport, error) {
	return nil, nil
}

func (f *fakeCompetitionRepo) CreateSport(_ context.Context, sport domain.Sport) (domain.Sport, error) {
	return sport, nil
}

func (f *fakeCompetitionRepo) FindSchools(_ context.Context) ([]domain.School, error) {
	return nil, nil
}

func (f *fakeCompetitionRepo) CreateSchool(_ context.Context, school domain.School) (domain.School, error) {
	return school, nil
}

func (f *fakeCompetitionRepo) FindTeamsBySport(_ context.Context, _ uint) ([]domain.Team, error) {
	return nil, nil
}

func (f *fakeCompetitionRepo) FindTeamByID(_ context.Context, _ uint) (domain.Team, error) {
	if f.teamErr != nil {
		return domain.Team{}, f.teamErr
	}

	return f.team, nil
}

func (f *fakeCompetitionRepo) FindEnrollment(_ context.Context, _, _ uint) (domain.SportEnrollment, error) {
	if f.enrollmentErr != nil {
		return domain.SportEnrollment{}, f.enrollmentErr
	}

	return f.enrollment, nil
}

func (f *fakeCompetitionRepo) SaveSportQuota(_ context.Context, quota domain.SportQuota) (domain.SportQuota, error) {
	return quota, nil
}

func (f *fakeCompetitionRepo) SetLicenseValid(_ context.Context, _, _ uint, _ bool) error {
	return nil
}

func (f *fakeCompetitionRepo) ChangeEnrollmentTeam(_ context.Context, _, _ uint, teamID *uint) error {
	f.moved = true
	f.movedTeamID = teamID

	return nil
}

func TestChangeTeam_MovesWithinSameSportAndSchool(t *testing.T) {
	repo := &fakeCompetitionRepo{
		enrollment: domain.SportEnrollment{UserID: 1, SportID: 3, SchoolID: 5},
		team:       domain.Team{ID: 40, SportID: 3, SchoolID: 5},
	}
	svc := service.NewCompetitionService(repo)

	teamID := uint(40)
	err := svc.ChangeTeam(context.Background(), 3, 1, &teamID)

	require.NoError(t, err)
	require.True(t, repo.moved)
	require.NotNil(t, repo.movedTeamID)
	assert.Equal(t, uint(40), *repo.movedTeamID)
}

func TestChangeTeam_RejectsSchoolMismatch(t *testing.T) {
	repo := &fakeCompetitionRepo{
		enrollment: domain.SportEnrollment{UserID: 1, SportID: 3, SchoolID: 1},
		team:       domain.Team{ID: 40, SportID: 3, SchoolID: 2},
	}
	svc := service.NewCompetitionService(repo)

	teamID := uint(40)
	err := svc.ChangeTeam(context.Background(), 3, 1, &teamID)

	assert.ErrorIs(t, err, service.ErrTeamMismatch)
	assert.False(t, repo.moved, "a team from another school must not receive the enrollment")
}

func TestChangeTeam_RejectsSportMismatch(t *testing.T) {
	repo := &fakeCompetitionRepo{
		enrollment: domain.SportEnrollment{UserID: 1, SportID: 3, SchoolID: 5},
		team:       domain.Team{ID: 40, SportID: 7, SchoolID: 5},
	}
	svc := service.NewCompetitionService(repo)

	teamID := uint(40)
	err := svc.ChangeTeam(context.Background(), 3, 1, &teamID)

	assert.ErrorIs(t, err, service.ErrTeamMismatch)
	assert.False(t, repo.moved)
}

func TestChangeTeam_NilTeamLeavesAnyTeam(t *testing.T) {
	repo := &fakeCompetitionRepo{}
	svc := service.NewCompetitionService(repo)

	err := svc.ChangeTeam(context.Background(), 3, 1, nil)

	require.NoError(t, err)
	require.True(t, repo.moved)
	assert.Nil(t, repo.movedTeamID)
}
