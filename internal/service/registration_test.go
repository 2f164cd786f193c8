package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/repository"
	"github.com/challenger-asso/challenger-api/internal/service"
)

type fakeUserRepo struct {
	user         domain.User
	phoneUpdates []string
	updateErr    error
}

func (f *fakeUserRepo) FindByID(_ context.Context, _ uint) (domain.User, error) {
	return f.user, nil
}

func (f *fakeUserRepo) UpdatePhone(_ context.Context, _ uint, phone string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.phoneUpdates = append(f.phoneUpdates, phone)

	return nil
}

type fakeCompRepo struct {
	participants map[uint]domain.Participant
	enrollments  []domain.SportEnrollment
	teams        []domain.Team

	nextID uint

	enrollmentErr error
	teamErr       error

	calls []string
}

func newFakeCompRepo() *fakeCompRepo {
	return &fakeCompRepo{
		participants: make(map[uint]domain.Participant),
		nextID:       1,
	}
}

func (f *fakeCompRepo) FindParticipant(_ context.Context, userID, _ uint) (domain.Participant, error) {
	f.calls = append(f.calls, "FindParticipant")
	p, ok := f.participants[userID]
	if !ok {
		return domain.Participant{}, repository.ErrParticipantNotFound
	}

	return p, nil
}

func (f *fakeCompRepo) CreateParticipant(_ context.Context, p domain.Participant) (domain.Participant, error) {
	f.calls = append(f.calls, "CreateParticipant")
	p.ID = f.nextID
	f.nextID++
	f.participants[p.UserID] = p

	return p, nil
}

func (f *fakeCompRepo) FindEnrollment(_ context.Context, sportID, userID uint) (domain.SportEnrollment, error) {
	f.calls = append(f.calls, "FindEnrollment")
	for _, e := range f.enrollments {
		if e.SportID == sportID && e.UserID == userID {
			return e, nil
		}
	}

	return domain.SportEnrollment{}, repository.ErrEnrollmentNotFound
}

func (f *fakeCompRepo) CreateEnrollment(_ context.Context, e domain.SportEnrollment) (domain.SportEnrollment, error) {
	f.calls = append(f.calls, "CreateEnrollment")
	if f.enrollmentErr != nil {
		return domain.SportEnrollment{}, f.enrollmentErr
	}
	e.ID = f.nextID
	f.nextID++
	f.enrollments = append(f.enrollments, e)

	return e, nil
}

func (f *fakeCompRepo) CreateTeam(_ context.Context, team domain.Team) (domain.Team, error) {
	f.calls = append(f.calls, "CreateTeam")
	if f.teamErr != nil {
		return domain.Team{}, f.teamErr
	}
	team.ID = f.nextID
	f.nextID++
	f.teams = append(f.teams, team)

	return team, nil
}

func (f *fakeCompRepo) FindTeamByCaptain(_ context.Context, sportID, schoolID, captainID uint) (domain.Team, error) {
	f.calls = append(f.calls, "FindTeamByCaptain")
	for _, t := range f.teams {
		if t.SportID == sportID && t.SchoolID == schoolID && t.CaptainID != nil && *t.CaptainID == captainID {
			return t, nil
		}
	}

	return domain.Team{}, repository.ErrTeamNotFound
}

type fakePurchaseRepo struct {
	purchases []domain.Purchase
	createErr error
}

func (f *fakePurchaseRepo) FindByUser(_ context.Context, userID, editionID uint) ([]domain.Purchase, error) {
	var out []domain.Purchase
	for _, p := range f.purchases {
		if p.UserID == userID && p.EditionID == editionID {
			out = append(out, p)
		}
	}

	return out, nil
}

func (f *fakePurchaseRepo) Create(_ context.Context, purchase domain.Purchase) (domain.Purchase, error) {
	if f.createErr != nil {
		return domain.Purchase{}, f.createErr
	}
	purchase.ID = uint(len(f.purchases) + 1)
	f.purchases = append(f.purchases, purchase)

	return purchase, nil
}

func newRegistrationService() (*service.RegistrationService, *fakeUserRepo, *fakeCompRepo, *fakePurchaseRepo) {
	users := &fakeUserRepo{user: domain.User{ID: 1, SchoolID: 5, Phone: "0612345678"}}
	comp := newFakeCompRepo()
	purchases := &fakePurchaseRepo{}

	return service.NewRegistrationService(users, comp, purchases), users, comp, purchases
}

func athleteForm() service.FormValues {
	return service.FormValues{
		Phone:         "0612345678",
		Roles:         domain.RoleSet{Athlete: true},
		Category:      "senior",
		SportID:       3,
		LicenseNumber: "LIC-42",
	}
}

func TestStart_OpensSessionAtFirstStep(t *testing.T) {
	svc, _, _, _ := newRegistrationService()

	view, err := svc.Start(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Equal(t, service.StepInformations, view.Step)
	assert.Equal(t, 0, view.Index)
}

func TestStart_ResumesExistingSession(t *testing.T) {
	svc, _, _, _ := newRegistrationService()

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), 1, athleteForm())
	require.NoError(t, err)

	view, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, service.StepParticipation, view.Step, "restarting must resume, not reset")
}

func TestAdvance_FullAthleteFlow(t *testing.T) {
	svc, _, comp, purchases := newRegistrationService()
	form := athleteForm()
	form.Products = []service.ProductSelection{{ProductID: 9, Variant: "M", Quantity: 1}}

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)

	steps := []service.StepID{
		service.StepParticipation,
		service.StepSport,
		service.StepPackage,
		service.StepRecap,
	}
	for _, expected := range steps {
		view, err := svc.Advance(context.Background(), 1, form)
		require.NoError(t, err)
		assert.Equal(t, expected, view.Step)
	}

	// advancing past the terminal step finalizes and discards
	view, err := svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	assert.True(t, view.Terminal)

	_, err = svc.CurrentStep(1)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	assert.Len(t, comp.participants, 1)
	assert.Len(t, comp.enrollments, 1)
	assert.Len(t, purchases.purchases, 1)
}

func TestAdvance_SportStepSkippedForNonAthletes(t *testing.T) {
	svc, _, comp, _ := newRegistrationService()
	form := athleteForm()
	form.Roles = domain.RoleSet{Volunteer: true}

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)

	view, err := svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	assert.Equal(t, service.StepPackage, view.Step, "the sport step must not appear for non-athletes")
	assert.Equal(t, 4, view.Count)

	assert.Empty(t, comp.enrollments)
}

func TestAdvance_FieldErrorsKeepStepAndValues(t *testing.T) {
	svc, _, _, _ := newRegistrationService()

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)

	bad := service.FormValues{Phone: "not-a-phone"}
	view, err := svc.Advance(context.Background(), 1, bad)

	var fieldErr *service.FieldValidationError
	require.ErrorAs(t, err, &fieldErr)
	assert.Contains(t, fieldErr.Fields, "phone")
	assert.Equal(t, service.StepInformations, view.Step)

	form, err := svc.Form(1)
	require.NoError(t, err)
	assert.Equal(t, "not-a-phone", form.Phone, "entered values survive a validation failure")
}

func TestAdvance_OnlyCurrentStepFieldsAreValidated(t *testing.T) {
	svc, _, _, _ := newRegistrationService()

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)

	// sport fields are garbage but the informations step must not care
	form := athleteForm()
	form.SportID = 0

	view, err := svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	assert.Equal(t, service.StepParticipation, view.Step)
}

func TestAdvance_PhoneUnchangedSkipsUpdate(t *testing.T) {
	svc, users, _, _ := newRegistrationService()

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), 1, athleteForm())
	require.NoError(t, err)
	assert.Empty(t, users.phoneUpdates, "an unchanged phone must not trigger a write")

	_, err = svc.Back(1)
	require.NoError(t, err)

	form := athleteForm()
	form.Phone = "0698765432"
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	assert.Equal(t, []string{"0698765432"}, users.phoneUpdates)
}

func TestAdvance_ParticipationResubmitIsNoOp(t *testing.T) {
	svc, _, comp, _ := newRegistrationService()

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), 1, athleteForm())
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, athleteForm())
	require.NoError(t, err)

	_, err = svc.Back(1)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, athleteForm())
	require.NoError(t, err)

	assert.Len(t, comp.participants, 1, "resubmitting the participation step must not duplicate")
}

func TestAdvance_TeamCreatedBeforeEnrollment(t *testing.T) {
	svc, _, comp, _ := newRegistrationService()
	form := athleteForm()
	form.TeamLeader = true
	form.TeamName = "Les Invincibles"

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)

	require.Len(t, comp.teams, 1)
	require.Len(t, comp.enrollments, 1)

	team := comp.teams[0]
	assert.Equal(t, "Les Invincibles", team.Name)
	assert.Equal(t, uint(5), team.SchoolID, "team inherits the user's school")
	require.NotNil(t, team.CaptainID)
	assert.Equal(t, uint(1), *team.CaptainID)

	enrollment := comp.enrollments[0]
	require.NotNil(t, enrollment.TeamID)
	assert.Equal(t, team.ID, *enrollment.TeamID)

	// team creation happened strictly before the enrollment call
	teamIdx, enrollIdx := -1, -1
	for i, call := range comp.calls {
		switch call {
		case "CreateTeam":
			teamIdx = i
		case "CreateEnrollment":
			enrollIdx = i
		}
	}
	assert.Less(t, teamIdx, enrollIdx)
}

func TestAdvance_EnrollmentFailureRetryReusesTeam(t *testing.T) {
	svc, _, comp, _ := newRegistrationService()
	form := athleteForm()
	form.TeamLeader = true
	form.TeamName = "Les Invincibles"

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)

	comp.enrollmentErr = errors.New("connection reset")
	view, err := svc.Advance(context.Background(), 1, form)
	require.Error(t, err)
	assert.Equal(t, service.StepSport, view.Step, "a failed commit keeps the step active")
	require.Len(t, comp.teams, 1, "the team was created before the failure")

	comp.enrollmentErr = nil
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)

	assert.Len(t, comp.teams, 1, "the retry must reuse the already-created team")
	require.Len(t, comp.enrollments, 1)
	assert.Equal(t, comp.teams[0].ID, *comp.enrollments[0].TeamID)
}

func TestAdvance_SportReusesTeamAlreadyCaptained(t *testing.T) {
	svc, _, comp, _ := newRegistrationService()
	captainID := uint(1)
	comp.teams = []domain.Team{
		{ID: 40, Name: "Les Invincibles", SportID: 3, SchoolID: 5, CaptainID: &captainID},
	}

	form := athleteForm()
	form.TeamLeader = true
	form.TeamName = "Les Invincibles"

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)

	assert.NotContains(t, comp.calls, "CreateTeam",
		"a team the user already captains must be reused, not duplicated")
	assert.Len(t, comp.teams, 1)
	require.Len(t, comp.enrollments, 1)
	require.NotNil(t, comp.enrollments[0].TeamID)
	assert.Equal(t, uint(40), *comp.enrollments[0].TeamID)
}

func TestAdvance_AlreadyEnrolledIsNoOp(t *testing.T) {
	svc, _, comp, _ := newRegistrationService()
	comp.enrollments = []domain.SportEnrollment{{UserID: 1, SportID: 3}}

	form := athleteForm()

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)

	view, err := svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	assert.Equal(t, service.StepPackage, view.Step)
	assert.Len(t, comp.enrollments, 1, "an existing enrollment must not be duplicated")
}

func TestAdvance_PackageSkipsOwnedVariants(t *testing.T) {
	svc, _, _, purchases := newRegistrationService()
	purchases.purchases = []domain.Purchase{
		{UserID: 1, EditionID: 1, ProductID: 9, Variant: "M", Quantity: 1},
	}

	form := athleteForm()
	form.Roles = domain.RoleSet{Volunteer: true}
	form.Products = []service.ProductSelection{
		{ProductID: 9, Variant: "M", Quantity: 1},
		{ProductID: 9, Variant: "L", Quantity: 1},
	}

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)

	assert.Len(t, purchases.purchases, 2, "only the new variant is recorded")
	assert.Equal(t, "L", purchases.purchases[1].Variant)
}

func TestBack_NeverCommitsAndStopsAtFirstStep(t *testing.T) {
	svc, users, _, _ := newRegistrationService()

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)

	_, err = svc.Back(1)
	assert.ErrorIs(t, err, service.ErrFirstStep)

	form := athleteForm()
	form.Phone = "0698765432"
	_, err = svc.Advance(context.Background(), 1, form)
	require.NoError(t, err)

	updatesBefore := len(users.phoneUpdates)
	view, err := svc.Back(1)
	require.NoError(t, err)
	assert.Equal(t, service.StepInformations, view.Step)
	assert.Len(t, users.phoneUpdates, updatesBefore, "going back must not commit")

	got, err := svc.Form(1)
	require.NoError(t, err)
	assert.Equal(t, "0698765432", got.Phone, "going back must not discard entered values")
}

func TestAbandon_DiscardsSession(t *testing.T) {
	svc, _, _, _ := newRegistrationService()

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)

	svc.Abandon(1)

	_, err = svc.CurrentStep(1)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestSessions_AreIndependentPerUser(t *testing.T) {
	svc, _, _, _ := newRegistrationService()

	_, err := svc.Start(context.Background(), 1, 1)
	require.NoError(t, err)
	_, err = svc.Start(context.Background(), 2, 1)
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), 1, athleteForm())
	require.NoError(t, err)

	view, err := svc.CurrentStep(2)
	require.NoError(t, err)
	assert.Equal(t, service.StepInformations, view.Step, "another user's advance must not move this session")
}

func TestAdvance_UnknownSession(t *testing.T) {
	svc, _, _, _ := newRegistrationService()

	_, err := svc.Advance(context.Background(), 99, athleteForm())
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}
