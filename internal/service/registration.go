package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/repository"
)

var (
	ErrSessionNotFound  = errors.New("no registration session for this user")
	ErrSessionExists    = errors.New("a registration session is already open")
	ErrCommitInFlight   = errors.New("a step commit is already in progress")
	ErrAlreadyFinalized = errors.New("registration is already finalized")
	ErrFirstStep        = errors.New("already at the first step")
)

var phonePattern = regexp.MustCompile(`^(\+33|0)[1-9]\d{8}$`)

type StepID string

const (
	StepInformations  StepID = "informations"
	StepParticipation StepID = "participation"
	StepSport         StepID = "sport"
	StepPackage       StepID = "package"
	StepRecap         StepID = "recapitulatif"
)

// ProductSelection is one product line of the package step.
type ProductSelection struct {
	ProductID uint   `json:"product_id"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}

// FormValues holds everything a user enters across the whole
// registration. Each step only reads and writes the fields it owns.
type FormValues struct {
	Phone         string             `json:"phone"`
	Roles         domain.RoleSet     `json:"roles"`
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

// FieldErrors maps field names to local validation messages. It never
// reaches the data layer.
type FieldErrors map[string]string

// FieldValidationError is returned when the current step's fields fail
// local validation. Fields owned by other steps never block advancing.
type FieldValidationError struct {
	Fields FieldErrors
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %v", e.Fields)
}

// Step describes one registration step: the fields it owns, the guard
// deciding whether it applies to the current form, and the commit
// executed when the user advances past it.
type Step struct {
	ID     StepID
	Name   string
	Fields []string

	guard    func(FormValues) bool
	validate func(FormValues) FieldErrors
	commit   func(ctx context.Context, sess *Session) error
}

// Session is the transient per-user registration state. It lives in
// memory only and is discarded on completion or abandonment.
type Session struct {
	UserID    uint
	EditionID uint
	SchoolID  uint
	Form      FormValues

	current   int
	stepsDone int

	committing bool

	// set when a sport commit created a team but failed before the
	// enrollment; a retry reuses it instead of creating a duplicate
	pendingTeamID uint

	participantID uint
	storedPhone   string
}

// StepView is what the presentation layer renders for a session.
type StepView struct {
	Step      StepID   `json:"step"`
	Name      string   `json:"name"`
	Fields    []string `json:"fields"`
	Index     int      `json:"index"`
	Count     int      `json:"count"`
	StepsDone int      `json:"steps_done"`
	Terminal  bool     `json:"terminal"`
}

type RegistrationUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	UpdatePhone(ctx context.Context, id uint, phone string) error
}

type RegistrationCompetitionRepository interface {
	FindParticipant(ctx context.Context, userID, editionID uint) (domain.Participant, error)
	CreateParticipant(ctx context.Context, p domain.Participant) (domain.Participant, error)
	FindEnrollment(ctx context.Context, sportID, userID uint) (domain.SportEnrollment, error)
	CreateEnrollment(ctx context.Context, e domain.SportEnrollment) (domain.SportEnrollment, error)
	CreateTeam(ctx context.Context, team domain.Team) (domain.Team, error)
	FindTeamByCaptain(ctx context.Context, sportID, schoolID, captainID uint) (domain.Team, error)
}

type RegistrationPurchaseRepository interface {
	FindByUser(ctx context.Context, userID, editionID uint) ([]domain.Purchase, error)
	Create(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error)
}

// RegistrationService drives the multi-step enrollment workflow. One
// session per user; sessions of different users are independent.
type RegistrationService struct {
	mu       sync.Mutex
	sessions map[uint]*Session

	steps []Step

	users     RegistrationUserRepository
	comp      RegistrationCompetitionRepository
	purchases RegistrationPurchaseRepository
}

func NewRegistrationService(
	users RegistrationUserRepository,
	comp RegistrationCompetitionRepository,
	purchases RegistrationPurchaseRepository,
) *RegistrationService {
	s := &RegistrationService{
		sessions:  make(map[uint]*Session),
		users:     users,
		comp:      comp,
		purchases: purchases,
	}
	s.steps = s.buildSteps()

	return s
}

func (s *RegistrationService) buildSteps() []Step {
	return []Step{
		{
			ID:       StepInformations,
			Name:     "Informations",
			Fields:   []string{"phone"},
			validate: validateInformations,
			commit:   s.commitInformations,
		},
		{
			ID:       StepParticipation,
			Name:     "Participation",
			Fields:   []string{"roles", "category", "photo_release"},
			validate: validateParticipation,
			commit:   s.commitParticipation,
		},
		{
			ID:     StepSport,
			Name:   "Sport",
			Fields: []string{"sport_id", "license_number", "substitute", "team_leader", "team_id", "team_name"},
			guard: func(f FormValues) bool {
				return f.Roles.Athlete
			},
			validate: validateSport,
			commit:   s.commitSport,
		},
		{
			ID:       StepPackage,
			Name:     "Package",
			Fields:   []string{"products"},
			validate: validatePackage,
			commit:   s.commitPackage,
		},
		{
			ID:     StepRecap,
			Name:   "Récapitulatif",
			Fields: nil,
			// terminal, no commit
		},
	}
}

// activeSteps filters the step list through each guard against the
// session's current form values.
func (s *RegistrationService) activeSteps(f FormValues) []Step {
	active := make([]Step, 0, len(s.steps))
	for _, step := range s.steps {
		if step.guard == nil || step.guard(f) {
			active = append(active, step)
		}
	}

	return active
}

// Start opens a registration session for the user. If one is already
// open it is returned untouched so a reconnecting client resumes where
// it left off.
func (s *RegistrationService) Start(ctx context.Context, userID, editionID uint) (StepView, error) {
	s.mu.Lock()
	if sess, ok := s.sessions[userID]; ok {
		view := s.viewLocked(sess)
		s.mu.Unlock()
		return view, nil
	}
	s.mu.Unlock()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return StepView{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	sess := &Session{
		UserID:      userID,
		EditionID:   editionID,
		SchoolID:    user.SchoolID,
		storedPhone: user.Phone,
		Form:        FormValues{Phone: user.Phone},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[userID]; ok {
		return s.viewLocked(existing), nil
	}
	s.sessions[userID] = sess

	return s.viewLocked(sess), nil
}

// CurrentStep returns the session's visible step.
func (s *RegistrationService) CurrentStep(userID uint) (StepView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return StepView{}, ErrSessionNotFound
	}

	return s.viewLocked(sess), nil
}

// Abandon discards the user's session without committing anything.
func (s *RegistrationService) Abandon(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Advance merges the submitted values into the fields owned by the
// current step, validates them locally, runs the step's commit and
// moves forward. On the terminal step the session is finalized and
// discarded. Any failure leaves the current step active with every
// entered value preserved.
func (s *RegistrationService) Advance(ctx context.Context, userID uint, submitted FormValues) (StepView, error) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return StepView{}, ErrSessionNotFound
	}
	if sess.committing {
		s.mu.Unlock()
		return StepView{}, ErrCommitInFlight
	}

	active := s.activeSteps(sess.Form)
	step := active[sess.current]

	mergeStepValues(&sess.Form, step.ID, submitted)

	if step.validate != nil {
		if fieldErrs := step.validate(sess.Form); len(fieldErrs) > 0 {
			view := s.viewLocked(sess)
			s.mu.Unlock()
			return view, &FieldValidationError{Fields: fieldErrs}
		}
	}

	if step.commit == nil {
		// terminal step: finalize and discard
		delete(s.sessions, userID)
		view := s.viewLocked(sess)
		view.Terminal = true
		s.mu.Unlock()
		return view, nil
	}

	sess.committing = true
	s.mu.Unlock()

	commitErr := step.commit(ctx, sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	sess.committing = false

	if commitErr != nil {
		return s.viewLocked(sess), fmt.Errorf("step %q commit -> %w", step.ID, commitErr)
	}

	// the guard set may change after a commit (e.g. athlete toggled),
	// so recompute before moving
	active = s.activeSteps(sess.Form)
	if sess.current < len(active)-1 {
		sess.current++
	}
	if sess.current > sess.stepsDone {
		sess.stepsDone = sess.current
	}

	return s.viewLocked(sess), nil
}

// Back moves one step backward. It never commits and never discards
// entered values.
func (s *RegistrationService) Back(userID uint) (StepView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return StepView{}, ErrSessionNotFound
	}
	if sess.committing {
		return StepView{}, ErrCommitInFlight
	}
	if sess.current == 0 {
		return s.viewLocked(sess), ErrFirstStep
	}

	sess.current--

	return s.viewLocked(sess), nil
}

// Form returns a copy of the session's entered values.
func (s *RegistrationService) Form(userID uint) (FormValues, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return FormValues{}, ErrSessionNotFound
	}

	return sess.Form, nil
}

func (s *RegistrationService) viewLocked(sess *Session) StepView {
	active := s.activeSteps(sess.Form)
	step := active[sess.current]

	return StepView{
		Step:      step.ID,
		Name:      step.Name,
		Fields:    step.Fields,
		Index:     sess.current,
		Count:     len(active),
		StepsDone: sess.stepsDone,
	}
}

// mergeStepValues copies only the fields owned by the given step from
// the submitted form into the session form.
func mergeStepValues(dst *FormValues, step StepID, src FormValues) {
	switch step {
	case StepInformations:
		dst.Phone = src.Phone
	case StepParticipation:
		dst.Roles = src.Roles
		dst.Category = src.Category
		dst.PhotoRelease = src.PhotoRelease
	case StepSport:
		dst.SportID = src.SportID
		dst.LicenseNumber = src.LicenseNumber
		dst.Substitute = src.Substitute
		dst.TeamLeader = src.TeamLeader
		dst.TeamID = src.TeamID
		dst.TeamName = src.TeamName
	case StepPackage:
		dst.Products = src.Products
	}
}

func validateInformations(f FormValues) FieldErrors {
	errs := FieldErrors{}
	if err := validation.Validate(f.Phone, validation.Required, validation.Match(phonePattern)); err != nil {
		errs["phone"] = err.Error()
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateParticipation(f FormValues) FieldErrors {
	errs := FieldErrors{}
	if !f.Roles.Any() {
		errs["roles"] = "at least one role must be selected"
	}
	if err := validation.Validate(f.Category, validation.Required, validation.Length(1, 50)); err != nil {
		errs["category"] = err.Error()
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateSport(f FormValues) FieldErrors {
	errs := FieldErrors{}
	if f.SportID == 0 {
		errs["sport_id"] = "a sport must be selected"
	}
	if f.TeamLeader && f.TeamID == 0 {
		if err := validation.Validate(f.TeamName, validation.Required, validation.Length(2, 50)); err != nil {
			errs["team_name"] = err.Error()
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validatePackage(f FormValues) FieldErrors {
	errs := FieldErrors{}
	for _, sel := range f.Products {
		if sel.Quantity < 0 {
			errs["products"] = "quantities cannot be negative"
			break
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// commitInformations updates the stored phone number, but only when
// the entered value actually differs from it.
func (s *RegistrationService) commitInformations(ctx context.Context, sess *Session) error {
	if sess.Form.Phone == sess.storedPhone {
		return nil
	}

	if err := s.users.UpdatePhone(ctx, sess.UserID, sess.Form.Phone); err != nil {
		return fmt.Errorf("s.users.UpdatePhone -> %w", err)
	}
	sess.storedPhone = sess.Form.Phone

	return nil
}

// commitParticipation creates the participant record for this edition
// unless one already exists.
func (s *RegistrationService) commitParticipation(ctx context.Context, sess *Session) error {
	existing, err := s.comp.FindParticipant(ctx, sess.UserID, sess.EditionID)
	if err == nil {
		sess.participantID = existing.ID
		return nil
	}
	if !errors.Is(err, repository.ErrParticipantNotFound) {
		return fmt.Errorf("s.comp.FindParticipant -> %w", err)
	}

	created, err := s.comp.CreateParticipant(ctx, domain.Participant{
		UserID:       sess.UserID,
		EditionID:    sess.EditionID,
		Roles:        sess.Form.Roles,
		Category:     sess.Form.Category,
		Phone:        sess.Form.Phone,
		PhotoRelease: sess.Form.PhotoRelease,
	})
	if err != nil {
		return fmt.Errorf("s.comp.CreateParticipant -> %w", err)
	}
	sess.participantID = created.ID

	return nil
}

// commitSport creates the sport enrollment, creating the team first
// when the user leads a team that does not exist yet. When the
// enrollment call fails after the team was created, the team id is
// remembered so the retry enrolls into it instead of creating a
// duplicate team. A team the user already captains (left over from an
// abandoned session) is reused the same way.
func (s *RegistrationService) commitSport(ctx context.Context, sess *Session) error {
	f := sess.Form

	_, err := s.comp.FindEnrollment(ctx, f.SportID, sess.UserID)
	if err == nil {
		// already enrolled for this sport, nothing to do
		sess.pendingTeamID = 0
		return nil
	}
	if !errors.Is(err, repository.ErrEnrollmentNotFound) {
		return fmt.Errorf("s.comp.FindEnrollment -> %w", err)
	}

	teamID := f.TeamID
	if f.TeamLeader && teamID == 0 {
		if sess.pendingTeamID != 0 {
			teamID = sess.pendingTeamID
		} else {
			existing, err := s.comp.FindTeamByCaptain(ctx, f.SportID, sess.SchoolID, sess.UserID)
			switch {
			case err == nil:
				sess.pendingTeamID = existing.ID
				teamID = existing.ID
			case errors.Is(err, repository.ErrTeamNotFound):
				captainID := sess.UserID
				team, err := s.comp.CreateTeam(ctx, domain.Team{
					Name:      f.TeamName,
					SportID:   f.SportID,
					SchoolID:  sess.SchoolID,
					CaptainID: &captainID,
				})
				if err != nil {
					return fmt.Errorf("s.comp.CreateTeam -> %w", err)
				}
				sess.pendingTeamID = team.ID
				teamID = team.ID
			default:
				return fmt.Errorf("s.comp.FindTeamByCaptain -> %w", err)
			}
		}
	}

	enrollment := domain.SportEnrollment{
		UserID:        sess.UserID,
		ParticipantID: sess.participantID,
		SportID:       f.SportID,
		SchoolID:      sess.SchoolID,
		LicenseNumber: f.LicenseNumber,
		Substitute:    f.Substitute,
	}
	if teamID != 0 {
		enrollment.TeamID = &teamID
	}

	if _, err := s.comp.CreateEnrollment(ctx, enrollment); err != nil {
		return fmt.Errorf("s.comp.CreateEnrollment -> %w", err)
	}
	sess.pendingTeamID = 0

	return nil
}

// commitPackage records the selected purchases, skipping product
// variants the user already bought so a resubmission is a no-op.
func (s *RegistrationService) commitPackage(ctx context.Context, sess *Session) error {
	existing, err := s.purchases.FindByUser(ctx, sess.UserID, sess.EditionID)
	if err != nil {
		return fmt.Errorf("s.purchases.FindByUser -> %w", err)
	}

	owned := make(map[string]bool, len(existing))
	for _, p := range existing {
		owned[fmt.Sprintf("%d/%s", p.ProductID, p.Variant)] = true
	}

	for _, sel := range sess.Form.Products {
		if sel.Quantity == 0 || owned[fmt.Sprintf("%d/%s", sel.ProductID, sel.Variant)] {
			continue
		}

		_, err := s.purchases.Create(ctx, domain.Purchase{
			UserID:    sess.UserID,
			EditionID: sess.EditionID,
			ProductID: sel.ProductID,
			Variant:   sel.Variant,
			Quantity:  sel.Quantity,
		})
		if err != nil {
			return fmt.Errorf("s.purchases.Create -> %w", err)
		}
	}

	return nil
}
