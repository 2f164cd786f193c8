package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/repository"
)

var (
	ErrParticipantNotFound = repository.ErrParticipantNotFound
	ErrActionInFlight      = errors.New("an action is already in progress for this participant")
)

// EligibilityError is returned when validation is refused. No data
// call is issued in that case; the reasons are meant for display.
type EligibilityError struct {
	Reasons []domain.Reason
}

func (e *EligibilityError) Error() string {
	reasons := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		reasons[i] = string(r)
	}

	return "participant not eligible: " + strings.Join(reasons, ", ")
}

type ValidationCompetitionRepository interface {
	FindParticipant(ctx context.Context, userID, editionID uint) (domain.Participant, error)
	FindParticipantsBySchool(ctx context.Context, schoolID, editionID uint) ([]domain.Participant, error)
	ValidateParticipant(ctx context.Context, userID, editionID uint) error
	InvalidateParticipant(ctx context.Context, userID, editionID uint) error
	DeleteParticipant(ctx context.Context, userID, editionID uint) error
	FindEnrollmentByUser(ctx context.Context, userID uint) (domain.SportEnrollment, error)
	DeleteEnrollment(ctx context.Context, sportID, userID uint) error
	FindRoster(ctx context.Context, sportID, schoolID uint) ([]domain.SportEnrollment, error)
	FindSportQuota(ctx context.Context, sportID, schoolID uint) (domain.SportQuota, error)
	FindGeneralQuota(ctx context.Context, schoolID uint) (domain.GeneralQuota, error)
}

type ValidationPurchaseRepository interface {
	FindByUser(ctx context.Context, userID, editionID uint) ([]domain.Purchase, error)
}

// ValidationService is the admin-side orchestrator deciding whether a
// participant may be validated, invalidated or removed, and sequencing
// the data calls those actions require. One action at a time per
// participant; actions on different participants are independent.
type ValidationService struct {
	comp      ValidationCompetitionRepository
	purchases ValidationPurchaseRepository

	mu      sync.Mutex
	pending map[uint]bool
}

func NewValidationService(comp ValidationCompetitionRepository, purchases ValidationPurchaseRepository) *ValidationService {
	return &ValidationService{
		comp:      comp,
		purchases: purchases,
		pending:   make(map[uint]bool),
	}
}

// begin marks an action in flight for the user. A second action while
// one is pending is refused instead of issuing a duplicate data call.
func (s *ValidationService) begin(userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending[userID] {
		return ErrActionInFlight
	}
	s.pending[userID] = true

	return nil
}

func (s *ValidationService) end(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
}

// Eligibility returns the reasons currently preventing validation of
// the participant. Empty means validatable.
func (s *ValidationService) Eligibility(ctx context.Context, userID, editionID uint) ([]domain.Reason, error) {
	participant, err := s.comp.FindParticipant(ctx, userID, editionID)
	if err != nil {
		return nil, fmt.Errorf("s.comp.FindParticipant -> %w", err)
	}

	enrollment, err := s.athleteEnrollment(ctx, participant)
	if err != nil {
		return nil, err
	}

	purchases, err := s.purchases.FindByUser(ctx, userID, editionID)
	if err != nil {
		return nil, fmt.Errorf("s.purchases.FindByUser -> %w", err)
	}

	return domain.ValidationReasons(participant, enrollment, purchases), nil
}

// Validate marks the participant as validated. When the participant is
// not eligible the call is refused with the failing reasons and no
// data mutation is attempted.
func (s *ValidationService) Validate(ctx context.Context, userID, editionID uint) error {
	if err := s.begin(userID); err != nil {
		return err
	}
	defer s.end(userID)

	reasons, err := s.Eligibility(ctx, userID, editionID)
	if err != nil {
		return err
	}
	if len(reasons) > 0 {
		return &EligibilityError{Reasons: reasons}
	}

	if err := s.comp.ValidateParticipant(ctx, userID, editionID); err != nil {
		return fmt.Errorf("s.comp.ValidateParticipant -> %w", err)
	}

	return nil
}

// Invalidate clears the validated flag. Always permitted; invalidating
// an already-unvalidated participant succeeds as a no-op server-side.
func (s *ValidationService) Invalidate(ctx context.Context, userID, editionID uint) error {
	if err := s.begin(userID); err != nil {
		return err
	}
	defer s.end(userID)

	if err := s.comp.InvalidateParticipant(ctx, userID, editionID); err != nil {
		return fmt.Errorf("s.comp.InvalidateParticipant -> %w", err)
	}

	return nil
}

// Remove deletes the participant. An athlete's sport enrollment must
// be deleted first: the backend models the enrollment as dependent on
// the participant record, and deleting it frees quota and team
// membership before the participant goes away.
func (s *ValidationService) Remove(ctx context.Context, userID, editionID, sportID uint, isAthlete bool) error {
	if err := s.begin(userID); err != nil {
		return err
	}
	defer s.end(userID)

	if isAthlete {
		if err := s.comp.DeleteEnrollment(ctx, sportID, userID); err != nil {
			if !errors.Is(err, repository.ErrEnrollmentNotFound) {
				return fmt.Errorf("s.comp.DeleteEnrollment -> %w", err)
			}
			zap.L().Warn("no enrollment to delete for athlete participant",
				zap.Uint("user_id", userID), zap.Uint("sport_id", sportID))
		}
	}

	if err := s.comp.DeleteParticipant(ctx, userID, editionID); err != nil {
		return fmt.Errorf("s.comp.DeleteParticipant -> %w", err)
	}

	return nil
}

// SportQuotaReport evaluates the configured quota of a sport/school
// pair against its current roster. Purely advisory.
func (s *ValidationService) SportQuotaReport(ctx context.Context, sportID, schoolID uint) (domain.QuotaUsage, error) {
	quota, err := s.comp.FindSportQuota(ctx, sportID, schoolID)
	if err != nil {
		if errors.Is(err, repository.ErrQuotaNotFound) {
			// no quota configured: unlimited
			quota = domain.SportQuota{SportID: sportID, SchoolID: schoolID}
		} else {
			return domain.QuotaUsage{}, fmt.Errorf("s.comp.FindSportQuota -> %w", err)
		}
	}

	roster, err := s.comp.FindRoster(ctx, sportID, schoolID)
	if err != nil {
		return domain.QuotaUsage{}, fmt.Errorf("s.comp.FindRoster -> %w", err)
	}

	return quota.Evaluate(roster), nil
}

// GeneralQuotaReport evaluates the per-role school quota against the
// school's participants for an edition.
func (s *ValidationService) GeneralQuotaReport(ctx context.Context, schoolID, editionID uint) ([]domain.CategoryUsage, error) {
	quota, err := s.comp.FindGeneralQuota(ctx, schoolID)
	if err != nil {
		if errors.Is(err, repository.ErrQuotaNotFound) {
			quota = domain.GeneralQuota{SchoolID: schoolID}
		} else {
			return nil, fmt.Errorf("s.comp.FindGeneralQuota -> %w", err)
		}
	}

	participants, err := s.comp.FindParticipantsBySchool(ctx, schoolID, editionID)
	if err != nil {
		return nil, fmt.Errorf("s.comp.FindParticipantsBySchool -> %w", err)
	}

	return quota.Evaluate(participants), nil
}

// athleteEnrollment fetches the participant's athlete enrollment, nil
// when there is none.
func (s *ValidationService) athleteEnrollment(ctx context.Context, p domain.Participant) (*domain.SportEnrollment, error) {
	if !p.Roles.Athlete {
		return nil, nil
	}

	enrollment, err := s.comp.FindEnrollmentByUser(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("s.comp.FindEnrollmentByUser -> %w", err)
	}

	return &enrollment, nil
}
