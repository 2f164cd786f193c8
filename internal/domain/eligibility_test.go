package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/challenger-asso/challenger-api/internal/domain"
)

func validAthlete() (domain.Participant, *domain.SportEnrollment, []domain.Purchase) {
	participant := domain.Participant{
		UserID:    1,
		EditionID: 1,
		Roles:     domain.RoleSet{Athlete: true},
		Category:  "senior",
	}
	enrollment := &domain.SportEnrollment{
		UserID:       1,
		SportID:      3,
		LicenseValid: true,
	}
	purchases := []domain.Purchase{
		{Product: domain.Product{Required: true}, Validated: true},
	}

	return participant, enrollment, purchases
}

func TestValidationReasons_ValidAthlete(t *testing.T) {
	participant, enrollment, purchases := validAthlete()

	reasons := domain.ValidationReasons(participant, enrollment, purchases)

	assert.Empty(t, reasons, "a fully compliant athlete should have no failing reasons")
	assert.True(t, domain.Validatable(participant, enrollment, purchases))
}

func TestValidationReasons_NoRoleDeclared(t *testing.T) {
	participant, enrollment, purchases := validAthlete()
	participant.Roles = domain.RoleSet{}

	reasons := domain.ValidationReasons(participant, enrollment, purchases)

	assert.Contains(t, reasons, domain.ReasonNoRoleDeclared)
	assert.NotContains(t, reasons, domain.ReasonMissingCategory,
		"the category check only applies once a role is declared")
}

func TestValidationReasons_MissingCategory(t *testing.T) {
	participant, enrollment, purchases := validAthlete()
	participant.Category = ""

	reasons := domain.ValidationReasons(participant, enrollment, purchases)

	assert.Equal(t, []domain.Reason{domain.ReasonMissingCategory}, reasons)
}

func TestValidationReasons_LicenseNotValidated(t *testing.T) {
	participant, enrollment, purchases := validAthlete()
	enrollment.LicenseValid = false

	reasons := domain.ValidationReasons(participant, enrollment, purchases)

	assert.Equal(t, []domain.Reason{domain.ReasonLicenseNotValidated}, reasons)
}

func TestValidationReasons_LicenseCheckSkippedForNonAthletes(t *testing.T) {
	participant, _, purchases := validAthlete()
	participant.Roles = domain.RoleSet{Volunteer: true}

	reasons := domain.ValidationReasons(participant, nil, purchases)

	assert.Empty(t, reasons, "non-athletes need no license")
}

func TestValidationReasons_AthleteWithoutEnrollment(t *testing.T) {
	participant, _, purchases := validAthlete()

	reasons := domain.ValidationReasons(participant, nil, purchases)

	assert.NotContains(t, reasons, domain.ReasonLicenseNotValidated,
		"the license reason applies only when an enrollment exists")
}

func TestValidationReasons_RequiredPurchaseNotValidated(t *testing.T) {
	participant, enrollment, _ := validAthlete()
	purchases := []domain.Purchase{
		{Product: domain.Product{Required: true}, Validated: false},
		{Product: domain.Product{Required: true}, Validated: false},
	}

	reasons := domain.ValidationReasons(participant, enrollment, purchases)

	assert.Equal(t, []domain.Reason{domain.ReasonMissingRequiredPurchase}, reasons,
		"multiple failing purchases report the reason once")
}

func TestValidationReasons_OptionalPurchaseDoesNotBlock(t *testing.T) {
	participant, enrollment, _ := validAthlete()
	purchases := []domain.Purchase{
		{Product: domain.Product{Required: false}, Validated: false},
	}

	reasons := domain.ValidationReasons(participant, enrollment, purchases)

	assert.Empty(t, reasons)
}

func TestValidationReasons_AccumulatesAllFailures(t *testing.T) {
	participant := domain.Participant{
		Roles:    domain.RoleSet{Athlete: true},
		Category: "",
	}
	enrollment := &domain.SportEnrollment{LicenseValid: false}
	purchases := []domain.Purchase{
		{Product: domain.Product{Required: true}, Validated: false},
	}

	reasons := domain.ValidationReasons(participant, enrollment, purchases)

	assert.Len(t, reasons, 3, "every failing condition must be reported, not just the first")
	assert.Contains(t, reasons, domain.ReasonMissingCategory)
	assert.Contains(t, reasons, domain.ReasonLicenseNotValidated)
	assert.Contains(t, reasons, domain.ReasonMissingRequiredPurchase)
}

func TestValidationReasons_IsPure(t *testing.T) {
	participant, enrollment, purchases := validAthlete()
	enrollment.LicenseValid = false

	before := *enrollment
	_ = domain.ValidationReasons(participant, enrollment, purchases)

	assert.Equal(t, before, *enrollment, "the rule set must not mutate its inputs")
	assert.False(t, participant.Validated)
}
