package response

import "github.com/challenger-asso/challenger-api/internal/domain"

// EligibilityResponse reports whether a participant can currently be
// validated and, when not, why.
type EligibilityResponse struct {
	Validatable bool            `json:"validatable"`
	Reasons     []domain.Reason `json:"reasons"`
}

// QuotaWarning decorates a mutating response with advisory quota
// overage flags; it never blocks the action it accompanies.
type QuotaWarning struct {
	Message string            `json:"message"`
	Usage   domain.QuotaUsage `json:"usage"`
}
