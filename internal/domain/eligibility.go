package domain

// Reason is a human-readable eligibility failure, rendered as-is by
// the admin dashboard.
type Reason string

const (
	ReasonLicenseNotValidated     Reason = "licence non validée"
	ReasonMissingRequiredPurchase Reason = "achat requis manquant ou non validé"
	ReasonMissingCategory         Reason = "catégorie sportive manquante"
	ReasonNoRoleDeclared          Reason = "aucun rôle déclaré"
)

// ValidationReasons reports every condition preventing the participant
// from being validated. An empty result means the participant is
// validatable. The rule set is pure: it never mutates anything and
// never decides how a failing condition should be fixed.
//
// enrollment is the participant's athlete sport enrollment, nil when
// the participant has none.
func ValidationReasons(p Participant, enrollment *SportEnrollment, purchases []Purchase) []Reason {
	var reasons []Reason

	if !p.Roles.Any() {
		reasons = append(reasons, ReasonNoRoleDeclared)
	} else if p.Category == "" {
		reasons = append(reasons, ReasonMissingCategory)
	}

	if p.Roles.Athlete && enrollment != nil && !enrollment.LicenseValid {
		reasons = append(reasons, ReasonLicenseNotValidated)
	}

	for _, purchase := range purchases {
		if purchase.Product.Required && !purchase.Validated {
			reasons = append(reasons, ReasonMissingRequiredPurchase)
			break
		}
	}

	return reasons
}

// Validatable reports whether the participant currently satisfies
// every validation condition.
func Validatable(p Participant, enrollment *SportEnrollment, purchases []Purchase) bool {
	return len(ValidationReasons(p, enrollment, purchases)) == 0
}
