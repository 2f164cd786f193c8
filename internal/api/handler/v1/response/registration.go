package response

import "github.com/challenger-asso/challenger-api/internal/service"

// RegistrationStateResponse returns the visible step plus the values
// entered so far, so a reconnecting client can re-render the form.
type RegistrationStateResponse struct {
	Step service.StepView   `json:"step"`
	Form service.FormValues `json:"form"`
}
