package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/challenger-asso/challenger-api/internal/api/handler/v1/request"
)

func validSignup() request.SignupRequest {
	return request.SignupRequest{
		Email:           "alice@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
		FirstName:       "Alice",
		LastName:        "Martin",
		SchoolID:        1,
	}
}

func TestSignupRequestValidate(t *testing.T) {
	req := validSignup()
	assert.NoError(t, req.Validate())
}

func TestSignupRequestValidate_BadEmail(t *testing.T) {
	req := validSignup()
	req.Email = "not-an-email"
	assert.Error(t, req.Validate())
}

func TestSignupRequestValidate_WeakPasswords(t *testing.T) {
	weak := []string{
		"short1",      // too short
		"onlyletters", // no digit
		"12345678",    // no letter
	}

	for _, password := range weak {
		req := validSignup()
		req.Password = password
		req.ConfirmPassword = password
		assert.Error(t, req.Validate(), "password %q should be rejected", password)
	}
}

func TestSignupRequestValidate_ConfirmMismatch(t *testing.T) {
	req := validSignup()
	req.ConfirmPassword = "password2"
	assert.Error(t, req.Validate())
}

func TestSignupRequestValidate_MissingSchool(t *testing.T) {
	req := validSignup()
	req.SchoolID = 0
	assert.Error(t, req.Validate())
}

func TestLoginRequestValidate(t *testing.T) {
	req := request.LoginRequest{Email: "alice@example.com", Password: "password1"}
	assert.NoError(t, req.Validate())

	req.Password = ""
	assert.Error(t, req.Validate())
}
