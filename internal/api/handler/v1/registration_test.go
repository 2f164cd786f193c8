package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/challenger-asso/challenger-api/internal/api/handler/v1"
	"github.com/challenger-asso/challenger-api/internal/api/middleware"
	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/service"
)

type stubUserGetter struct {
	user domain.User
}

func (s *stubUserGetter) GetUser(_ context.Context, _ uint) (domain.User, error) {
	return s.user, nil
}

type stubRegistrationService struct {
	view       service.StepView
	form       service.FormValues
	advanceErr error

	advancedWith service.FormValues
}

func (s *stubRegistrationService) Start(_ context.Context, _, _ uint) (service.StepView, error) {
	return s.view, nil
}

func (s *stubRegistrationService) CurrentStep(_ uint) (service.StepView, error) {
	return s.view, nil
}

func (s *stubRegistrationService) Advance(_ context.Context, _ uint, submitted service.FormValues) (service.StepView, error) {
	s.advancedWith = submitted
	if s.advanceErr != nil {
		return s.view, s.advanceErr
	}

	return s.view, nil
}

func (s *stubRegistrationService) Back(_ uint) (service.StepView, error) {
	return s.view, nil
}

func (s *stubRegistrationService) Form(_ uint) (service.FormValues, error) {
	return s.form, nil
}

func (s *stubRegistrationService) Abandon(_ uint) {}

func newRegistrationRouter(svc *stubRegistrationService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := v1.NewRegistrationHandler(svc, &stubUserGetter{user: domain.User{ID: 1}})

	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, uint(1))
	})
	router.POST("/registration/advance", handler.HandleAdvance)
	router.POST("/registration/back", handler.HandleBack)

	return router
}

func TestHandleAdvance_MapsRoleFlags(t *testing.T) {
	svc := &stubRegistrationService{
		view: service.StepView{Step: service.StepParticipation, Name: "Participation"},
	}
	router := newRegistrationRouter(svc)

	body, err := json.Marshal(map[string]interface{}{
		"is_athlete": true,
		"is_pompom":  true,
		"category":   "senior",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/registration/advance", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.advancedWith.Roles.Athlete)
	assert.True(t, svc.advancedWith.Roles.Pompom)
	assert.False(t, svc.advancedWith.Roles.Volunteer)
	assert.Equal(t, "senior", svc.advancedWith.Category)
}

func TestHandleAdvance_FieldErrorsRendered(t *testing.T) {
	svc := &stubRegistrationService{
		view: service.StepView{Step: service.StepInformations},
		advanceErr: &service.FieldValidationError{
			Fields: service.FieldErrors{"phone": "must be in a valid format"},
		},
	}
	router := newRegistrationRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/registration/advance", bytes.NewReader([]byte(`{}`)))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "phone")
}

func TestHandleAdvance_CommitInFlight(t *testing.T) {
	svc := &stubRegistrationService{
		view:       service.StepView{Step: service.StepSport},
		advanceErr: service.ErrCommitInFlight,
	}
	router := newRegistrationRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/registration/advance", bytes.NewReader([]byte(`{}`)))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
