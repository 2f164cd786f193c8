package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challenger-asso/challenger-api/internal/api/handler/v1/request"
	"github.com/challenger-asso/challenger-api/internal/api/handler/v1/response"
	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/service"
)

type RegistrationService interface {
	Start(ctx context.Context, userID, editionID uint) (service.StepView, error)
	CurrentStep(userID uint) (service.StepView, error)
	Advance(ctx context.Context, userID uint, submitted service.FormValues) (service.StepView, error)
	Back(userID uint) (service.StepView, error)
	Form(userID uint) (service.FormValues, error)
	Abandon(userID uint)
}

type RegistrationHandler struct {
	svc  RegistrationService
	uSvc userGetter
}

func NewRegistrationHandler(svc RegistrationService, uSvc userGetter) *RegistrationHandler {
	return &RegistrationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleStart godoc
// @Summary      Open a registration session (or resume the existing one)
// @Tags         registration
// @Produce      json
// @Param        request   body      request.StartRegistrationRequest true "request body"
// @Success      200      {object}   service.StepView
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /registration/start [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleStart(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.StartRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	view, err := h.svc.Start(ctx.Request.Context(), user.ID, req.EditionID)
	if err != nil {
		err = fmt.Errorf("v1.HandleStart -> h.svc.Start -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// HandleCurrentStep godoc
// @Summary      Get the current step of the open registration session
// @Tags         registration
// @Produce      json
// @Success      200      {object}   response.RegistrationStateResponse
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /registration [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleCurrentStep(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	view, err := h.svc.CurrentStep(user.ID)
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound("registration session", "user ID", user.ID))
		return
	}

	form, err := h.svc.Form(user.ID)
	if err != nil {
		response.RenderErr(ctx, response.ErrNotFound("registration session", "user ID", user.ID))
		return
	}

	ctx.JSON(http.StatusOK, response.RegistrationStateResponse{
		Step: view,
		Form: form,
	})
}

// HandleAdvance godoc
// @Summary      Submit the current step and move forward
// @Tags         registration
// @Produce      json
// @Param        request   body      request.AdvanceRequest true "request body"
// @Success      200      {object}   service.StepView
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /registration/advance [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleAdvance(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AdvanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	view, err := h.svc.Advance(ctx.Request.Context(), user.ID, formValuesFromRequest(req))
	if err != nil {
		var fieldErr *service.FieldValidationError
		switch {
		case errors.As(err, &fieldErr):
			response.RenderErr(ctx, response.ErrInvalidFields(fieldErr))
		case errors.Is(err, service.ErrSessionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("registration session", "user ID", user.ID))
		case errors.Is(err, service.ErrCommitInFlight):
			response.RenderErr(ctx, response.ErrConflict(service.ErrCommitInFlight))
		default:
			err = fmt.Errorf("v1.HandleAdvance -> h.svc.Advance -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// HandleBack godoc
// @Summary      Move one step backward without committing anything
// @Tags         registration
// @Produce      json
// @Success      200      {object}   service.StepView
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /registration/back [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleBack(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	view, err := h.svc.Back(user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("registration session", "user ID", user.ID))
		case errors.Is(err, service.ErrCommitInFlight):
			response.RenderErr(ctx, response.ErrConflict(service.ErrCommitInFlight))
		case errors.Is(err, service.ErrFirstStep):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrFirstStep))
		default:
			err = fmt.Errorf("v1.HandleBack -> h.svc.Back -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// HandleAbandon godoc
// @Summary      Abandon the open registration session
// @Tags         registration
// @Produce      json
// @Success      204
// @Failure      401      {object}   response.Err
// @Router       /registration [delete]
// @Security BearerAuth
func (h *RegistrationHandler) HandleAbandon(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	h.svc.Abandon(user.ID)

	ctx.Status(http.StatusNoContent)
}

func formValuesFromRequest(req request.AdvanceRequest) service.FormValues {
	products := make([]service.ProductSelection, 0, len(req.Products))
	for _, sel := range req.Products {
		products = append(products, service.ProductSelection{
			ProductID: sel.ProductID,
			Variant:   sel.Variant,
			Quantity:  sel.Quantity,
		})
	}

	return service.FormValues{
		Phone: req.Phone,
		Roles: domain.RoleSet{
			Athlete:   req.IsAthlete,
			Cameraman: req.IsCameraman,
			Fanfare:   req.IsFanfare,
			Pompom:    req.IsPompom,
			Volunteer: req.IsVolunteer,
		},
		Category:      req.Category,
		PhotoRelease:  req.PhotoRelease,
		SportID:       req.SportID,
		LicenseNumber: req.LicenseNumber,
		Substitute:    req.Substitute,
		TeamLeader:    req.TeamLeader,
		TeamID:        req.TeamID,
		TeamName:      req.TeamName,
		Products:      products,
	}
}
