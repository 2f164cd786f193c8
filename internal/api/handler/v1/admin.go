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

type ValidationService interface {
	Eligibility(ctx context.Context, userID, editionID uint) ([]domain.Reason, error)
	Validate(ctx context.Context, userID, editionID uint) error
	Invalidate(ctx context.Context, userID, editionID uint) error
	Remove(ctx context.Context, userID, editionID, sportID uint, isAthlete bool) error
	SportQuotaReport(ctx context.Context, sportID, schoolID uint) (domain.QuotaUsage, error)
	GeneralQuotaReport(ctx context.Context, schoolID, editionID uint) ([]domain.CategoryUsage, error)
}

// AdminHandler exposes the validation dashboard: eligibility checks,
// validate/invalidate/remove actions and quota reports.
type AdminHandler struct {
	svc  ValidationService
	uSvc userGetter
}

func NewAdminHandler(svc ValidationService, uSvc userGetter) *AdminHandler {
	return &AdminHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// RequireAdmin aborts requests from non-admin users.
func (h *AdminHandler) RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, respErr := getUserFromContext(ctx, h.uSvc)
		if respErr != nil {
			response.RenderErr(ctx, respErr)
			return
		}

		if user.Role != "admin" {
			response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("admin role required")))
			return
		}

		ctx.Next()
	}
}

// HandleEligibility godoc
// @Summary      Report whether a participant can be validated
// @Tags         admin
// @Produce      json
// @Param        userID       path      int  true  "user ID"
// @Param        edition_id   query     int  true  "edition ID"
// @Success      200      {object}   response.EligibilityResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/participants/{userID}/eligibility [get]
// @Security BearerAuth
func (h *AdminHandler) HandleEligibility(ctx *gin.Context) {
	userID, respErr := parseUintParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	editionID, respErr := parseUintQuery(ctx, "edition_id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reasons, err := h.svc.Eligibility(ctx.Request.Context(), userID, editionID)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("participant", "user ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleEligibility -> h.svc.Eligibility -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.EligibilityResponse{
		Validatable: len(reasons) == 0,
		Reasons:     reasons,
	})
}

// HandleValidate godoc
// @Summary      Validate a participant
// @Tags         admin
// @Produce      json
// @Param        userID       path      int  true  "user ID"
// @Param        edition_id   query     int  true  "edition ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/participants/{userID}/validate [post]
// @Security BearerAuth
func (h *AdminHandler) HandleValidate(ctx *gin.Context) {
	userID, respErr := parseUintParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	editionID, respErr := parseUintQuery(ctx, "edition_id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	err := h.svc.Validate(ctx.Request.Context(), userID, editionID)
	if err != nil {
		var eligErr *service.EligibilityError
		switch {
		case errors.As(err, &eligErr):
			response.RenderErr(ctx, response.ErrNotEligible(eligErr))
		case errors.Is(err, service.ErrActionInFlight):
			response.RenderErr(ctx, response.ErrConflict(service.ErrActionInFlight))
		case errors.Is(err, service.ErrParticipantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("participant", "user ID", userID))
		default:
			err = fmt.Errorf("v1.HandleValidate -> h.svc.Validate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleInvalidate godoc
// @Summary      Invalidate a participant
// @Tags         admin
// @Produce      json
// @Param        userID       path      int  true  "user ID"
// @Param        edition_id   query     int  true  "edition ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/participants/{userID}/invalidate [post]
// @Security BearerAuth
func (h *AdminHandler) HandleInvalidate(ctx *gin.Context) {
	userID, respErr := parseUintParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	editionID, respErr := parseUintQuery(ctx, "edition_id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	err := h.svc.Invalidate(ctx.Request.Context(), userID, editionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActionInFlight):
			response.RenderErr(ctx, response.ErrConflict(service.ErrActionInFlight))
		case errors.Is(err, service.ErrParticipantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("participant", "user ID", userID))
		default:
			err = fmt.Errorf("v1.HandleInvalidate -> h.svc.Invalidate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleRemove godoc
// @Summary      Remove a participant (and the athlete enrollment first)
// @Tags         admin
// @Produce      json
// @Param        userID   path      int  true  "user ID"
// @Param        request  body      request.RemoveParticipantRequest true "request body"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/participants/{userID} [delete]
// @Security BearerAuth
func (h *AdminHandler) HandleRemove(ctx *gin.Context) {
	userID, respErr := parseUintParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RemoveParticipantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.Remove(ctx.Request.Context(), userID, req.EditionID, req.SportID, req.IsAthlete)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActionInFlight):
			response.RenderErr(ctx, response.ErrConflict(service.ErrActionInFlight))
		case errors.Is(err, service.ErrParticipantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("participant", "user ID", userID))
		default:
			err = fmt.Errorf("v1.HandleRemove -> h.svc.Remove -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleSportQuota godoc
// @Summary      Evaluate the sport/school quota against its roster
// @Tags         admin
// @Produce      json
// @Param        sport_id     query     int  true  "sport ID"
// @Param        school_id    query     int  true  "school ID"
// @Success      200      {object}   domain.QuotaUsage
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/quotas/sport [get]
// @Security BearerAuth
func (h *AdminHandler) HandleSportQuota(ctx *gin.Context) {
	sportID, respErr := parseUintQuery(ctx, "sport_id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	schoolID, respErr := parseUintQuery(ctx, "school_id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	usage, err := h.svc.SportQuotaReport(ctx.Request.Context(), sportID, schoolID)
	if err != nil {
		err = fmt.Errorf("v1.HandleSportQuota -> h.svc.SportQuotaReport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, usage)
}

// HandleGeneralQuota godoc
// @Summary      Evaluate the per-role school quota for an edition
// @Tags         admin
// @Produce      json
// @Param        school_id    query     int  true  "school ID"
// @Param        edition_id   query     int  true  "edition ID"
// @Success      200      {array}    domain.CategoryUsage
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/quotas/general [get]
// @Security BearerAuth
func (h *AdminHandler) HandleGeneralQuota(ctx *gin.Context) {
	schoolID, respErr := parseUintQuery(ctx, "school_id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	editionID, respErr := parseUintQuery(ctx, "edition_id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	usages, err := h.svc.GeneralQuotaReport(ctx.Request.Context(), schoolID, editionID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGeneralQuota -> h.svc.GeneralQuotaReport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, usages)
}
