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

type CompetitionService interface {
	ListSports(ctx context.Context) ([]domain.Sport, error)
	ListSportsBySchool(ctx context.Context, schoolID uint) ([]domain.Sport, error)
	CreateSport(ctx context.Context, sport domain.Sport) (domain.Sport, error)
	ListSchools(ctx context.Context) ([]domain.School, error)
	CreateSchool(ctx context.Context, school domain.School) (domain.School, error)
	ListTeamsBySport(ctx context.Context, sportID uint) ([]domain.Team, error)
	GetTeam(ctx context.Context, id uint) (domain.Team, error)
	SaveSportQuota(ctx context.Context, quota domain.SportQuota) (domain.SportQuota, error)
	SetLicenseValid(ctx context.Context, sportID, userID uint, valid bool) error
	ChangeTeam(ctx context.Context, sportID, userID uint, teamID *uint) error
}

// CompetitionHandler serves the reference data endpoints: sports,
// schools, teams and sport quota configuration.
type CompetitionHandler struct {
	svc CompetitionService
}

func NewCompetitionHandler(svc CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{
		svc: svc,
	}
}

// HandleListSports godoc
// @Summary      List sports, optionally filtered by school
// @Tags         competition
// @Produce      json
// @Param        school_id   query     int  false  "school ID"
// @Success      200      {array}    domain.Sport
// @Failure      500      {object}   response.Err
// @Router       /sports [get]
func (h *CompetitionHandler) HandleListSports(ctx *gin.Context) {
	var (
		sports []domain.Sport
		err    error
	)

	if ctx.Query("school_id") != "" {
		schoolID, respErr := parseUintQuery(ctx, "school_id")
		if respErr != nil {
			response.RenderErr(ctx, respErr)
			return
		}
		sports, err = h.svc.ListSportsBySchool(ctx.Request.Context(), schoolID)
	} else {
		sports, err = h.svc.ListSports(ctx.Request.Context())
	}

	if err != nil {
		err = fmt.Errorf("v1.HandleListSports -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, sports)
}

// HandleCreateSport godoc
// @Summary      Create a sport
// @Tags         competition
// @Produce      json
// @Param        request   body      request.CreateSportRequest true "request body"
// @Success      201      {object}   domain.Sport
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/sports [post]
// @Security BearerAuth
func (h *CompetitionHandler) HandleCreateSport(ctx *gin.Context) {
	var req request.CreateSportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	sport, err := h.svc.CreateSport(ctx.Request.Context(), domain.Sport{
		Name:       req.Name,
		Collective: req.Collective,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateSport -> h.svc.CreateSport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, sport)
}

// HandleListSchools godoc
// @Summary      List schools
// @Tags         competition
// @Produce      json
// @Success      200      {array}    domain.School
// @Failure      500      {object}   response.Err
// @Router       /schools [get]
func (h *CompetitionHandler) HandleListSchools(ctx *gin.Context) {
	schools, err := h.svc.ListSchools(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListSchools -> h.svc.ListSchools -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, schools)
}

// HandleCreateSchool godoc
// @Summary      Create a school
// @Tags         competition
// @Produce      json
// @Param        request   body      request.CreateSchoolRequest true "request body"
// @Success      201      {object}   domain.School
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/schools [post]
// @Security BearerAuth
func (h *CompetitionHandler) HandleCreateSchool(ctx *gin.Context) {
	var req request.CreateSchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	school, err := h.svc.CreateSchool(ctx.Request.Context(), domain.School{
		Name: req.Name,
		City: req.City,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateSchool -> h.svc.CreateSchool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, school)
}

// HandleListTeams godoc
// @Summary      List the teams of a sport
// @Tags         competition
// @Produce      json
// @Param        sportID   path      int  true  "sport ID"
// @Success      200      {array}    domain.Team
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /sports/{sportID}/teams [get]
func (h *CompetitionHandler) HandleListTeams(ctx *gin.Context) {
	sportID, respErr := parseUintParam(ctx, "sportID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	teams, err := h.svc.ListTeamsBySport(ctx.Request.Context(), sportID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListTeams -> h.svc.ListTeamsBySport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, teams)
}

// HandleGetTeam godoc
// @Summary      Get a team with its members
// @Tags         competition
// @Produce      json
// @Param        teamID   path      int  true  "team ID"
// @Success      200      {object}  domain.Team
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /teams/{teamID} [get]
func (h *CompetitionHandler) HandleGetTeam(ctx *gin.Context) {
	teamID, respErr := parseUintParam(ctx, "teamID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	team, err := h.svc.GetTeam(ctx.Request.Context(), teamID)
	if err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("team", "ID", teamID))
			return
		}

		err = fmt.Errorf("v1.HandleGetTeam -> h.svc.GetTeam -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, team)
}

// HandleSaveSportQuota godoc
// @Summary      Configure the quota of a sport/school pair
// @Tags         admin
// @Produce      json
// @Param        request   body      request.SaveSportQuotaRequest true "request body"
// @Success      200      {object}   domain.SportQuota
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/quotas/sport [put]
// @Security BearerAuth
func (h *CompetitionHandler) HandleSaveSportQuota(ctx *gin.Context) {
	var req request.SaveSportQuotaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	quota, err := h.svc.SaveSportQuota(ctx.Request.Context(), domain.SportQuota{
		SportID:          req.SportID,
		SchoolID:         req.SchoolID,
		ParticipantQuota: req.ParticipantQuota,
		TeamQuota:        req.TeamQuota,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleSaveSportQuota -> h.svc.SaveSportQuota -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, quota)
}

// HandleSetLicenseValid godoc
// @Summary      Mark an enrollment's license as checked or not
// @Tags         admin
// @Produce      json
// @Param        request   body      request.SetLicenseValidRequest true "request body"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/enrollments/license [put]
// @Security BearerAuth
func (h *CompetitionHandler) HandleSetLicenseValid(ctx *gin.Context) {
	var req request.SetLicenseValidRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.SetLicenseValid(ctx.Request.Context(), req.SportID, req.UserID, req.Valid); err != nil {
		if errors.Is(err, service.ErrEnrollmentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("enrollment", "user ID", req.UserID))
			return
		}

		err = fmt.Errorf("v1.HandleSetLicenseValid -> h.svc.SetLicenseValid -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleChangeTeam godoc
// @Summary      Move an enrollment to another team of the same sport
// @Tags         admin
// @Produce      json
// @Param        request   body      request.ChangeTeamRequest true "request body"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/enrollments/team [put]
// @Security BearerAuth
func (h *CompetitionHandler) HandleChangeTeam(ctx *gin.Context) {
	var req request.ChangeTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.ChangeTeam(ctx.Request.Context(), req.SportID, req.UserID, req.TeamID); err != nil {
		switch {
		case errors.Is(err, service.ErrTeamNotFound):
			response.RenderErr(ctx, response.ErrNotFound("team", "ID", req.TeamID))
		case errors.Is(err, service.ErrEnrollmentNotFound):
			response.RenderErr(ctx, response.ErrNotFound("enrollment", "user ID", req.UserID))
		case errors.Is(err, service.ErrTeamMismatch):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleChangeTeam -> h.svc.ChangeTeam -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
