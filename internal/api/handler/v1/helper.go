package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/challenger-asso/challenger-api/internal/api/handler/v1/response"
	"github.com/challenger-asso/challenger-api/internal/api/middleware"
	"github.com/challenger-asso/challenger-api/internal/domain"
)

var errNotAuthenticated = errors.New("user is not authenticated")

func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type userGetter interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

func getUserFromContext(ctx *gin.Context, svc userGetter) (domain.User, *response.Err) {
	v, ok := ctx.Get(middleware.ContextKeyUserID)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errNotAuthenticated)
	}

	userID, ok := v.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errNotAuthenticated)
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrUnauthorized(errNotAuthenticated)
	}

	return user, nil
}

func parseUintParam(ctx *gin.Context, name string) (uint, *response.Err) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %v: %w", name, err))
	}

	return uint(value), nil
}

func parseUintQuery(ctx *gin.Context, name string) (uint, *response.Err) {
	value, err := strconv.ParseUint(ctx.Query(name), 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %v: %w", name, err))
	}

	return uint(value), nil
}
