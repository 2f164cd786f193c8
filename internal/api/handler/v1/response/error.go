package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/service"
)

type Err struct {
	StatusCode int `json:"-"`

	ErrorMsg string            `json:"error"`
	Reasons  []domain.Reason   `json:"reasons,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

func (e *Err) Error() string {
	return e.ErrorMsg
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.AbortWithStatusJSON(err.StatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		ErrorMsg:   err.Error(),
	}
}

// ErrInvalidFields reports per-field local validation failures of a
// registration step.
func ErrInvalidFields(fieldErr *service.FieldValidationError) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		ErrorMsg:   "some fields are invalid",
		Fields:     fieldErr.Fields,
	}
}

// ErrNotEligible reports an eligibility refusal together with the
// failing reasons for display.
func ErrNotEligible(eligErr *service.EligibilityError) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		ErrorMsg:   "participant is not eligible for validation",
		Reasons:    eligErr.Reasons,
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		ErrorMsg:   err.Error(),
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		ErrorMsg:   err.Error(),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		ErrorMsg:   err.Error(),
	}
}

func ErrNotFound(resource, key string, value interface{}) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		ErrorMsg:   fmt.Sprintf("%v with %v (%v) is not found", resource, key, value),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		ErrorMsg:   err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		StatusCode: http.StatusInternalServerError,
		ErrorMsg:   "internal server error",
	}
}
