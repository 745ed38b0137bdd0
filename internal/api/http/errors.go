package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/classroom_live/internal/domain"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError hides the details of unexpected errors behind a generic message.
func writeError(ctx *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = ctx.Error(err)
		msg = "internal error"
	}
	ctx.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(ctx *gin.Context, msg string, err error) {
	body := gin.H{"error": msg}
	if err != nil {
		body["details"] = err.Error()
	}
	ctx.AbortWithStatusJSON(http.StatusBadRequest, body)
}

func uintParam(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || v == 0 {
		badRequest(ctx, "invalid "+name, nil)
		return 0, false
	}
	return uint(v), true
}
