package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/service"
)

const principalKey = "principal"

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func AuthMiddleware(auth service.AuthInteractor) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := BearerToken(ctx.GetHeader("Authorization"))
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		principal, err := auth.Authenticate(ctx.Request.Context(), token)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.Set(principalKey, principal)
		ctx.Next()
	}
}

func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		principal, ok := currentPrincipal(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if principal.Role != role {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "only " + string(role) + "s are allowed"})
			return
		}
		ctx.Next()
	}
}

func currentPrincipal(ctx *gin.Context) (*domain.Principal, bool) {
	v, ok := ctx.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok
}

func mustPrincipal(ctx *gin.Context) *domain.Principal {
	p, ok := currentPrincipal(ctx)
	if !ok {
		panic("principal missing from context; route is not behind AuthMiddleware")
	}
	return p
}
