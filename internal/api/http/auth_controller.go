package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/classroom_live/internal/api/http/converter"
	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/service"
)

type AuthController struct {
	auth service.AuthInteractor
}

func NewAuthController(auth service.AuthInteractor) *AuthController {
	return &AuthController{auth: auth}
}

func (c *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Name                string `json:"name" binding:"required"`
		Handle              string `json:"handle"`
		Role                string `json:"role" binding:"required"`
		InstitutionalNumber string `json:"institutionalNumber" binding:"required"`
		Password            string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body", err)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeError(ctx, err)
		return
	}

	tokens, err := c.auth.Register(ctx.Request.Context(), service.RegisterInput{
		Name:                req.Name,
		Handle:              req.Handle,
		Role:                role,
		InstitutionalNumber: req.InstitutionalNumber,
		Password:            req.Password,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, converter.TokensToApi(tokens))
}

func (c *AuthController) Login(ctx *gin.Context) {
	type request struct {
		InstitutionalNumber string `json:"institutionalNumber" binding:"required"`
		Password            string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body", err)
		return
	}

	tokens, err := c.auth.Login(ctx.Request.Context(), req.InstitutionalNumber, req.Password)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, converter.TokensToApi(tokens))
}

func (c *AuthController) Logout(ctx *gin.Context) {
	type request struct {
		RefreshToken string `json:"refreshToken"`
	}

	var req request
	_ = ctx.ShouldBindJSON(&req)

	token := BearerToken(ctx.GetHeader("Authorization"))
	if err := c.auth.Logout(ctx.Request.Context(), token, req.RefreshToken); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (c *AuthController) Refresh(ctx *gin.Context) {
	type request struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body", err)
		return
	}

	tokens, err := c.auth.Refresh(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, converter.TokensToApi(tokens))
}

func (c *AuthController) RandomHandle(ctx *gin.Context) {
	handle, err := c.auth.RandomHandle(ctx.Request.Context())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"handle": handle})
}

func (c *AuthController) Me(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, converter.PrincipalToApi(mustPrincipal(ctx)))
}

func (c *AuthController) RenameHandle(ctx *gin.Context) {
	type request struct {
		Handle string `json:"handle" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body", err)
		return
	}

	principal := mustPrincipal(ctx)
	if err := c.auth.RenameHandle(ctx.Request.Context(), principal.ID, req.Handle); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"handle": req.Handle})
}

func (c *AuthController) DeleteMe(ctx *gin.Context) {
	principal := mustPrincipal(ctx)
	if err := c.auth.DeleteAccount(ctx.Request.Context(), principal.ID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
