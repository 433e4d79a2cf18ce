package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medeiros27/diligencias-app/internal/infra/security"
	"github.com/medeiros27/diligencias-app/internal/transport/http/middleware"
	"github.com/medeiros27/diligencias-app/internal/usecase"
)

// AuthHandler exposes the unified signin endpoint.
type AuthHandler struct {
	auth   *usecase.AuthService
	tokens *security.TokenManager
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, tokens *security.TokenManager) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

// RegisterRoutes binds authentication routes, applying optional middleware
// (rate limiting) ahead of the signin handler.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, signinMiddlewares ...gin.HandlerFunc) {
	chain := append([]gin.HandlerFunc{}, signinMiddlewares...)
	chain = append(chain, h.signin)
	r.POST("/signin", chain...)

	r.GET("/me", middleware.RequireAuth(h.tokens), h.me)
}

func (h *AuthHandler) signin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Email e senha são obrigatórios."))
		return
	}

	token, principal, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Senha)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "Credenciais inválidas."},
		}, http.StatusInternalServerError, "Erro interno ao autenticar.")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Token:   token,
		Usuario: PrincipalResponse{
			ID:     principal.ID,
			Nome:   principal.Nome,
			Email:  principal.Email,
			Perfil: string(principal.Perfil),
		},
	})
}

// me returns the identity carried by the presented token, without touching
// the profile stores.
func (h *AuthHandler) me(c *gin.Context) {
	value, exists := c.Get(middleware.ClaimsKey)
	claims, ok := value.(*security.SessionClaims)
	if !exists || !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	c.JSON(http.StatusOK, PrincipalResponse{
		ID:     claims.PrincipalID,
		Email:  claims.Email,
		Perfil: string(claims.Perfil),
	})
}
