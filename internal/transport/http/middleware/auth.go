package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/infra/security"
)

type errorBody struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

func newErrorBody(c *gin.Context, status int, message string) errorBody {
	return errorBody{
		Success: false,
		Status:  status,
		Message: message,
		TraceID: GetTraceID(c),
	}
}

// RequireAuth validates the Authorization header and stores the decoded
// claims and actor on the gin context.
func RequireAuth(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorBody(c, http.StatusUnauthorized, "Token de autenticação não fornecido."))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorBody(c, http.StatusUnauthorized, "Formato de autorização inválido. Use 'Bearer <token>'."))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorBody(c, http.StatusUnauthorized, "Token de autenticação não fornecido."))
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrExpiredToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorBody(c, http.StatusUnauthorized, "Sessão expirada. Faça login novamente."))
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorBody(c, http.StatusUnauthorized, "Token inválido."))
			}
			return
		}

		ator := claims.Ator()
		c.Set(ClaimsKey, claims)
		c.Set(AtorKey, ator)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.AtorID = ator.ID
		}

		c.Next()
	}
}

// RequirePerfil allows the request through only when the authenticated actor
// carries one of the given perfis. Must run after RequireAuth.
func RequirePerfil(perfis ...domain.Perfil) gin.HandlerFunc {
	return func(c *gin.Context) {
		ator, ok := GetAtor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorBody(c, http.StatusUnauthorized, "Autenticação necessária."))
			return
		}

		for _, perfil := range perfis {
			if ator.Perfil == perfil {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			newErrorBody(c, http.StatusForbidden, "Acesso negado."))
	}
}

// GetAtor retrieves the authenticated actor from the gin context.
func GetAtor(c *gin.Context) (domain.Ator, bool) {
	value, exists := c.Get(AtorKey)
	if !exists {
		return domain.Ator{}, false
	}

	ator, ok := value.(domain.Ator)
	return ator, ok
}
