package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medeiros27/diligencias-app/internal/transport/http/middleware"
	"github.com/medeiros27/diligencias-app/internal/usecase"
)

// DashboardHandler exposes the admin financial panel.
type DashboardHandler struct {
	dashboard *usecase.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *usecase.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// RegisterRoutes binds the dashboard route.
func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.overview)
}

func (h *DashboardHandler) overview(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	data, err := h.dashboard.Overview(c.Request.Context(), ator)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "Acesso negado."},
		}, http.StatusInternalServerError, "Erro interno ao montar o painel.")
		return
	}

	c.JSON(http.StatusOK, toDashboardResponse(*data))
}
