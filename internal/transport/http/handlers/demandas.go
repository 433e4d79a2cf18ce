package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/repository"
	"github.com/medeiros27/diligencias-app/internal/transport/http/middleware"
	"github.com/medeiros27/diligencias-app/internal/usecase"
)

// DemandaHandler exposes the demanda lifecycle endpoints.
type DemandaHandler struct {
	demandas *usecase.DemandaService
}

// NewDemandaHandler constructs DemandaHandler.
func NewDemandaHandler(demandas *usecase.DemandaService) *DemandaHandler {
	return &DemandaHandler{demandas: demandas}
}

// RegisterRoutes binds the demanda routes. All require authentication; the
// record-level guards live in the usecase layer.
func (h *DemandaHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.create)
	r.GET("", h.list)
	r.GET("/minhas", h.listMine)
	r.GET("/:id", h.getByID)
	r.PATCH("/:id/assign", h.assign)
	r.PATCH("/:id/status", h.changeStatus)
}

var demandaErrorCases = []ErrorCase{
	{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "Demanda não encontrada."},
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "Acesso negado."},
	{Err: usecase.ErrStatusInvalido, Status: http.StatusBadRequest, Message: "Status inválido."},
	{Err: usecase.ErrCorrespondenteInvalido, Status: http.StatusBadRequest, Message: "Correspondente inválido ou inativo."},
}

func (h *DemandaHandler) create(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	var req CreateDemandaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Payload de demanda inválido."))
		return
	}

	demanda, err := h.demandas.Create(c.Request.Context(), ator, usecase.NovaDemandaInput{
		Titulo:               req.Titulo,
		DescricaoCompleta:    req.DescricaoCompleta,
		NumeroProcesso:       req.NumeroProcesso,
		TipoDemanda:          req.TipoDemanda,
		PrazoFatal:           req.PrazoFatal,
		ValorPropostoCliente: req.ValorPropostoCliente,
	})
	if err != nil {
		RespondWithMappedError(c, err, demandaErrorCases, http.StatusInternalServerError, "Erro interno ao criar demanda.")
		return
	}

	c.JSON(http.StatusCreated, toDemandaResponse(*demanda))
}

func (h *DemandaHandler) list(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	demandas, err := h.demandas.ListAll(c.Request.Context(), ator)
	if err != nil {
		RespondWithMappedError(c, err, demandaErrorCases, http.StatusInternalServerError, "Erro interno ao listar demandas.")
		return
	}

	c.JSON(http.StatusOK, toDemandaResponses(demandas))
}

func (h *DemandaHandler) listMine(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	demandas, err := h.demandas.ListMine(c.Request.Context(), ator)
	if err != nil {
		RespondWithMappedError(c, err, demandaErrorCases, http.StatusInternalServerError, "Erro interno ao listar demandas.")
		return
	}

	c.JSON(http.StatusOK, toDemandaResponses(demandas))
}

func (h *DemandaHandler) getByID(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	demanda, err := h.demandas.GetByID(c.Request.Context(), ator, id)
	if err != nil {
		RespondWithMappedError(c, err, demandaErrorCases, http.StatusInternalServerError, "Erro interno ao buscar demanda.")
		return
	}

	c.JSON(http.StatusOK, toDemandaResponse(*demanda))
}

func (h *DemandaHandler) assign(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AssignDemandaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "correspondente_id é obrigatório."))
		return
	}

	demanda, err := h.demandas.Assign(c.Request.Context(), ator, id, req.CorrespondenteID)
	if err != nil {
		RespondWithMappedError(c, err, demandaErrorCases, http.StatusInternalServerError, "Erro interno ao atribuir demanda.")
		return
	}

	c.JSON(http.StatusOK, toDemandaResponse(*demanda))
}

func (h *DemandaHandler) changeStatus(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "status é obrigatório."))
		return
	}

	demanda, err := h.demandas.ChangeStatus(c.Request.Context(), ator, id, domain.StatusDemanda(req.Status))
	if err != nil {
		RespondWithMappedError(c, err, demandaErrorCases, http.StatusInternalServerError, "Erro interno ao alterar status.")
		return
	}

	c.JSON(http.StatusOK, toDemandaResponse(*demanda))
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Identificador inválido."))
		return 0, false
	}
	return id, true
}
