package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
	"github.com/medeiros27/diligencias-app/internal/repository"
	"github.com/medeiros27/diligencias-app/internal/transport/http/middleware"
	"github.com/medeiros27/diligencias-app/internal/usecase"
)

// UserHandler exposes cliente and correspondente account management.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes binds the account management routes.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/clientes", h.listClientes)
	r.PUT("/clientes/:id", h.updateCliente)
	r.PATCH("/clientes/:id/status", h.updateClienteStatus)

	r.GET("/correspondentes", h.listCorrespondentes)
	r.PUT("/correspondentes/:id", h.updateCorrespondente)
	r.PATCH("/correspondentes/:id/status", h.updateCorrespondenteStatus)
}

var userErrorCases = []ErrorCase{
	{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "Registro não encontrado."},
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "Acesso negado."},
	{Err: usecase.ErrEmailEmUso, Status: http.StatusConflict, Message: "Email já cadastrado."},
	{Err: usecase.ErrCPFEmUso, Status: http.StatusConflict, Message: "CPF já cadastrado."},
}

func (h *UserHandler) listClientes(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	clientes, err := h.users.ListClientes(c.Request.Context(), ator)
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "Erro interno ao listar clientes.")
		return
	}

	out := make([]ClienteResponse, 0, len(clientes))
	for _, cliente := range clientes {
		out = append(out, toClienteResponse(cliente))
	}

	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) listCorrespondentes(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	correspondentes, err := h.users.ListCorrespondentes(c.Request.Context(), ator)
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "Erro interno ao listar correspondentes.")
		return
	}

	out := make([]CorrespondenteResponse, 0, len(correspondentes))
	for _, correspondente := range correspondentes {
		out = append(out, toCorrespondenteResponse(correspondente))
	}

	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) updateCliente(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Payload inválido."))
		return
	}

	cliente, err := h.users.UpdateCliente(c.Request.Context(), ator, id, port.ClienteUpdate{
		NomeCompleto: req.NomeCompleto,
		Escritorio:   req.Escritorio,
		Telefone:     req.Telefone,
		Email:        req.Email,
	})
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "Erro interno ao atualizar cliente.")
		return
	}

	c.JSON(http.StatusOK, toClienteResponse(*cliente))
}

func (h *UserHandler) updateCorrespondente(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateCorrespondenteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Payload inválido."))
		return
	}

	correspondente, err := h.users.UpdateCorrespondente(c.Request.Context(), ator, id, port.CorrespondenteUpdate{
		NomeCompleto:      req.NomeCompleto,
		Tipo:              domain.TipoCorrespondente(req.Tipo),
		OAB:               req.OAB,
		RG:                req.RG,
		CPF:               req.CPF,
		Email:             req.Email,
		Telefone:          req.Telefone,
		ComarcasAtendidas: req.ComarcasAtendidas,
	})
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "Erro interno ao atualizar correspondente.")
		return
	}

	c.JSON(http.StatusOK, toCorrespondenteResponse(*correspondente))
}

func (h *UserHandler) updateClienteStatus(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateActiveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "is_active é obrigatório."))
		return
	}

	cliente, err := h.users.SetClienteActive(c.Request.Context(), ator, id, *req.IsActive)
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "Erro interno ao atualizar status.")
		return
	}

	c.JSON(http.StatusOK, toClienteResponse(*cliente))
}

func (h *UserHandler) updateCorrespondenteStatus(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateActiveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "is_active é obrigatório."))
		return
	}

	correspondente, err := h.users.SetCorrespondenteActive(c.Request.Context(), ator, id, *req.IsActive)
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "Erro interno ao atualizar status.")
		return
	}

	c.JSON(http.StatusOK, toCorrespondenteResponse(*correspondente))
}
