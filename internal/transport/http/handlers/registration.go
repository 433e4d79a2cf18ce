package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/usecase"
)

// RegistrationHandler exposes the public self-registration endpoints.
type RegistrationHandler struct {
	registration *usecase.RegistrationService
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(registration *usecase.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registration: registration}
}

// RegisterRoutes binds the registration routes.
func (h *RegistrationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/clientes/register", h.registerCliente)
	r.POST("/correspondentes/register", h.registerCorrespondente)
}

func (h *RegistrationHandler) registerCliente(c *gin.Context) {
	var req RegisterClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Payload de cadastro inválido."))
		return
	}

	cliente, err := h.registration.RegisterCliente(c.Request.Context(), usecase.NovoCliente{
		NomeCompleto: req.NomeCompleto,
		Escritorio:   req.Escritorio,
		Telefone:     req.Telefone,
		Email:        req.Email,
		Senha:        req.Senha,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailEmUso, Status: http.StatusConflict, Message: "Email já cadastrado."},
		}, http.StatusInternalServerError, "Erro interno ao cadastrar cliente.")
		return
	}

	c.JSON(http.StatusCreated, toClienteResponse(*cliente))
}

func (h *RegistrationHandler) registerCorrespondente(c *gin.Context) {
	var req RegisterCorrespondenteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Payload de cadastro inválido."))
		return
	}

	correspondente, err := h.registration.RegisterCorrespondente(c.Request.Context(), usecase.NovoCorrespondente{
		NomeCompleto:      req.NomeCompleto,
		Tipo:              domain.TipoCorrespondente(req.Tipo),
		OAB:               req.OAB,
		RG:                req.RG,
		CPF:               req.CPF,
		Email:             req.Email,
		Telefone:          req.Telefone,
		ComarcasAtendidas: req.ComarcasAtendidas,
		Senha:             req.Senha,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailEmUso, Status: http.StatusConflict, Message: "Email já cadastrado."},
			{Err: usecase.ErrCPFEmUso, Status: http.StatusConflict, Message: "CPF já cadastrado."},
		}, http.StatusInternalServerError, "Erro interno ao cadastrar correspondente.")
		return
	}

	c.JSON(http.StatusCreated, toCorrespondenteResponse(*correspondente))
}
