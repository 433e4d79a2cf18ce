package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medeiros27/diligencias-app/internal/infra/storage"
	"github.com/medeiros27/diligencias-app/internal/repository"
	"github.com/medeiros27/diligencias-app/internal/transport/http/middleware"
	"github.com/medeiros27/diligencias-app/internal/usecase"
)

// AnexoHandler exposes the attachment endpoints nested under demandas.
type AnexoHandler struct {
	anexos *usecase.AnexoService
}

// NewAnexoHandler constructs AnexoHandler.
func NewAnexoHandler(anexos *usecase.AnexoService) *AnexoHandler {
	return &AnexoHandler{anexos: anexos}
}

// RegisterRoutes binds the anexo routes on the demanda group.
func (h *AnexoHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/:id/anexos", h.upload)
	r.GET("/:id/anexos", h.list)
}

var anexoErrorCases = []ErrorCase{
	{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "Demanda não encontrada."},
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "Acesso negado."},
	{Err: storage.ErrFileTooLarge, Status: http.StatusRequestEntityTooLarge, Message: "Arquivo excede o tamanho máximo de 10MB."},
	{Err: storage.ErrInvalidMimeType, Status: http.StatusUnsupportedMediaType, Message: "Tipo de arquivo não permitido."},
}

func (h *AnexoHandler) upload(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	file, err := c.FormFile("arquivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, http.StatusBadRequest, "Nenhum arquivo enviado. Use o campo 'arquivo'."))
		return
	}

	anexo, err := h.anexos.Upload(c.Request.Context(), ator, id, file)
	if err != nil {
		RespondWithMappedError(c, err, anexoErrorCases, http.StatusInternalServerError, "Erro interno ao enviar anexo.")
		return
	}

	c.JSON(http.StatusCreated, toAnexoResponse(*anexo))
}

func (h *AnexoHandler) list(c *gin.Context) {
	ator, ok := middleware.GetAtor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, http.StatusUnauthorized, "Autenticação necessária."))
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	anexos, err := h.anexos.List(c.Request.Context(), ator, id)
	if err != nil {
		RespondWithMappedError(c, err, anexoErrorCases, http.StatusInternalServerError, "Erro interno ao listar anexos.")
		return
	}

	out := make([]AnexoResponse, 0, len(anexos))
	for _, anexo := range anexos {
		out = append(out, toAnexoResponse(anexo))
	}

	c.JSON(http.StatusOK, out)
}
