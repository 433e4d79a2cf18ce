package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/transport/http/middleware"
	"github.com/medeiros27/diligencias-app/internal/usecase"
)

// ErrorResponse is the uniform error envelope returned by every endpoint.
type ErrorResponse struct {
	Success bool                 `json:"success"`
	Status  int                  `json:"status"`
	Message string               `json:"message"`
	Errors  []usecase.FieldError `json:"errors,omitempty"`
	TraceID string               `json:"trace_id,omitempty"`
}

// NewErrorResponse builds the error envelope with the request trace ID.
func NewErrorResponse(c *gin.Context, status int, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Status:  status,
		Message: message,
		TraceID: middleware.GetTraceID(c),
	}
}

// RespondValidationError renders a 422 with the per-field violations.
func RespondValidationError(c *gin.Context, verr *usecase.ValidationError) {
	resp := NewErrorResponse(c, http.StatusUnprocessableEntity, "Dados inválidos.")
	resp.Errors = verr.Fields
	c.JSON(http.StatusUnprocessableEntity, resp)
}

// LoginRequest is the signin payload.
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

// PrincipalResponse is the store-independent authenticated identity.
type PrincipalResponse struct {
	ID     int64  `json:"id"`
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Perfil string `json:"perfil"`
}

// LoginResponse carries the session token and the resolved identity.
type LoginResponse struct {
	Success bool              `json:"success"`
	Token   string            `json:"token"`
	Usuario PrincipalResponse `json:"usuario"`
}

// RegisterClienteRequest is the cliente self-registration payload.
type RegisterClienteRequest struct {
	NomeCompleto string  `json:"nome_completo"`
	Escritorio   *string `json:"escritorio,omitempty"`
	Telefone     string  `json:"telefone"`
	Email        string  `json:"email"`
	Senha        string  `json:"senha"`
}

// RegisterCorrespondenteRequest is the correspondente self-registration payload.
type RegisterCorrespondenteRequest struct {
	NomeCompleto      string  `json:"nome_completo"`
	Tipo              string  `json:"tipo"`
	OAB               *string `json:"oab,omitempty"`
	RG                *string `json:"rg,omitempty"`
	CPF               string  `json:"cpf"`
	Email             string  `json:"email"`
	Telefone          string  `json:"telefone"`
	ComarcasAtendidas string  `json:"comarcas_atendidas"`
	Senha             string  `json:"senha"`
}

// ClienteResponse mirrors the clientes table without the password hash.
type ClienteResponse struct {
	ID           int64     `json:"id"`
	NomeCompleto string    `json:"nome_completo"`
	Escritorio   *string   `json:"escritorio,omitempty"`
	Telefone     string    `json:"telefone"`
	Email        string    `json:"email"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toClienteResponse(cliente domain.Cliente) ClienteResponse {
	return ClienteResponse{
		ID:           cliente.ID,
		NomeCompleto: cliente.NomeCompleto,
		Escritorio:   cliente.Escritorio,
		Telefone:     cliente.Telefone,
		Email:        cliente.Email,
		IsActive:     cliente.IsActive,
		CreatedAt:    cliente.CreatedAt,
		UpdatedAt:    cliente.UpdatedAt,
	}
}

// CorrespondenteResponse mirrors the correspondentes_servicos table without
// the password hash.
type CorrespondenteResponse struct {
	ID                int64     `json:"id"`
	NomeCompleto      string    `json:"nome_completo"`
	Tipo              string    `json:"tipo"`
	OAB               *string   `json:"oab,omitempty"`
	RG                *string   `json:"rg,omitempty"`
	CPF               string    `json:"cpf"`
	Email             string    `json:"email"`
	Telefone          string    `json:"telefone"`
	ComarcasAtendidas string    `json:"comarcas_atendidas"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toCorrespondenteResponse(correspondente domain.Correspondente) CorrespondenteResponse {
	return CorrespondenteResponse{
		ID:                correspondente.ID,
		NomeCompleto:      correspondente.NomeCompleto,
		Tipo:              string(correspondente.Tipo),
		OAB:               correspondente.OAB,
		RG:                correspondente.RG,
		CPF:               correspondente.CPF,
		Email:             correspondente.Email,
		Telefone:          correspondente.Telefone,
		ComarcasAtendidas: correspondente.ComarcasAtendidas,
		IsActive:          correspondente.IsActive,
		CreatedAt:         correspondente.CreatedAt,
		UpdatedAt:         correspondente.UpdatedAt,
	}
}

// CreateDemandaRequest is the demanda creation payload.
type CreateDemandaRequest struct {
	Titulo               string     `json:"titulo"`
	DescricaoCompleta    string     `json:"descricao_completa"`
	NumeroProcesso       *string    `json:"numero_processo,omitempty"`
	TipoDemanda          *string    `json:"tipo_demanda,omitempty"`
	PrazoFatal           *time.Time `json:"prazo_fatal,omitempty"`
	ValorPropostoCliente float64    `json:"valor_proposto_cliente"`
}

// AssignDemandaRequest carries the assignment target.
type AssignDemandaRequest struct {
	CorrespondenteID int64 `json:"correspondente_id" binding:"required"`
}

// ChangeStatusRequest carries the requested status.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DemandaResponse is the demanda representation with joined display names.
type DemandaResponse struct {
	ID                   int64      `json:"id"`
	Titulo               string     `json:"titulo"`
	DescricaoCompleta    string     `json:"descricao_completa"`
	NumeroProcesso       *string    `json:"numero_processo,omitempty"`
	TipoDemanda          *string    `json:"tipo_demanda,omitempty"`
	PrazoFatal           *time.Time `json:"prazo_fatal,omitempty"`
	ValorPropostoCliente float64    `json:"valor_proposto_cliente"`
	ValorReceber         float64    `json:"valor_receber"`
	ValorPagar           float64    `json:"valor_pagar"`
	Recebido             bool       `json:"recebido"`
	Pago                 bool       `json:"pago"`
	DataDemanda          time.Time  `json:"data_demanda"`
	Status               string     `json:"status"`
	ClienteID            int64      `json:"cliente_id"`
	CorrespondenteID     *int64     `json:"correspondente_id,omitempty"`
	NomeCliente          string     `json:"nome_cliente,omitempty"`
	NomeCorrespondente   *string    `json:"nome_correspondente,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func toDemandaResponse(demanda domain.Demanda) DemandaResponse {
	return DemandaResponse{
		ID:                   demanda.ID,
		Titulo:               demanda.Titulo,
		DescricaoCompleta:    demanda.DescricaoCompleta,
		NumeroProcesso:       demanda.NumeroProcesso,
		TipoDemanda:          demanda.TipoDemanda,
		PrazoFatal:           demanda.PrazoFatal,
		ValorPropostoCliente: demanda.ValorPropostoCliente,
		ValorReceber:         demanda.ValorReceber,
		ValorPagar:           demanda.ValorPagar,
		Recebido:             demanda.Recebido,
		Pago:                 demanda.Pago,
		DataDemanda:          demanda.DataDemanda,
		Status:               string(demanda.Status),
		ClienteID:            demanda.ClienteID,
		CorrespondenteID:     demanda.CorrespondenteID,
		NomeCliente:          demanda.NomeCliente,
		NomeCorrespondente:   demanda.NomeCorrespondente,
		CreatedAt:            demanda.CreatedAt,
		UpdatedAt:            demanda.UpdatedAt,
	}
}

func toDemandaResponses(demandas []domain.Demanda) []DemandaResponse {
	out := make([]DemandaResponse, 0, len(demandas))
	for _, demanda := range demandas {
		out = append(out, toDemandaResponse(demanda))
	}
	return out
}

// AnexoResponse is the attachment metadata representation.
type AnexoResponse struct {
	ID             int64     `json:"id"`
	DemandaID      int64     `json:"demanda_id"`
	UploaderID     int64     `json:"uploader_id"`
	UploaderPerfil string    `json:"uploader_perfil"`
	NomeOriginal   string    `json:"nome_original"`
	TipoMime       string    `json:"tipo_mime"`
	TamanhoBytes   int64     `json:"tamanho_bytes"`
	CreatedAt      time.Time `json:"created_at"`
}

func toAnexoResponse(anexo domain.Anexo) AnexoResponse {
	return AnexoResponse{
		ID:             anexo.ID,
		DemandaID:      anexo.DemandaID,
		UploaderID:     anexo.UploaderID,
		UploaderPerfil: string(anexo.UploaderPerfil),
		NomeOriginal:   anexo.NomeOriginal,
		TipoMime:       anexo.TipoMime,
		TamanhoBytes:   anexo.TamanhoBytes,
		CreatedAt:      anexo.CreatedAt,
	}
}

// UpdateClienteRequest is the admin/self profile update payload.
type UpdateClienteRequest struct {
	NomeCompleto string  `json:"nome_completo"`
	Escritorio   *string `json:"escritorio,omitempty"`
	Telefone     string  `json:"telefone"`
	Email        string  `json:"email"`
}

// UpdateCorrespondenteRequest is the admin/self profile update payload.
type UpdateCorrespondenteRequest struct {
	NomeCompleto      string  `json:"nome_completo"`
	Tipo              string  `json:"tipo"`
	OAB               *string `json:"oab,omitempty"`
	RG                *string `json:"rg,omitempty"`
	CPF               string  `json:"cpf"`
	Email             string  `json:"email"`
	Telefone          string  `json:"telefone"`
	ComarcasAtendidas string  `json:"comarcas_atendidas"`
}

// UpdateActiveStatusRequest toggles the soft-delete flag. The pointer makes an
// omitted field distinguishable from an explicit false.
type UpdateActiveStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

// DashboardResponse bundles the admin panel aggregations.
type DashboardResponse struct {
	Resumo           DashboardSummaryResponse     `json:"resumo"`
	DesempenhoMensal []MonthlyPerformanceResponse `json:"desempenho_mensal"`
	TiposDemanda     []DemandTypeResponse         `json:"tipos_demanda"`
}

// DashboardSummaryResponse carries the financial totals.
type DashboardSummaryResponse struct {
	FaturamentoBruto float64 `json:"faturamento_bruto"`
	CustosTotais     float64 `json:"custos_totais"`
	LucroLiquido     float64 `json:"lucro_liquido"`
	AReceber         float64 `json:"a_receber"`
	APagar           float64 `json:"a_pagar"`
}

// MonthlyPerformanceResponse is one month of billing/cost totals.
type MonthlyPerformanceResponse struct {
	Mes         string  `json:"mes"`
	Faturamento float64 `json:"faturamento"`
	Custo       float64 `json:"custo"`
}

// DemandTypeResponse counts demandas per tipo tag.
type DemandTypeResponse struct {
	TipoDemanda string `json:"tipo_demanda"`
	Quantidade  int64  `json:"quantidade"`
}

func toDashboardResponse(data usecase.DashboardData) DashboardResponse {
	monthly := make([]MonthlyPerformanceResponse, 0, len(data.DesempenhoMensal))
	for _, m := range data.DesempenhoMensal {
		monthly = append(monthly, MonthlyPerformanceResponse(m))
	}

	types := make([]DemandTypeResponse, 0, len(data.TiposDemanda))
	for _, t := range data.TiposDemanda {
		types = append(types, DemandTypeResponse(t))
	}

	return DashboardResponse{
		Resumo:           DashboardSummaryResponse(data.Resumo),
		DesempenhoMensal: monthly,
		TiposDemanda:     types,
	}
}
