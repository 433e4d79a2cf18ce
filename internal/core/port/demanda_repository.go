package port

import (
	"context"
	"time"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
)

// NovaDemanda carries the fields persisted on demanda creation. Status and
// correspondente assignment are owned by the repository: every new row starts
// in the initial pending state with no correspondente.
type NovaDemanda struct {
	Titulo               string
	DescricaoCompleta    string
	NumeroProcesso       *string
	TipoDemanda          *string
	PrazoFatal           *time.Time
	ValorPropostoCliente float64
	ClienteID            int64
}

// DemandaRepository exposes persistence operations for the demandas table.
type DemandaRepository interface {
	Create(ctx context.Context, nova NovaDemanda) (*domain.Demanda, error)
	// GetByID returns the demanda with joined cliente/correspondente
	// display names, or repository.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Demanda, error)
	ListAll(ctx context.Context) ([]domain.Demanda, error)
	ListByCliente(ctx context.Context, clienteID int64) ([]domain.Demanda, error)
	ListByCorrespondente(ctx context.Context, correspondenteID int64) ([]domain.Demanda, error)
	// Assign sets correspondente_id and moves the status to Em Andamento in
	// a single UPDATE so both changes become visible together.
	Assign(ctx context.Context, demandaID, correspondenteID int64) (*domain.Demanda, error)
	UpdateStatus(ctx context.Context, demandaID int64, status domain.StatusDemanda) (*domain.Demanda, error)
}

// AnexoRepository exposes persistence operations for the anexos_demandas table.
type AnexoRepository interface {
	Create(ctx context.Context, anexo domain.Anexo) (*domain.Anexo, error)
	ListByDemanda(ctx context.Context, demandaID int64) ([]domain.Anexo, error)
}

// LogRepository persists append-only audit entries. There is deliberately no
// update or delete operation.
type LogRepository interface {
	Create(ctx context.Context, entry domain.LogAtividade) error
}

// DashboardSummary aggregates the financial totals shown on the admin panel.
type DashboardSummary struct {
	FaturamentoBruto float64
	CustosTotais     float64
	LucroLiquido     float64
	AReceber         float64
	APagar           float64
}

// MonthlyPerformance is one month of billing/cost totals.
type MonthlyPerformance struct {
	Mes         string
	Faturamento float64
	Custo       float64
}

// DemandTypeCount is the number of demandas per tipo_demanda tag.
type DemandTypeCount struct {
	TipoDemanda string
	Quantidade  int64
}

// DashboardRepository exposes the read-only aggregation queries.
type DashboardRepository interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
	MonthlyPerformance(ctx context.Context) ([]MonthlyPerformance, error)
	DemandTypes(ctx context.Context) ([]DemandTypeCount, error)
}
