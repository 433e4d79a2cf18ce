package usecase

import (
	"context"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
)

// DashboardData is the aggregated payload rendered by the admin panel.
type DashboardData struct {
	Resumo           port.DashboardSummary
	DesempenhoMensal []port.MonthlyPerformance
	TiposDemanda     []port.DemandTypeCount
}

// DashboardService aggregates the financial read models. Admin only.
type DashboardService struct {
	dashboard port.DashboardRepository
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(dashboard port.DashboardRepository) *DashboardService {
	return &DashboardService{dashboard: dashboard}
}

// Overview runs the three aggregation queries and bundles the result.
func (s *DashboardService) Overview(ctx context.Context, ator domain.Ator) (*DashboardData, error) {
	if ator.Perfil != domain.PerfilAdmin {
		return nil, ErrForbidden
	}

	summary, err := s.dashboard.Summary(ctx)
	if err != nil {
		return nil, err
	}

	monthly, err := s.dashboard.MonthlyPerformance(ctx)
	if err != nil {
		return nil, err
	}

	types, err := s.dashboard.DemandTypes(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		Resumo:           *summary,
		DesempenhoMensal: monthly,
		TiposDemanda:     types,
	}, nil
}
