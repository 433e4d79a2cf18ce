package postgres

import (
	"context"
	"fmt"

	"github.com/medeiros27/diligencias-app/internal/core/port"
)

// DashboardRepository implements the read-only aggregation queries behind the
// admin panel. The queries are written by hand: squirrel adds nothing over raw
// SQL for pure aggregations with no dynamic predicates.
type DashboardRepository struct {
	exec pgExecutor
}

// NewDashboardRepository wires a PostgreSQL-backed dashboard repository.
func NewDashboardRepository(exec pgExecutor) *DashboardRepository {
	return &DashboardRepository{exec: exec}
}

// Summary aggregates the financial totals across non-cancelled demandas.
// Faturamento counts settled receivables, custos count settled payables, and
// the open columns cover amounts still pending settlement.
func (r *DashboardRepository) Summary(ctx context.Context) (*port.DashboardSummary, error) {
	const stmt = `
		SELECT
			COALESCE(SUM(CASE WHEN recebido THEN valor_receber ELSE 0 END), 0)     AS faturamento_bruto,
			COALESCE(SUM(CASE WHEN pago THEN valor_pagar ELSE 0 END), 0)           AS custos_totais,
			COALESCE(SUM(CASE WHEN NOT recebido THEN valor_receber ELSE 0 END), 0) AS a_receber,
			COALESCE(SUM(CASE WHEN NOT pago THEN valor_pagar ELSE 0 END), 0)       AS a_pagar
		FROM demandas
		WHERE status <> 'Cancelada'`

	var summary port.DashboardSummary
	row := r.exec.QueryRow(ctx, stmt)
	if err := row.Scan(&summary.FaturamentoBruto, &summary.CustosTotais, &summary.AReceber, &summary.APagar); err != nil {
		return nil, fmt.Errorf("select dashboard summary: %w", err)
	}
	summary.LucroLiquido = summary.FaturamentoBruto - summary.CustosTotais

	return &summary, nil
}

// MonthlyPerformance returns per-month billing and cost totals for the last
// twelve months, oldest first.
func (r *DashboardRepository) MonthlyPerformance(ctx context.Context) ([]port.MonthlyPerformance, error) {
	const stmt = `
		SELECT
			TO_CHAR(data_demanda, 'YYYY-MM')                                   AS mes,
			COALESCE(SUM(CASE WHEN recebido THEN valor_receber ELSE 0 END), 0) AS faturamento,
			COALESCE(SUM(CASE WHEN pago THEN valor_pagar ELSE 0 END), 0)       AS custo
		FROM demandas
		WHERE status <> 'Cancelada'
		  AND data_demanda >= NOW() - INTERVAL '12 months'
		GROUP BY 1
		ORDER BY 1 ASC`

	rows, err := r.exec.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("select monthly performance: %w", err)
	}
	defer rows.Close()

	var months []port.MonthlyPerformance
	for rows.Next() {
		var month port.MonthlyPerformance
		if err := rows.Scan(&month.Mes, &month.Faturamento, &month.Custo); err != nil {
			return nil, fmt.Errorf("scan monthly performance: %w", err)
		}
		months = append(months, month)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly performance: %w", err)
	}

	return months, nil
}

// DemandTypes counts demandas per tipo_demanda tag. Untagged rows are grouped
// under a literal bucket so the panel never shows an empty label.
func (r *DashboardRepository) DemandTypes(ctx context.Context) ([]port.DemandTypeCount, error) {
	const stmt = `
		SELECT COALESCE(tipo_demanda, 'Não informado') AS tipo_demanda, COUNT(*) AS quantidade
		FROM demandas
		WHERE status <> 'Cancelada'
		GROUP BY 1
		ORDER BY quantidade DESC`

	rows, err := r.exec.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("select demand types: %w", err)
	}
	defer rows.Close()

	var counts []port.DemandTypeCount
	for rows.Next() {
		var count port.DemandTypeCount
		if err := rows.Scan(&count.TipoDemanda, &count.Quantidade); err != nil {
			return nil, fmt.Errorf("scan demand type: %w", err)
		}
		counts = append(counts, count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate demand types: %w", err)
	}

	return counts, nil
}

var _ port.DashboardRepository = (*DashboardRepository)(nil)
