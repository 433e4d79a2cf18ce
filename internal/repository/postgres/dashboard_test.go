package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v2"
)

func newDashboardMock(t *testing.T) (pgxmock.PgxPoolIface, *DashboardRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pgx mock: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewDashboardRepository(mock)
}

func TestDashboardRepositorySummary(t *testing.T) {
	mock, repo := newDashboardMock(t)

	mock.ExpectQuery("FROM demandas").
		WillReturnRows(pgxmock.NewRows([]string{"faturamento_bruto", "custos_totais", "a_receber", "a_pagar"}).
			AddRow(12000.0, 4500.0, 2000.0, 800.0))

	summary, err := repo.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.FaturamentoBruto != 12000 || summary.CustosTotais != 4500 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.LucroLiquido != 7500 {
		t.Fatalf("lucro = %v, want faturamento minus custos", summary.LucroLiquido)
	}
	if summary.AReceber != 2000 || summary.APagar != 800 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestDashboardRepositoryMonthlyPerformance(t *testing.T) {
	mock, repo := newDashboardMock(t)

	mock.ExpectQuery("TO_CHAR").
		WillReturnRows(pgxmock.NewRows([]string{"mes", "faturamento", "custo"}).
			AddRow("2026-07", 6000.0, 2200.0).
			AddRow("2026-08", 6000.0, 2300.0))

	months, err := repo.MonthlyPerformance(context.Background())
	if err != nil {
		t.Fatalf("monthly performance: %v", err)
	}
	if len(months) != 2 || months[0].Mes != "2026-07" || months[1].Custo != 2300 {
		t.Fatalf("months = %+v", months)
	}
}

func TestDashboardRepositoryDemandTypes(t *testing.T) {
	mock, repo := newDashboardMock(t)

	mock.ExpectQuery("COALESCE").
		WillReturnRows(pgxmock.NewRows([]string{"tipo_demanda", "quantidade"}).
			AddRow("Audiência", int64(14)).
			AddRow("Não informado", int64(3)))

	types, err := repo.DemandTypes(context.Background())
	if err != nil {
		t.Fatalf("demand types: %v", err)
	}
	if len(types) != 2 || types[0].TipoDemanda != "Audiência" || types[1].Quantidade != 3 {
		t.Fatalf("types = %+v", types)
	}
}
