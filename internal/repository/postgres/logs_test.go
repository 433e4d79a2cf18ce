package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v2"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
)

func TestLogRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pgx mock: %v", err)
	}
	t.Cleanup(mock.Close)
	repo := NewLogRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO log_atividades (demanda_id,ator_id,ator_perfil,tipo_log,detalhes)")).
		WithArgs(int64(5), int64(1), domain.PerfilAdmin, domain.LogAtribuicao, []byte(`{"correspondente_id":20}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), domain.LogAtividade{
		DemandaID:  5,
		AtorID:     1,
		AtorPerfil: domain.PerfilAdmin,
		TipoLog:    domain.LogAtribuicao,
		Detalhes:   map[string]any{"correspondente_id": 20},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLogRepositoryCreatePropagatesErrors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pgx mock: %v", err)
	}
	t.Cleanup(mock.Close)
	repo := NewLogRepository(mock)

	insertErr := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO log_atividades").
		WithArgs(int64(5), int64(1), domain.PerfilCliente, domain.LogCriacao, []byte(`null`)).
		WillReturnError(insertErr)

	err = repo.Create(context.Background(), domain.LogAtividade{
		DemandaID:  5,
		AtorID:     1,
		AtorPerfil: domain.PerfilCliente,
		TipoLog:    domain.LogCriacao,
	})
	if !errors.Is(err, insertErr) {
		t.Fatalf("err = %v, want the insert error", err)
	}
}
