package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
	"github.com/medeiros27/diligencias-app/internal/repository"
)

// DemandaRepository implements port.DemandaRepository using PostgreSQL.
type DemandaRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewDemandaRepository wires a PostgreSQL-backed demanda repository.
func NewDemandaRepository(exec pgExecutor) *DemandaRepository {
	return &DemandaRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const demandaColumns = "d.id, d.titulo, d.descricao_completa, d.numero_processo, d.tipo_demanda, d.prazo_fatal, " +
	"d.valor_proposto_cliente, d.valor_receber, d.valor_pagar, d.recebido, d.pago, d.data_demanda, " +
	"d.status, d.cliente_id, d.correspondente_id, d.created_at, d.updated_at"

// Create inserts a demanda in its initial pending state with no
// correspondente. Status and assignment are not caller-controlled here.
func (r *DemandaRepository) Create(ctx context.Context, nova port.NovaDemanda) (*domain.Demanda, error) {
	stmt, args, err := r.builder.
		Insert("demandas").
		Columns("titulo", "descricao_completa", "numero_processo", "tipo_demanda", "prazo_fatal", "valor_proposto_cliente", "status", "cliente_id").
		Values(
			nova.Titulo,
			nova.DescricaoCompleta,
			nova.NumeroProcesso,
			nova.TipoDemanda,
			nova.PrazoFatal,
			nova.ValorPropostoCliente,
			domain.StatusAguardandoDistribuicao,
			nova.ClienteID,
		).
		Suffix("RETURNING id, titulo, descricao_completa, numero_processo, tipo_demanda, prazo_fatal, " +
			"valor_proposto_cliente, valor_receber, valor_pagar, recebido, pago, data_demanda, " +
			"status, cliente_id, correspondente_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert demanda sql: %w", err)
	}

	demanda, err := scanDemanda(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, fmt.Errorf("insert demanda: %w", err)
	}

	return demanda, nil
}

// GetByID retrieves a demanda with joined cliente and correspondente display
// names.
func (r *DemandaRepository) GetByID(ctx context.Context, id int64) (*domain.Demanda, error) {
	stmt, args, err := r.builder.
		Select(demandaColumns, "c.nome_completo AS nome_cliente", "c.email AS email_cliente",
			"cs.nome_completo AS nome_correspondente", "cs.email AS email_correspondente").
		From("demandas d").
		Join("clientes c ON d.cliente_id = c.id").
		LeftJoin("correspondentes_servicos cs ON d.correspondente_id = cs.id").
		Where(squirrel.Eq{"d.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select demanda sql: %w", err)
	}

	var demanda domain.Demanda
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(
		demandaScanTargets(&demanda,
			&demanda.NomeCliente,
			&demanda.EmailCliente,
			&demanda.NomeCorrespondente,
			&demanda.EmailCorrespondente,
		)...,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select demanda by id: %w", err)
	}

	return &demanda, nil
}

// ListAll returns every demanda, newest first. Admin-only at the usecase
// layer.
func (r *DemandaRepository) ListAll(ctx context.Context) ([]domain.Demanda, error) {
	stmt, args, err := r.selectJoined().OrderBy("d.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list demandas sql: %w", err)
	}
	return r.queryDemandas(ctx, stmt, args)
}

// ListByCliente returns the demandas owned by the given cliente.
func (r *DemandaRepository) ListByCliente(ctx context.Context, clienteID int64) ([]domain.Demanda, error) {
	stmt, args, err := r.selectJoined().
		Where(squirrel.Eq{"d.cliente_id": clienteID}).
		OrderBy("d.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list demandas sql: %w", err)
	}
	return r.queryDemandas(ctx, stmt, args)
}

// ListByCorrespondente returns the demandas assigned to the given
// correspondente.
func (r *DemandaRepository) ListByCorrespondente(ctx context.Context, correspondenteID int64) ([]domain.Demanda, error) {
	stmt, args, err := r.selectJoined().
		Where(squirrel.Eq{"d.correspondente_id": correspondenteID}).
		OrderBy("d.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list demandas sql: %w", err)
	}
	return r.queryDemandas(ctx, stmt, args)
}

// Assign sets the correspondente and moves the demanda to Em Andamento in one
// UPDATE, so a concurrent reader never observes one change without the other.
func (r *DemandaRepository) Assign(ctx context.Context, demandaID, correspondenteID int64) (*domain.Demanda, error) {
	stmt, args, err := r.builder.
		Update("demandas").
		Set("correspondente_id", correspondenteID).
		Set("status", domain.StatusEmAndamento).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": demandaID}).
		Suffix("RETURNING id, titulo, descricao_completa, numero_processo, tipo_demanda, prazo_fatal, " +
			"valor_proposto_cliente, valor_receber, valor_pagar, recebido, pago, data_demanda, " +
			"status, cliente_id, correspondente_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build assign demanda sql: %w", err)
	}

	demanda, err := scanDemanda(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("assign demanda: %w", err)
	}

	return demanda, nil
}

// UpdateStatus rewrites the status column. No version column exists, so
// concurrent writers race with last-writer-wins semantics.
func (r *DemandaRepository) UpdateStatus(ctx context.Context, demandaID int64, status domain.StatusDemanda) (*domain.Demanda, error) {
	stmt, args, err := r.builder.
		Update("demandas").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": demandaID}).
		Suffix("RETURNING id, titulo, descricao_completa, numero_processo, tipo_demanda, prazo_fatal, " +
			"valor_proposto_cliente, valor_receber, valor_pagar, recebido, pago, data_demanda, " +
			"status, cliente_id, correspondente_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update demanda status sql: %w", err)
	}

	demanda, err := scanDemanda(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update demanda status: %w", err)
	}

	return demanda, nil
}

func (r *DemandaRepository) selectJoined() squirrel.SelectBuilder {
	return r.builder.
		Select(demandaColumns, "c.nome_completo AS nome_cliente", "c.email AS email_cliente",
			"cs.nome_completo AS nome_correspondente", "cs.email AS email_correspondente").
		From("demandas d").
		Join("clientes c ON d.cliente_id = c.id").
		LeftJoin("correspondentes_servicos cs ON d.correspondente_id = cs.id")
}

func (r *DemandaRepository) queryDemandas(ctx context.Context, stmt string, args []any) ([]domain.Demanda, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query demandas: %w", err)
	}
	defer rows.Close()

	var demandas []domain.Demanda
	for rows.Next() {
		var demanda domain.Demanda
		if err := rows.Scan(
			demandaScanTargets(&demanda,
				&demanda.NomeCliente,
				&demanda.EmailCliente,
				&demanda.NomeCorrespondente,
				&demanda.EmailCorrespondente,
			)...,
		); err != nil {
			return nil, fmt.Errorf("scan demanda: %w", err)
		}
		demandas = append(demandas, demanda)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate demandas: %w", err)
	}

	return demandas, nil
}

func scanDemanda(row pgx.Row) (*domain.Demanda, error) {
	var demanda domain.Demanda
	if err := row.Scan(demandaScanTargets(&demanda)...); err != nil {
		return nil, err
	}
	return &demanda, nil
}

func demandaScanTargets(d *domain.Demanda, extra ...any) []any {
	targets := []any{
		&d.ID,
		&d.Titulo,
		&d.DescricaoCompleta,
		&d.NumeroProcesso,
		&d.TipoDemanda,
		&d.PrazoFatal,
		&d.ValorPropostoCliente,
		&d.ValorReceber,
		&d.ValorPagar,
		&d.Recebido,
		&d.Pago,
		&d.DataDemanda,
		&d.Status,
		&d.ClienteID,
		&d.CorrespondenteID,
		&d.CreatedAt,
		&d.UpdatedAt,
	}
	return append(targets, extra...)
}

var _ port.DemandaRepository = (*DemandaRepository)(nil)
