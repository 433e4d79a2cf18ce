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

const correspondenteColumns = "id, nome_completo, tipo, oab, rg, cpf, email, telefone, comarcas_atendidas, senha_hash, is_active, created_at, updated_at"

// CorrespondenteRepository implements port.CorrespondenteRepository using
// PostgreSQL.
type CorrespondenteRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCorrespondenteRepository wires a PostgreSQL-backed correspondente
// repository.
func NewCorrespondenteRepository(exec pgExecutor) *CorrespondenteRepository {
	return &CorrespondenteRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new correspondente row and returns the stored
// representation.
func (r *CorrespondenteRepository) Create(ctx context.Context, correspondente domain.Correspondente) (*domain.Correspondente, error) {
	stmt, args, err := r.builder.
		Insert("correspondentes_servicos").
		Columns("nome_completo", "tipo", "oab", "rg", "cpf", "email", "telefone", "comarcas_atendidas", "senha_hash").
		Values(
			correspondente.NomeCompleto,
			correspondente.Tipo,
			correspondente.OAB,
			correspondente.RG,
			correspondente.CPF,
			correspondente.Email,
			correspondente.Telefone,
			correspondente.ComarcasAtendidas,
			correspondente.SenhaHash,
		).
		Suffix("RETURNING " + correspondenteColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert correspondente sql: %w", err)
	}

	created, err := scanCorrespondente(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, fmt.Errorf("insert correspondente: %w", err)
	}

	return created, nil
}

// GetByID retrieves a correspondente by identifier.
func (r *CorrespondenteRepository) GetByID(ctx context.Context, id int64) (*domain.Correspondente, error) {
	stmt, args, err := r.selectCorrespondentes().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select correspondente sql: %w", err)
	}

	correspondente, err := scanCorrespondente(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select correspondente by id: %w", err)
	}

	return correspondente, nil
}

// GetActiveByEmail retrieves an active correspondente by email for
// authentication.
func (r *CorrespondenteRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.Correspondente, error) {
	stmt, args, err := r.selectCorrespondentes().Where(squirrel.Eq{"email": email, "is_active": true}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select correspondente sql: %w", err)
	}

	correspondente, err := scanCorrespondente(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select correspondente by email: %w", err)
	}

	return correspondente, nil
}

// List returns all correspondentes ordered by display name.
func (r *CorrespondenteRepository) List(ctx context.Context) ([]domain.Correspondente, error) {
	stmt, args, err := r.selectCorrespondentes().OrderBy("nome_completo ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list correspondentes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list correspondentes: %w", err)
	}
	defer rows.Close()

	var correspondentes []domain.Correspondente
	for rows.Next() {
		correspondente, err := scanCorrespondente(rows)
		if err != nil {
			return nil, fmt.Errorf("scan correspondente: %w", err)
		}
		correspondentes = append(correspondentes, *correspondente)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate correspondentes: %w", err)
	}

	return correspondentes, nil
}

// Update rewrites the mutable profile fields of a correspondente.
func (r *CorrespondenteRepository) Update(ctx context.Context, id int64, update port.CorrespondenteUpdate) (*domain.Correspondente, error) {
	stmt, args, err := r.builder.
		Update("correspondentes_servicos").
		Set("nome_completo", update.NomeCompleto).
		Set("tipo", update.Tipo).
		Set("oab", update.OAB).
		Set("rg", update.RG).
		Set("cpf", update.CPF).
		Set("email", update.Email).
		Set("telefone", update.Telefone).
		Set("comarcas_atendidas", update.ComarcasAtendidas).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + correspondenteColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update correspondente sql: %w", err)
	}

	correspondente, err := scanCorrespondente(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update correspondente: %w", err)
	}

	return correspondente, nil
}

// UpdateActiveStatus soft-activates or soft-deactivates a correspondente.
func (r *CorrespondenteRepository) UpdateActiveStatus(ctx context.Context, id int64, isActive bool) (*domain.Correspondente, error) {
	stmt, args, err := r.builder.
		Update("correspondentes_servicos").
		Set("is_active", isActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + correspondenteColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update correspondente status sql: %w", err)
	}

	correspondente, err := scanCorrespondente(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update correspondente status: %w", err)
	}

	return correspondente, nil
}

func (r *CorrespondenteRepository) selectCorrespondentes() squirrel.SelectBuilder {
	return r.builder.
		Select("id", "nome_completo", "tipo", "oab", "rg", "cpf", "email", "telefone", "comarcas_atendidas", "senha_hash", "is_active", "created_at", "updated_at").
		From("correspondentes_servicos")
}

func scanCorrespondente(row pgx.Row) (*domain.Correspondente, error) {
	var correspondente domain.Correspondente
	if err := row.Scan(
		&correspondente.ID,
		&correspondente.NomeCompleto,
		&correspondente.Tipo,
		&correspondente.OAB,
		&correspondente.RG,
		&correspondente.CPF,
		&correspondente.Email,
		&correspondente.Telefone,
		&correspondente.ComarcasAtendidas,
		&correspondente.SenhaHash,
		&correspondente.IsActive,
		&correspondente.CreatedAt,
		&correspondente.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &correspondente, nil
}

var _ port.CorrespondenteRepository = (*CorrespondenteRepository)(nil)
