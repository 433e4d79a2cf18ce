package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
)

const anexoColumns = "id, demanda_id, uploader_id, uploader_perfil, nome_original, path_armazenamento, tipo_mime, tamanho_bytes, created_at"

// AnexoRepository implements port.AnexoRepository using PostgreSQL.
type AnexoRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAnexoRepository wires a PostgreSQL-backed anexo repository.
func NewAnexoRepository(exec pgExecutor) *AnexoRepository {
	return &AnexoRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists the metadata of a stored upload.
func (r *AnexoRepository) Create(ctx context.Context, anexo domain.Anexo) (*domain.Anexo, error) {
	stmt, args, err := r.builder.
		Insert("anexos_demandas").
		Columns("demanda_id", "uploader_id", "uploader_perfil", "nome_original", "path_armazenamento", "tipo_mime", "tamanho_bytes").
		Values(
			anexo.DemandaID,
			anexo.UploaderID,
			anexo.UploaderPerfil,
			anexo.NomeOriginal,
			anexo.PathArmazenamento,
			anexo.TipoMime,
			anexo.TamanhoBytes,
		).
		Suffix("RETURNING " + anexoColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert anexo sql: %w", err)
	}

	created, err := scanAnexo(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, fmt.Errorf("insert anexo: %w", err)
	}

	return created, nil
}

// ListByDemanda returns the anexos of a demanda, newest first.
func (r *AnexoRepository) ListByDemanda(ctx context.Context, demandaID int64) ([]domain.Anexo, error) {
	stmt, args, err := r.builder.
		Select("id", "demanda_id", "uploader_id", "uploader_perfil", "nome_original", "path_armazenamento", "tipo_mime", "tamanho_bytes", "created_at").
		From("anexos_demandas").
		Where(squirrel.Eq{"demanda_id": demandaID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list anexos sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list anexos: %w", err)
	}
	defer rows.Close()

	var anexos []domain.Anexo
	for rows.Next() {
		anexo, err := scanAnexo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan anexo: %w", err)
		}
		anexos = append(anexos, *anexo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate anexos: %w", err)
	}

	return anexos, nil
}

func scanAnexo(row pgx.Row) (*domain.Anexo, error) {
	var anexo domain.Anexo
	if err := row.Scan(
		&anexo.ID,
		&anexo.DemandaID,
		&anexo.UploaderID,
		&anexo.UploaderPerfil,
		&anexo.NomeOriginal,
		&anexo.PathArmazenamento,
		&anexo.TipoMime,
		&anexo.TamanhoBytes,
		&anexo.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &anexo, nil
}

var _ port.AnexoRepository = (*AnexoRepository)(nil)
