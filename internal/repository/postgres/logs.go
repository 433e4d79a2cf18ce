package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
)

// LogRepository implements port.LogRepository using PostgreSQL. The table is
// append-only: no update or delete statement exists here.
type LogRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewLogRepository wires a PostgreSQL-backed audit log repository.
func NewLogRepository(exec pgExecutor) *LogRepository {
	return &LogRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create appends one audit entry. Detalhes is stored as jsonb.
func (r *LogRepository) Create(ctx context.Context, entry domain.LogAtividade) error {
	detalhes, err := json.Marshal(entry.Detalhes)
	if err != nil {
		return fmt.Errorf("marshal log detalhes: %w", err)
	}

	stmt, args, err := r.builder.
		Insert("log_atividades").
		Columns("demanda_id", "ator_id", "ator_perfil", "tipo_log", "detalhes").
		Values(entry.DemandaID, entry.AtorID, entry.AtorPerfil, entry.TipoLog, detalhes).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert log sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert log: %w", err)
	}

	return nil
}

var _ port.LogRepository = (*LogRepository)(nil)
