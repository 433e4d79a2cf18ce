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

// AdminRepository implements port.AdminRepository using PostgreSQL.
type AdminRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAdminRepository wires a PostgreSQL-backed admin repository.
func NewAdminRepository(exec pgExecutor) *AdminRepository {
	return &AdminRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetActiveByEmail retrieves an active admin by email. Inactive rows are
// invisible to authentication.
func (r *AdminRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	stmt, args, err := r.builder.
		Select("id", "nome", "email", "senha_hash", "is_active", "created_at").
		From("admins").
		Where(squirrel.Eq{"email": email, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select admin sql: %w", err)
	}

	var admin domain.Admin
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&admin.ID, &admin.Nome, &admin.Email, &admin.SenhaHash, &admin.IsActive, &admin.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select admin by email: %w", err)
	}

	return &admin, nil
}

var _ port.AdminRepository = (*AdminRepository)(nil)
