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

const clienteColumns = "id, nome_completo, escritorio, telefone, email, senha_hash, is_active, created_at, updated_at"

// ClienteRepository implements port.ClienteRepository using PostgreSQL.
type ClienteRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewClienteRepository wires a PostgreSQL-backed cliente repository.
func NewClienteRepository(exec pgExecutor) *ClienteRepository {
	return &ClienteRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new cliente row and returns the stored representation.
func (r *ClienteRepository) Create(ctx context.Context, cliente domain.Cliente) (*domain.Cliente, error) {
	stmt, args, err := r.builder.
		Insert("clientes").
		Columns("nome_completo", "escritorio", "telefone", "email", "senha_hash").
		Values(cliente.NomeCompleto, cliente.Escritorio, cliente.Telefone, cliente.Email, cliente.SenhaHash).
		Suffix("RETURNING " + clienteColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert cliente sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	created, err := scanCliente(row)
	if err != nil {
		return nil, fmt.Errorf("insert cliente: %w", err)
	}

	return created, nil
}

// GetByID retrieves a cliente by identifier.
func (r *ClienteRepository) GetByID(ctx context.Context, id int64) (*domain.Cliente, error) {
	stmt, args, err := r.selectClientes().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select cliente sql: %w", err)
	}

	cliente, err := scanCliente(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select cliente by id: %w", err)
	}

	return cliente, nil
}

// GetActiveByEmail retrieves an active cliente by email for authentication.
func (r *ClienteRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.Cliente, error) {
	stmt, args, err := r.selectClientes().Where(squirrel.Eq{"email": email, "is_active": true}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select cliente sql: %w", err)
	}

	cliente, err := scanCliente(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select cliente by email: %w", err)
	}

	return cliente, nil
}

// List returns all clientes ordered by display name.
func (r *ClienteRepository) List(ctx context.Context) ([]domain.Cliente, error) {
	stmt, args, err := r.selectClientes().OrderBy("nome_completo ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list clientes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer rows.Close()

	var clientes []domain.Cliente
	for rows.Next() {
		cliente, err := scanCliente(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		clientes = append(clientes, *cliente)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clientes: %w", err)
	}

	return clientes, nil
}

// Update rewrites the mutable profile fields of a cliente.
func (r *ClienteRepository) Update(ctx context.Context, id int64, update port.ClienteUpdate) (*domain.Cliente, error) {
	stmt, args, err := r.builder.
		Update("clientes").
		Set("nome_completo", update.NomeCompleto).
		Set("escritorio", update.Escritorio).
		Set("telefone", update.Telefone).
		Set("email", update.Email).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + clienteColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update cliente sql: %w", err)
	}

	cliente, err := scanCliente(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update cliente: %w", err)
	}

	return cliente, nil
}

// UpdateActiveStatus soft-activates or soft-deactivates a cliente. Rows are
// never hard-deleted.
func (r *ClienteRepository) UpdateActiveStatus(ctx context.Context, id int64, isActive bool) (*domain.Cliente, error) {
	stmt, args, err := r.builder.
		Update("clientes").
		Set("is_active", isActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + clienteColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update cliente status sql: %w", err)
	}

	cliente, err := scanCliente(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update cliente status: %w", err)
	}

	return cliente, nil
}

func (r *ClienteRepository) selectClientes() squirrel.SelectBuilder {
	return r.builder.
		Select("id", "nome_completo", "escritorio", "telefone", "email", "senha_hash", "is_active", "created_at", "updated_at").
		From("clientes")
}

func scanCliente(row pgx.Row) (*domain.Cliente, error) {
	var cliente domain.Cliente
	if err := row.Scan(
		&cliente.ID,
		&cliente.NomeCompleto,
		&cliente.Escritorio,
		&cliente.Telefone,
		&cliente.Email,
		&cliente.SenhaHash,
		&cliente.IsActive,
		&cliente.CreatedAt,
		&cliente.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cliente, nil
}

var _ port.ClienteRepository = (*ClienteRepository)(nil)
