package port

import (
	"context"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
)

// AdminRepository exposes persistence operations for the admins table.
type AdminRepository interface {
	GetActiveByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

// ClienteUpdate carries the mutable profile fields of a cliente.
type ClienteUpdate struct {
	NomeCompleto string
	Escritorio   *string
	Telefone     string
	Email        string
}

// ClienteRepository exposes persistence operations for the clientes table.
type ClienteRepository interface {
	Create(ctx context.Context, cliente domain.Cliente) (*domain.Cliente, error)
	GetByID(ctx context.Context, id int64) (*domain.Cliente, error)
	GetActiveByEmail(ctx context.Context, email string) (*domain.Cliente, error)
	List(ctx context.Context) ([]domain.Cliente, error)
	Update(ctx context.Context, id int64, update ClienteUpdate) (*domain.Cliente, error)
	UpdateActiveStatus(ctx context.Context, id int64, isActive bool) (*domain.Cliente, error)
}

// CorrespondenteUpdate carries the mutable profile fields of a correspondente.
type CorrespondenteUpdate struct {
	NomeCompleto      string
	Tipo              domain.TipoCorrespondente
	OAB               *string
	RG                *string
	CPF               string
	Email             string
	Telefone          string
	ComarcasAtendidas string
}

// CorrespondenteRepository exposes persistence operations for the
// correspondentes_servicos table.
type CorrespondenteRepository interface {
	Create(ctx context.Context, correspondente domain.Correspondente) (*domain.Correspondente, error)
	GetByID(ctx context.Context, id int64) (*domain.Correspondente, error)
	GetActiveByEmail(ctx context.Context, email string) (*domain.Correspondente, error)
	List(ctx context.Context) ([]domain.Correspondente, error)
	Update(ctx context.Context, id int64, update CorrespondenteUpdate) (*domain.Correspondente, error)
	UpdateActiveStatus(ctx context.Context, id int64, isActive bool) (*domain.Correspondente, error)
}
