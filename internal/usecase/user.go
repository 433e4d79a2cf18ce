package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
)

// UserService exposes the admin-facing management of cliente and
// correspondente accounts.
type UserService struct {
	clientes        port.ClienteRepository
	correspondentes port.CorrespondenteRepository
}

// NewUserService constructs a UserService instance.
func NewUserService(clientes port.ClienteRepository, correspondentes port.CorrespondenteRepository) *UserService {
	return &UserService{clientes: clientes, correspondentes: correspondentes}
}

// ListClientes returns every cliente, active or not. Admin only.
func (s *UserService) ListClientes(ctx context.Context, ator domain.Ator) ([]domain.Cliente, error) {
	if ator.Perfil != domain.PerfilAdmin {
		return nil, ErrForbidden
	}

	clientes, err := s.clientes.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clientes {
		clientes[i].SenhaHash = ""
	}
	return clientes, nil
}

// ListCorrespondentes returns every correspondente, active or not. Admin only.
func (s *UserService) ListCorrespondentes(ctx context.Context, ator domain.Ator) ([]domain.Correspondente, error) {
	if ator.Perfil != domain.PerfilAdmin {
		return nil, ErrForbidden
	}

	correspondentes, err := s.correspondentes.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range correspondentes {
		correspondentes[i].SenhaHash = ""
	}
	return correspondentes, nil
}

// UpdateCliente rewrites a cliente profile. Admins update anyone; a cliente
// may update only their own profile.
func (s *UserService) UpdateCliente(ctx context.Context, ator domain.Ator, id int64, update port.ClienteUpdate) (*domain.Cliente, error) {
	switch ator.Perfil {
	case domain.PerfilAdmin:
	case domain.PerfilCliente:
		if ator.ID != id {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	update.NomeCompleto = strings.TrimSpace(update.NomeCompleto)
	update.Email = normalizeEmail(update.Email)
	update.Telefone = strings.TrimSpace(update.Telefone)

	verr := &ValidationError{}
	if update.NomeCompleto == "" {
		verr.add("nome_completo", "nome completo é obrigatório")
	}
	if update.Email == "" || !strings.Contains(update.Email, "@") {
		verr.add("email", "email inválido")
	}
	if update.Telefone == "" {
		verr.add("telefone", "telefone é obrigatório")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	cliente, err := s.clientes.Update(ctx, id, update)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailEmUso
		}
		return nil, err
	}

	cliente.SenhaHash = ""
	return cliente, nil
}

// UpdateCorrespondente rewrites a correspondente profile. Admins update
// anyone; a correspondente may update only their own profile.
func (s *UserService) UpdateCorrespondente(ctx context.Context, ator domain.Ator, id int64, update port.CorrespondenteUpdate) (*domain.Correspondente, error) {
	switch ator.Perfil {
	case domain.PerfilAdmin:
	case domain.PerfilCorrespondente:
		if ator.ID != id {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	update.NomeCompleto = strings.TrimSpace(update.NomeCompleto)
	update.Email = normalizeEmail(update.Email)
	update.Telefone = strings.TrimSpace(update.Telefone)
	update.CPF = strings.TrimSpace(update.CPF)
	update.ComarcasAtendidas = strings.TrimSpace(update.ComarcasAtendidas)

	verr := &ValidationError{}
	if update.NomeCompleto == "" {
		verr.add("nome_completo", "nome completo é obrigatório")
	}
	if !update.Tipo.Valid() {
		verr.add("tipo", "tipo deve ser Advogado ou Preposto")
	}
	if update.Tipo == domain.TipoAdvogado && (update.OAB == nil || strings.TrimSpace(*update.OAB) == "") {
		verr.add("oab", "oab é obrigatória para advogados")
	}
	if update.CPF == "" {
		verr.add("cpf", "cpf é obrigatório")
	}
	if update.Email == "" || !strings.Contains(update.Email, "@") {
		verr.add("email", "email inválido")
	}
	if update.Telefone == "" {
		verr.add("telefone", "telefone é obrigatório")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	correspondente, err := s.correspondentes.Update(ctx, id, update)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "cpf") {
				return nil, ErrCPFEmUso
			}
			return nil, ErrEmailEmUso
		}
		return nil, err
	}

	correspondente.SenhaHash = ""
	return correspondente, nil
}

// SetClienteActive toggles a cliente's soft-delete flag. Admin only;
// deactivated accounts keep their rows and history but disappear from the
// login lookup.
func (s *UserService) SetClienteActive(ctx context.Context, ator domain.Ator, id int64, isActive bool) (*domain.Cliente, error) {
	if ator.Perfil != domain.PerfilAdmin {
		return nil, ErrForbidden
	}

	cliente, err := s.clientes.UpdateActiveStatus(ctx, id, isActive)
	if err != nil {
		return nil, fmt.Errorf("update cliente status: %w", err)
	}

	cliente.SenhaHash = ""
	return cliente, nil
}

// SetCorrespondenteActive toggles a correspondente's soft-delete flag. Admin
// only.
func (s *UserService) SetCorrespondenteActive(ctx context.Context, ator domain.Ator, id int64, isActive bool) (*domain.Correspondente, error) {
	if ator.Perfil != domain.PerfilAdmin {
		return nil, ErrForbidden
	}

	correspondente, err := s.correspondentes.UpdateActiveStatus(ctx, id, isActive)
	if err != nil {
		return nil, fmt.Errorf("update correspondente status: %w", err)
	}

	correspondente.SenhaHash = ""
	return correspondente, nil
}
