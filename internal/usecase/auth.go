package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
	"github.com/medeiros27/diligencias-app/internal/infra/security"
	"github.com/medeiros27/diligencias-app/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the email or password is incorrect.
	// Unknown email, inactive account and wrong password all collapse to
	// this error so responses never reveal which store matched.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService authenticates principals against the three profile stores and
// issues session tokens.
type AuthService struct {
	admins          port.AdminRepository
	clientes        port.ClienteRepository
	correspondentes port.CorrespondenteRepository
	tokens          *security.TokenManager
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	admins port.AdminRepository,
	clientes port.ClienteRepository,
	correspondentes port.CorrespondenteRepository,
	tokens *security.TokenManager,
) *AuthService {
	return &AuthService{
		admins:          admins,
		clientes:        clientes,
		correspondentes: correspondentes,
		tokens:          tokens,
	}
}

// Authenticate resolves the email across the profile stores in fixed priority
// order (admin, cliente, correspondente), verifies the password against the
// first match and issues a signed session token. The lookup stops at the first
// hit: when the same email exists in more than one store, the higher-priority
// identity always wins and the shadowed row is unreachable through login.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, domain.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", domain.Principal{}, ErrInvalidCredentials
	}

	principal, err := s.lookup(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.Principal{}, ErrInvalidCredentials
		}
		return "", domain.Principal{}, fmt.Errorf("lookup principal: %w", err)
	}

	ok, err := security.VerifyPassword(password, principal.SenhaHash)
	if err != nil {
		return "", domain.Principal{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", domain.Principal{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(principal)
	if err != nil {
		return "", domain.Principal{}, fmt.Errorf("sign token: %w", err)
	}

	principal.SenhaHash = ""
	return token, principal, nil
}

func (s *AuthService) lookup(ctx context.Context, email string) (domain.Principal, error) {
	admin, err := s.admins.GetActiveByEmail(ctx, email)
	if err == nil {
		return domain.Principal{
			ID:        admin.ID,
			Nome:      admin.Nome,
			Email:     admin.Email,
			SenhaHash: admin.SenhaHash,
			Perfil:    domain.PerfilAdmin,
		}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.Principal{}, err
	}

	cliente, err := s.clientes.GetActiveByEmail(ctx, email)
	if err == nil {
		return domain.Principal{
			ID:        cliente.ID,
			Nome:      cliente.NomeCompleto,
			Email:     cliente.Email,
			SenhaHash: cliente.SenhaHash,
			Perfil:    domain.PerfilCliente,
		}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.Principal{}, err
	}

	correspondente, err := s.correspondentes.GetActiveByEmail(ctx, email)
	if err == nil {
		return domain.Principal{
			ID:        correspondente.ID,
			Nome:      correspondente.NomeCompleto,
			Email:     correspondente.Email,
			SenhaHash: correspondente.SenhaHash,
			Perfil:    domain.PerfilCorrespondente,
		}, nil
	}

	return domain.Principal{}, err
}
