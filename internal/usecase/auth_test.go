package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
	"github.com/medeiros27/diligencias-app/internal/infra/security"
	"github.com/medeiros27/diligencias-app/internal/repository"
)

type fakeAdminRepo struct {
	admins map[string]domain.Admin
}

func (f *fakeAdminRepo) GetActiveByEmail(_ context.Context, email string) (*domain.Admin, error) {
	if admin, ok := f.admins[email]; ok {
		return &admin, nil
	}
	return nil, repository.ErrNotFound
}

type fakeClienteRepo struct {
	clientes map[string]domain.Cliente
}

func (f *fakeClienteRepo) GetActiveByEmail(_ context.Context, email string) (*domain.Cliente, error) {
	if cliente, ok := f.clientes[email]; ok {
		return &cliente, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeClienteRepo) Create(context.Context, domain.Cliente) (*domain.Cliente, error) {
	return nil, errors.New("unexpected call")
}

func (f *fakeClienteRepo) GetByID(context.Context, int64) (*domain.Cliente, error) {
	return nil, errors.New("unexpected call")
}

func (f *fakeClienteRepo) List(context.Context) ([]domain.Cliente, error) {
	return nil, errors.New("unexpected call")
}

func (f *fakeClienteRepo) Update(context.Context, int64, port.ClienteUpdate) (*domain.Cliente, error) {
	return nil, errors.New("unexpected call")
}

func (f *fakeClienteRepo) UpdateActiveStatus(context.Context, int64, bool) (*domain.Cliente, error) {
	return nil, errors.New("unexpected call")
}

type fakeCorrespondenteRepo struct {
	correspondentes map[string]domain.Correspondente
	byID            map[int64]domain.Correspondente
}

func (f *fakeCorrespondenteRepo) GetActiveByEmail(_ context.Context, email string) (*domain.Correspondente, error) {
	if correspondente, ok := f.correspondentes[email]; ok {
		return &correspondente, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCorrespondenteRepo) GetByID(_ context.Context, id int64) (*domain.Correspondente, error) {
	if correspondente, ok := f.byID[id]; ok {
		return &correspondente, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCorrespondenteRepo) Create(context.Context, domain.Correspondente) (*domain.Correspondente, error) {
	return nil, errors.New("unexpected call")
}

func (f *fakeCorrespondenteRepo) List(context.Context) ([]domain.Correspondente, error) {
	return nil, errors.New("unexpected call")
}

func (f *fakeCorrespondenteRepo) Update(context.Context, int64, port.CorrespondenteUpdate) (*domain.Correspondente, error) {
	return nil, errors.New("unexpected call")
}

func (f *fakeCorrespondenteRepo) UpdateActiveStatus(context.Context, int64, bool) (*domain.Correspondente, error) {
	return nil, errors.New("unexpected call")
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func newTestTokenManager(t *testing.T) *security.TokenManager {
	t.Helper()
	tokens, err := security.NewTokenManager("unit-test-secret-0123456789", "diligencias-test", time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	return tokens
}

func TestAuthenticateCliente(t *testing.T) {
	tokens := newTestTokenManager(t)
	svc := NewAuthService(
		&fakeAdminRepo{},
		&fakeClienteRepo{clientes: map[string]domain.Cliente{
			"maria@escritorio.com": {
				ID:           7,
				NomeCompleto: "Maria Souza",
				Email:        "maria@escritorio.com",
				SenhaHash:    mustHash(t, "senha-forte-987"),
				IsActive:     true,
			},
		}},
		&fakeCorrespondenteRepo{},
		tokens,
	)

	token, principal, err := svc.Authenticate(context.Background(), "maria@escritorio.com", "senha-forte-987")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.Perfil != domain.PerfilCliente {
		t.Fatalf("perfil = %q, want %q", principal.Perfil, domain.PerfilCliente)
	}
	if principal.ID != 7 {
		t.Fatalf("principal id = %d, want 7", principal.ID)
	}
	if principal.SenhaHash != "" {
		t.Fatal("senha hash leaked on the authenticated principal")
	}

	claims, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.PrincipalID != 7 || claims.Perfil != domain.PerfilCliente || claims.Email != "maria@escritorio.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthenticateLookupPriority(t *testing.T) {
	// The same email exists in all three stores with three different
	// passwords. Only the admin row is reachable through login.
	email := "duplicado@exemplo.com"
	svc := NewAuthService(
		&fakeAdminRepo{admins: map[string]domain.Admin{
			email: {ID: 1, Nome: "Admin", Email: email, SenhaHash: mustHash(t, "senha-do-admin-1"), IsActive: true},
		}},
		&fakeClienteRepo{clientes: map[string]domain.Cliente{
			email: {ID: 2, NomeCompleto: "Cliente", Email: email, SenhaHash: mustHash(t, "senha-do-cliente-2"), IsActive: true},
		}},
		&fakeCorrespondenteRepo{correspondentes: map[string]domain.Correspondente{
			email: {ID: 3, NomeCompleto: "Correspondente", Email: email, SenhaHash: mustHash(t, "senha-do-corresp-3"), IsActive: true},
		}},
		newTestTokenManager(t),
	)

	_, principal, err := svc.Authenticate(context.Background(), email, "senha-do-admin-1")
	if err != nil {
		t.Fatalf("authenticate as admin: %v", err)
	}
	if principal.Perfil != domain.PerfilAdmin || principal.ID != 1 {
		t.Fatalf("got %s id=%d, want admin id=1", principal.Perfil, principal.ID)
	}

	// The shadowed cliente password no longer opens a session: the lookup
	// stops at the admin row and its hash does not match.
	if _, _, err := svc.Authenticate(context.Background(), email, "senha-do-cliente-2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("shadowed cliente login: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateClienteShadowsCorrespondente(t *testing.T) {
	email := "dupla@exemplo.com"
	svc := NewAuthService(
		&fakeAdminRepo{},
		&fakeClienteRepo{clientes: map[string]domain.Cliente{
			email: {ID: 21, NomeCompleto: "Cliente", Email: email, SenhaHash: mustHash(t, "senha-compartilhada-1"), IsActive: true},
		}},
		&fakeCorrespondenteRepo{correspondentes: map[string]domain.Correspondente{
			email: {ID: 33, NomeCompleto: "Correspondente", Email: email, SenhaHash: mustHash(t, "senha-compartilhada-1"), IsActive: true},
		}},
		newTestTokenManager(t),
	)

	_, principal, err := svc.Authenticate(context.Background(), email, "senha-compartilhada-1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.Perfil != domain.PerfilCliente || principal.ID != 21 {
		t.Fatalf("got %s id=%d, want cliente id=21", principal.Perfil, principal.ID)
	}
}

func TestAuthenticateInvalidCredentials(t *testing.T) {
	svc := NewAuthService(
		&fakeAdminRepo{},
		&fakeClienteRepo{clientes: map[string]domain.Cliente{
			"joana@exemplo.com": {ID: 4, Email: "joana@exemplo.com", SenhaHash: mustHash(t, "senha-correta-456"), IsActive: true},
		}},
		&fakeCorrespondenteRepo{},
		newTestTokenManager(t),
	)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "ninguem@exemplo.com", "qualquer-senha-1"},
		{"wrong password", "joana@exemplo.com", "senha-errada-999"},
		{"empty email", "", "senha-correta-456"},
		{"empty password", "joana@exemplo.com", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Authenticate(context.Background(), tc.email, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthenticateTrimsEmail(t *testing.T) {
	svc := NewAuthService(
		&fakeAdminRepo{},
		&fakeClienteRepo{clientes: map[string]domain.Cliente{
			"pedro@exemplo.com": {ID: 9, Email: "pedro@exemplo.com", SenhaHash: mustHash(t, "senha-do-pedro-77"), IsActive: true},
		}},
		&fakeCorrespondenteRepo{},
		newTestTokenManager(t),
	)

	_, principal, err := svc.Authenticate(context.Background(), "  pedro@exemplo.com  ", "senha-do-pedro-77")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.ID != 9 {
		t.Fatalf("principal id = %d, want 9", principal.ID)
	}
}
