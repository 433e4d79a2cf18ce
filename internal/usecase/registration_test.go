package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/infra/security"
)

type createClienteRepo struct {
	fakeClienteRepo
	created []domain.Cliente
	err     error
}

func (f *createClienteRepo) Create(_ context.Context, cliente domain.Cliente) (*domain.Cliente, error) {
	if f.err != nil {
		return nil, f.err
	}
	cliente.ID = int64(len(f.created) + 1)
	f.created = append(f.created, cliente)
	return &cliente, nil
}

type createCorrespondenteRepo struct {
	fakeCorrespondenteRepo
	created []domain.Correspondente
	err     error
}

func (f *createCorrespondenteRepo) Create(_ context.Context, correspondente domain.Correspondente) (*domain.Correspondente, error) {
	if f.err != nil {
		return nil, f.err
	}
	correspondente.ID = int64(len(f.created) + 1)
	f.created = append(f.created, correspondente)
	return &correspondente, nil
}

func fieldNames(verr *ValidationError) map[string]bool {
	names := make(map[string]bool, len(verr.Fields))
	for _, f := range verr.Fields {
		names[f.Field] = true
	}
	return names
}

func TestRegisterCliente(t *testing.T) {
	clientes := &createClienteRepo{}
	svc := NewRegistrationService(clientes, &createCorrespondenteRepo{})

	cliente, err := svc.RegisterCliente(context.Background(), NovoCliente{
		NomeCompleto: "  Ana Pereira  ",
		Telefone:     "21 99999-0000",
		Email:        "Ana.Pereira@Escritorio.COM",
		Senha:        "trilha-segura-4821",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if cliente.Email != "ana.pereira@escritorio.com" {
		t.Fatalf("email = %q, normalization not applied", cliente.Email)
	}
	if cliente.NomeCompleto != "Ana Pereira" {
		t.Fatalf("nome = %q, trimming not applied", cliente.NomeCompleto)
	}
	if cliente.SenhaHash != "" {
		t.Fatal("senha hash leaked on the response")
	}

	if len(clientes.created) != 1 {
		t.Fatalf("created = %d rows, want 1", len(clientes.created))
	}
	stored := clientes.created[0]
	if ok, err := security.VerifyPassword("trilha-segura-4821", stored.SenhaHash); err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestRegisterClienteValidation(t *testing.T) {
	svc := NewRegistrationService(&createClienteRepo{}, &createCorrespondenteRepo{})

	_, err := svc.RegisterCliente(context.Background(), NovoCliente{
		NomeCompleto: "",
		Telefone:     "",
		Email:        "sem-arroba",
		Senha:        "12345678",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	names := fieldNames(verr)
	for _, want := range []string{"nome_completo", "telefone", "email", "senha"} {
		if !names[want] {
			t.Fatalf("missing field error %q in %+v", want, verr.Fields)
		}
	}
}

func TestRegisterClienteDuplicateEmail(t *testing.T) {
	clientes := &createClienteRepo{err: &pgconn.PgError{Code: "23505", ConstraintName: "clientes_email_key"}}
	svc := NewRegistrationService(clientes, &createCorrespondenteRepo{})

	_, err := svc.RegisterCliente(context.Background(), NovoCliente{
		NomeCompleto: "Ana Pereira",
		Telefone:     "21 99999-0000",
		Email:        "ana@escritorio.com",
		Senha:        "trilha-segura-4821",
	})
	if !errors.Is(err, ErrEmailEmUso) {
		t.Fatalf("err = %v, want ErrEmailEmUso", err)
	}
}

func TestRegisterCorrespondenteAdvogado(t *testing.T) {
	correspondentes := &createCorrespondenteRepo{}
	svc := NewRegistrationService(&createClienteRepo{}, correspondentes)
	oab := "RJ123456"

	correspondente, err := svc.RegisterCorrespondente(context.Background(), NovoCorrespondente{
		NomeCompleto:      "Bruno Costa",
		Tipo:              domain.TipoAdvogado,
		OAB:               &oab,
		CPF:               "123.456.789-00",
		Email:             "bruno@adv.br",
		Telefone:          "21 98888-7777",
		ComarcasAtendidas: "Rio de Janeiro, Niterói",
		Senha:             "diligencia-firme-93",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if correspondente.OAB == nil || *correspondente.OAB != oab {
		t.Fatalf("oab = %v, want %q", correspondente.OAB, oab)
	}
	if correspondente.SenhaHash != "" {
		t.Fatal("senha hash leaked on the response")
	}
}

func TestRegisterCorrespondenteAdvogadoRequiresOAB(t *testing.T) {
	svc := NewRegistrationService(&createClienteRepo{}, &createCorrespondenteRepo{})

	_, err := svc.RegisterCorrespondente(context.Background(), NovoCorrespondente{
		NomeCompleto:      "Bruno Costa",
		Tipo:              domain.TipoAdvogado,
		CPF:               "123.456.789-00",
		Email:             "bruno@adv.br",
		Telefone:          "21 98888-7777",
		ComarcasAtendidas: "Rio de Janeiro",
		Senha:             "diligencia-firme-93",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if !fieldNames(verr)["oab"] {
		t.Fatalf("missing oab field error in %+v", verr.Fields)
	}
}

func TestRegisterCorrespondentePrepostoDropsOAB(t *testing.T) {
	correspondentes := &createCorrespondenteRepo{}
	svc := NewRegistrationService(&createClienteRepo{}, correspondentes)
	oab := "RJ123456"

	correspondente, err := svc.RegisterCorrespondente(context.Background(), NovoCorrespondente{
		NomeCompleto:      "Carla Dias",
		Tipo:              domain.TipoPreposto,
		OAB:               &oab,
		CPF:               "987.654.321-00",
		Email:             "carla@exemplo.com",
		Telefone:          "11 97777-6666",
		ComarcasAtendidas: "São Paulo",
		Senha:             "comparecimento-firme-8",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if correspondente.OAB != nil {
		t.Fatalf("oab = %q, want nil for prepostos", *correspondente.OAB)
	}
}

func TestRegisterCorrespondenteUniqueViolations(t *testing.T) {
	cases := []struct {
		name       string
		constraint string
		want       error
	}{
		{"duplicate cpf", "correspondentes_servicos_cpf_key", ErrCPFEmUso},
		{"duplicate email", "correspondentes_servicos_email_key", ErrEmailEmUso},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			correspondentes := &createCorrespondenteRepo{err: &pgconn.PgError{Code: "23505", ConstraintName: tc.constraint}}
			svc := NewRegistrationService(&createClienteRepo{}, correspondentes)

			_, err := svc.RegisterCorrespondente(context.Background(), NovoCorrespondente{
				NomeCompleto:      "Bruno Costa",
				Tipo:              domain.TipoPreposto,
				CPF:               "123.456.789-00",
				Email:             "bruno@exemplo.com",
				Telefone:          "21 98888-7777",
				ComarcasAtendidas: "Rio de Janeiro",
				Senha:             "diligencia-firme-93",
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
