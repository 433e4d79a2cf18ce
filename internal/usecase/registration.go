package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
	"github.com/medeiros27/diligencias-app/internal/infra/security"
)

var (
	// ErrEmailEmUso indicates the email already belongs to a row in the same
	// store. Duplicates across stores are not checked here; the login lookup
	// order resolves those.
	ErrEmailEmUso = errors.New("email já cadastrado")
	// ErrCPFEmUso indicates the CPF already belongs to another correspondente.
	ErrCPFEmUso = errors.New("cpf já cadastrado")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates per-field input violations.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NovoCliente carries the public self-registration input for clientes.
type NovoCliente struct {
	NomeCompleto string
	Escritorio   *string
	Telefone     string
	Email        string
	Senha        string
}

// NovoCorrespondente carries the public self-registration input for
// correspondentes.
type NovoCorrespondente struct {
	NomeCompleto      string
	Tipo              domain.TipoCorrespondente
	OAB               *string
	RG                *string
	CPF               string
	Email             string
	Telefone          string
	ComarcasAtendidas string
	Senha             string
}

// RegistrationService creates cliente and correspondente accounts.
type RegistrationService struct {
	clientes        port.ClienteRepository
	correspondentes port.CorrespondenteRepository
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(clientes port.ClienteRepository, correspondentes port.CorrespondenteRepository) *RegistrationService {
	return &RegistrationService{clientes: clientes, correspondentes: correspondentes}
}

// RegisterCliente validates the input, hashes the password and persists a new
// cliente.
func (s *RegistrationService) RegisterCliente(ctx context.Context, input NovoCliente) (*domain.Cliente, error) {
	input.NomeCompleto = strings.TrimSpace(input.NomeCompleto)
	input.Email = normalizeEmail(input.Email)
	input.Telefone = strings.TrimSpace(input.Telefone)

	verr := &ValidationError{}
	if input.NomeCompleto == "" {
		verr.add("nome_completo", "nome completo é obrigatório")
	}
	if input.Email == "" {
		verr.add("email", "email é obrigatório")
	} else if !strings.Contains(input.Email, "@") {
		verr.add("email", "email inválido")
	}
	if input.Telefone == "" {
		verr.add("telefone", "telefone é obrigatório")
	}
	if err := security.DefaultPasswordValidator(input.NomeCompleto, input.Email).Validate(input.Senha); err != nil {
		verr.add("senha", err.Error())
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Senha)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	cliente, err := s.clientes.Create(ctx, domain.Cliente{
		NomeCompleto: input.NomeCompleto,
		Escritorio:   input.Escritorio,
		Telefone:     input.Telefone,
		Email:        input.Email,
		SenhaHash:    hash,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailEmUso
		}
		return nil, fmt.Errorf("create cliente: %w", err)
	}

	cliente.SenhaHash = ""
	return cliente, nil
}

// RegisterCorrespondente validates the input, hashes the password and persists
// a new correspondente. OAB is required for advogados and ignored otherwise.
func (s *RegistrationService) RegisterCorrespondente(ctx context.Context, input NovoCorrespondente) (*domain.Correspondente, error) {
	input.NomeCompleto = strings.TrimSpace(input.NomeCompleto)
	input.Email = normalizeEmail(input.Email)
	input.Telefone = strings.TrimSpace(input.Telefone)
	input.CPF = strings.TrimSpace(input.CPF)
	input.ComarcasAtendidas = strings.TrimSpace(input.ComarcasAtendidas)

	verr := &ValidationError{}
	if input.NomeCompleto == "" {
		verr.add("nome_completo", "nome completo é obrigatório")
	}
	if !input.Tipo.Valid() {
		verr.add("tipo", "tipo deve ser Advogado ou Preposto")
	}
	if input.Tipo == domain.TipoAdvogado && (input.OAB == nil || strings.TrimSpace(*input.OAB) == "") {
		verr.add("oab", "oab é obrigatória para advogados")
	}
	if input.CPF == "" {
		verr.add("cpf", "cpf é obrigatório")
	}
	if input.Email == "" {
		verr.add("email", "email é obrigatório")
	} else if !strings.Contains(input.Email, "@") {
		verr.add("email", "email inválido")
	}
	if input.Telefone == "" {
		verr.add("telefone", "telefone é obrigatório")
	}
	if input.ComarcasAtendidas == "" {
		verr.add("comarcas_atendidas", "comarcas atendidas é obrigatório")
	}
	if err := security.DefaultPasswordValidator(input.NomeCompleto, input.Email).Validate(input.Senha); err != nil {
		verr.add("senha", err.Error())
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if input.Tipo != domain.TipoAdvogado {
		input.OAB = nil
	}

	hash, err := security.HashPassword(input.Senha)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	correspondente, err := s.correspondentes.Create(ctx, domain.Correspondente{
		NomeCompleto:      input.NomeCompleto,
		Tipo:              input.Tipo,
		OAB:               input.OAB,
		RG:                input.RG,
		CPF:               input.CPF,
		Email:             input.Email,
		Telefone:          input.Telefone,
		ComarcasAtendidas: input.ComarcasAtendidas,
		SenhaHash:         hash,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "cpf") {
				return nil, ErrCPFEmUso
			}
			return nil, ErrEmailEmUso
		}
		return nil, fmt.Errorf("create correspondente: %w", err)
	}

	correspondente.SenhaHash = ""
	return correspondente, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
