package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
	"github.com/medeiros27/diligencias-app/internal/repository"
)

var (
	// ErrForbidden indicates the actor's perfil or record relationship does
	// not allow the operation.
	ErrForbidden = errors.New("operação não permitida")
	// ErrStatusInvalido indicates the requested status is not a member of
	// the closed enumeration.
	ErrStatusInvalido = errors.New("status inválido")
	// ErrCorrespondenteInvalido indicates the assignment target does not
	// exist or is deactivated.
	ErrCorrespondenteInvalido = errors.New("correspondente inválido")
)

// NovaDemandaInput is the caller-facing creation payload.
type NovaDemandaInput struct {
	Titulo               string
	DescricaoCompleta    string
	NumeroProcesso       *string
	TipoDemanda          *string
	PrazoFatal           *time.Time
	ValorPropostoCliente float64
}

// DemandaService implements the demanda lifecycle: creation, listing,
// assignment and status changes, with the ownership guards evaluated in a
// fixed order (existence, then relationship, then input validity).
type DemandaService struct {
	demandas        port.DemandaRepository
	correspondentes port.CorrespondenteRepository
	publisher       port.EventPublisher
	audit           *AuditService
}

// NewDemandaService constructs a DemandaService instance.
func NewDemandaService(
	demandas port.DemandaRepository,
	correspondentes port.CorrespondenteRepository,
	publisher port.EventPublisher,
	audit *AuditService,
) *DemandaService {
	return &DemandaService{
		demandas:        demandas,
		correspondentes: correspondentes,
		publisher:       publisher,
		audit:           audit,
	}
}

// Create registers a new demanda owned by the acting cliente. Only clientes
// create demandas; the owner is always the actor, never a request field.
func (s *DemandaService) Create(ctx context.Context, ator domain.Ator, input NovaDemandaInput) (*domain.Demanda, error) {
	if ator.Perfil != domain.PerfilCliente {
		return nil, ErrForbidden
	}

	input.Titulo = strings.TrimSpace(input.Titulo)
	input.DescricaoCompleta = strings.TrimSpace(input.DescricaoCompleta)

	verr := &ValidationError{}
	if input.Titulo == "" {
		verr.add("titulo", "título é obrigatório")
	}
	if input.DescricaoCompleta == "" {
		verr.add("descricao_completa", "descrição é obrigatória")
	}
	if input.ValorPropostoCliente < 0 {
		verr.add("valor_proposto_cliente", "valor não pode ser negativo")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	demanda, err := s.demandas.Create(ctx, port.NovaDemanda{
		Titulo:               input.Titulo,
		DescricaoCompleta:    input.DescricaoCompleta,
		NumeroProcesso:       input.NumeroProcesso,
		TipoDemanda:          input.TipoDemanda,
		PrazoFatal:           input.PrazoFatal,
		ValorPropostoCliente: input.ValorPropostoCliente,
		ClienteID:            ator.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create demanda: %w", err)
	}

	event := domain.DemandaCriadaEvent{
		DemandaID: demanda.ID,
		ClienteID: demanda.ClienteID,
		Titulo:    demanda.Titulo,
		CriadaEm:  demanda.CreatedAt,
	}
	s.audit.Record(domain.LogAtividade{
		DemandaID:  demanda.ID,
		AtorID:     ator.ID,
		AtorPerfil: ator.Perfil,
		TipoLog:    domain.LogCriacao,
		Detalhes:   map[string]any{"titulo": demanda.Titulo},
	}, func(ctx context.Context) error {
		return s.publisher.PublishDemandaCriada(ctx, event)
	})

	return demanda, nil
}

// ListAll returns every demanda. Admin only.
func (s *DemandaService) ListAll(ctx context.Context, ator domain.Ator) ([]domain.Demanda, error) {
	if ator.Perfil != domain.PerfilAdmin {
		return nil, ErrForbidden
	}
	return s.demandas.ListAll(ctx)
}

// ListMine returns the demandas visible to the actor: owned ones for
// clientes, assigned ones for correspondentes, everything for admins.
func (s *DemandaService) ListMine(ctx context.Context, ator domain.Ator) ([]domain.Demanda, error) {
	switch ator.Perfil {
	case domain.PerfilAdmin:
		return s.demandas.ListAll(ctx)
	case domain.PerfilCliente:
		return s.demandas.ListByCliente(ctx, ator.ID)
	case domain.PerfilCorrespondente:
		return s.demandas.ListByCorrespondente(ctx, ator.ID)
	}
	return nil, ErrForbidden
}

// GetByID returns one demanda if the actor may see it. Existence is checked
// before the relationship, so a missing id reads as not found and an existing
// demanda outside the actor's relationship reads as forbidden.
func (s *DemandaService) GetByID(ctx context.Context, ator domain.Ator, id int64) (*domain.Demanda, error) {
	demanda, err := s.demandas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !demanda.VisibleTo(ator) {
		return nil, ErrForbidden
	}
	return demanda, nil
}

// Assign distributes a demanda to a correspondente. Admin only. The target
// must exist and be active; the update atomically sets the assignment and
// moves the status to Em Andamento.
func (s *DemandaService) Assign(ctx context.Context, ator domain.Ator, demandaID, correspondenteID int64) (*domain.Demanda, error) {
	if ator.Perfil != domain.PerfilAdmin {
		return nil, ErrForbidden
	}

	if _, err := s.demandas.GetByID(ctx, demandaID); err != nil {
		return nil, err
	}

	correspondente, err := s.correspondentes.GetByID(ctx, correspondenteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCorrespondenteInvalido
		}
		return nil, fmt.Errorf("lookup correspondente: %w", err)
	}
	if !correspondente.IsActive {
		return nil, ErrCorrespondenteInvalido
	}

	demanda, err := s.demandas.Assign(ctx, demandaID, correspondenteID)
	if err != nil {
		return nil, err
	}

	event := domain.DemandaAtribuidaEvent{
		DemandaID:        demanda.ID,
		CorrespondenteID: correspondenteID,
		AtribuidaPor:     ator.ID,
		AtribuidaEm:      demanda.UpdatedAt,
	}
	s.audit.Record(domain.LogAtividade{
		DemandaID:  demanda.ID,
		AtorID:     ator.ID,
		AtorPerfil: ator.Perfil,
		TipoLog:    domain.LogAtribuicao,
		Detalhes:   map[string]any{"correspondente_id": correspondenteID},
	}, func(ctx context.Context) error {
		return s.publisher.PublishDemandaAtribuida(ctx, event)
	})

	return demanda, nil
}

// ChangeStatus moves a demanda to another status. Admins may change any
// demanda; a correspondente only the ones assigned to them; clientes never.
// Membership in the status enumeration is enforced, the transition order is
// not: any authorized actor may set any valid status at any time.
func (s *DemandaService) ChangeStatus(ctx context.Context, ator domain.Ator, demandaID int64, status domain.StatusDemanda) (*domain.Demanda, error) {
	demanda, err := s.demandas.GetByID(ctx, demandaID)
	if err != nil {
		return nil, err
	}

	switch ator.Perfil {
	case domain.PerfilAdmin:
	case domain.PerfilCorrespondente:
		if !demanda.IsAssignedTo(ator.ID) {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	if !status.Valid() {
		return nil, ErrStatusInvalido
	}

	anterior := demanda.Status
	updated, err := s.demandas.UpdateStatus(ctx, demandaID, status)
	if err != nil {
		return nil, err
	}

	event := domain.StatusAlteradoEvent{
		DemandaID:   updated.ID,
		De:          anterior,
		Para:        status,
		AlteradoPor: ator,
		AlteradoEm:  updated.UpdatedAt,
	}
	s.audit.Record(domain.LogAtividade{
		DemandaID:  updated.ID,
		AtorID:     ator.ID,
		AtorPerfil: ator.Perfil,
		TipoLog:    domain.LogMudancaStatus,
		Detalhes:   map[string]any{"de": string(anterior), "para": string(status)},
	}, func(ctx context.Context) error {
		return s.publisher.PublishStatusAlterado(ctx, event)
	})

	return updated, nil
}
