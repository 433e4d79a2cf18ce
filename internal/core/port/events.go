package port

import (
	"context"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
)

// EventPublisher emits demanda lifecycle events for downstream consumers
// (reporting, notifications). Implementations must be safe for concurrent use;
// failures are reported to the caller, which treats delivery as best-effort.
type EventPublisher interface {
	PublishDemandaCriada(ctx context.Context, event domain.DemandaCriadaEvent) error
	PublishDemandaAtribuida(ctx context.Context, event domain.DemandaAtribuidaEvent) error
	PublishStatusAlterado(ctx context.Context, event domain.StatusAlteradoEvent) error
	PublishAnexoEnviado(ctx context.Context, event domain.AnexoEnviadoEvent) error
}
