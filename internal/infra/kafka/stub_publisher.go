package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// broker is configured.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, demandaID int64, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.Int64("demanda_id", demandaID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishDemandaCriada logs demanda.criada events.
func (p *StubPublisher) PublishDemandaCriada(_ context.Context, event domain.DemandaCriadaEvent) error {
	payload := map[string]any{
		"cliente_id": event.ClienteID,
		"titulo":     event.Titulo,
		"criada_em":  event.CriadaEm,
	}
	p.logEvent("demanda.criada", event.DemandaID, event.CriadaEm, payload)
	return nil
}

// PublishDemandaAtribuida logs demanda.atribuida events.
func (p *StubPublisher) PublishDemandaAtribuida(_ context.Context, event domain.DemandaAtribuidaEvent) error {
	payload := map[string]any{
		"correspondente_id": event.CorrespondenteID,
		"atribuida_por":     event.AtribuidaPor,
		"atribuida_em":      event.AtribuidaEm,
	}
	p.logEvent("demanda.atribuida", event.DemandaID, event.AtribuidaEm, payload)
	return nil
}

// PublishStatusAlterado logs demanda.status.alterado events.
func (p *StubPublisher) PublishStatusAlterado(_ context.Context, event domain.StatusAlteradoEvent) error {
	payload := map[string]any{
		"de":                  event.De,
		"para":                event.Para,
		"alterado_por_id":     event.AlteradoPor.ID,
		"alterado_por_perfil": event.AlteradoPor.Perfil,
		"alterado_em":         event.AlteradoEm,
	}
	p.logEvent("demanda.status.alterado", event.DemandaID, event.AlteradoEm, payload)
	return nil
}

// PublishAnexoEnviado logs demanda.anexo.enviado events.
func (p *StubPublisher) PublishAnexoEnviado(_ context.Context, event domain.AnexoEnviadoEvent) error {
	payload := map[string]any{
		"anexo_id":        event.AnexoID,
		"nome_original":   event.NomeOriginal,
		"uploader_id":     event.Uploader.ID,
		"uploader_perfil": event.Uploader.Perfil,
		"enviado_em":      event.EnviadoEm,
	}
	p.logEvent("demanda.anexo.enviado", event.DemandaID, event.EnviadoEm, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
