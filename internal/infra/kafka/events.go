package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
	"github.com/medeiros27/diligencias-app/internal/infra/config"
	"github.com/medeiros27/diligencias-app/internal/infra/logger"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, log *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: log}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	DemandaID int64            `json:"demanda_id"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType string, demandaID int64, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if requestID, ok := ctx.Value(logger.RequestIDKey{}).(string); ok && requestID != "" {
		metadata["request_id"] = requestID
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		DemandaID: demandaID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishDemandaCriada publishes demanda.criada events.
func (p *EventPublisher) PublishDemandaCriada(ctx context.Context, event domain.DemandaCriadaEvent) error {
	payload := struct {
		DemandaID int64     `json:"demanda_id"`
		ClienteID int64     `json:"cliente_id"`
		Titulo    string    `json:"titulo"`
		CriadaEm  time.Time `json:"criada_em"`
	}{
		DemandaID: event.DemandaID,
		ClienteID: event.ClienteID,
		Titulo:    event.Titulo,
		CriadaEm:  event.CriadaEm.UTC(),
	}

	return p.publish(ctx, event.EventID, "demanda.criada", event.DemandaID, event.CriadaEm, payload)
}

// PublishDemandaAtribuida publishes demanda.atribuida events.
func (p *EventPublisher) PublishDemandaAtribuida(ctx context.Context, event domain.DemandaAtribuidaEvent) error {
	payload := struct {
		DemandaID        int64     `json:"demanda_id"`
		CorrespondenteID int64     `json:"correspondente_id"`
		AtribuidaPor     int64     `json:"atribuida_por"`
		AtribuidaEm      time.Time `json:"atribuida_em"`
	}{
		DemandaID:        event.DemandaID,
		CorrespondenteID: event.CorrespondenteID,
		AtribuidaPor:     event.AtribuidaPor,
		AtribuidaEm:      event.AtribuidaEm.UTC(),
	}

	return p.publish(ctx, event.EventID, "demanda.atribuida", event.DemandaID, event.AtribuidaEm, payload)
}

// PublishStatusAlterado publishes demanda.status.alterado events.
func (p *EventPublisher) PublishStatusAlterado(ctx context.Context, event domain.StatusAlteradoEvent) error {
	payload := struct {
		DemandaID       int64     `json:"demanda_id"`
		De              string    `json:"de"`
		Para            string    `json:"para"`
		AlteradoPorID   int64     `json:"alterado_por_id"`
		AlteradoPorTipo string    `json:"alterado_por_perfil"`
		AlteradoEm      time.Time `json:"alterado_em"`
	}{
		DemandaID:       event.DemandaID,
		De:              string(event.De),
		Para:            string(event.Para),
		AlteradoPorID:   event.AlteradoPor.ID,
		AlteradoPorTipo: string(event.AlteradoPor.Perfil),
		AlteradoEm:      event.AlteradoEm.UTC(),
	}

	return p.publish(ctx, event.EventID, "demanda.status.alterado", event.DemandaID, event.AlteradoEm, payload)
}

// PublishAnexoEnviado publishes demanda.anexo.enviado events.
func (p *EventPublisher) PublishAnexoEnviado(ctx context.Context, event domain.AnexoEnviadoEvent) error {
	payload := struct {
		DemandaID      int64     `json:"demanda_id"`
		AnexoID        int64     `json:"anexo_id"`
		NomeOriginal   string    `json:"nome_original"`
		UploaderID     int64     `json:"uploader_id"`
		UploaderPerfil string    `json:"uploader_perfil"`
		EnviadoEm      time.Time `json:"enviado_em"`
	}{
		DemandaID:      event.DemandaID,
		AnexoID:        event.AnexoID,
		NomeOriginal:   event.NomeOriginal,
		UploaderID:     event.Uploader.ID,
		UploaderPerfil: string(event.Uploader.Perfil),
		EnviadoEm:      event.EnviadoEm.UTC(),
	}

	return p.publish(ctx, event.EventID, "demanda.anexo.enviado", event.DemandaID, event.EnviadoEm, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
