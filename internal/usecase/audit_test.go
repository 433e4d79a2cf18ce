package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
)

func TestAuditRecordAndDrain(t *testing.T) {
	logs := &fakeLogRepo{}
	svc := NewAuditService(logs, zaptest.NewLogger(t))

	for i := int64(1); i <= 5; i++ {
		svc.Record(domain.LogAtividade{
			DemandaID:  i,
			AtorID:     10,
			AtorPerfil: domain.PerfilCliente,
			TipoLog:    domain.LogCriacao,
		}, nil)
	}

	svc.Close()
	if entries := logs.recorded(); len(entries) != 5 {
		t.Fatalf("entries = %d, want all 5 after drain", len(entries))
	}
}

func TestAuditRecordRunsPublishAfterFailedInsert(t *testing.T) {
	logs := &fakeLogRepo{err: errors.New("insert failed")}
	svc := NewAuditService(logs, zaptest.NewLogger(t))

	published := make(chan struct{}, 1)
	svc.Record(domain.LogAtividade{DemandaID: 1, TipoLog: domain.LogMudancaStatus}, func(context.Context) error {
		published <- struct{}{}
		return nil
	})

	svc.Close()
	select {
	case <-published:
	default:
		t.Fatal("publish callback skipped after insert failure")
	}
}
