package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
)

const auditTimeout = 5 * time.Second

// AuditService records lifecycle actions off the request path. Every Record
// call returns immediately; persistence and event publication run in a
// background goroutine with their own deadline, detached from the request
// context. Failures are logged and swallowed: a lost audit entry never fails
// the action that produced it.
type AuditService struct {
	logs   port.LogRepository
	logger *zap.Logger

	wg sync.WaitGroup
}

// NewAuditService constructs an AuditService instance.
func NewAuditService(logs port.LogRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{logs: logs, logger: logger}
}

// Record appends the entry asynchronously. The optional publish callback is
// invoked after the entry is attempted, regardless of its outcome; it carries
// the lifecycle event to the message broker under the same deadline.
func (s *AuditService) Record(entry domain.LogAtividade, publish func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		if err := s.logs.Create(ctx, entry); err != nil {
			s.logger.Warn("audit entry dropped",
				zap.Int64("demanda_id", entry.DemandaID),
				zap.String("tipo_log", string(entry.TipoLog)),
				zap.Error(err),
			)
		}

		if publish != nil {
			if err := publish(ctx); err != nil {
				s.logger.Warn("lifecycle event dropped",
					zap.Int64("demanda_id", entry.DemandaID),
					zap.String("tipo_log", string(entry.TipoLog)),
					zap.Error(err),
				)
			}
		}
	}()
}

// Close blocks until every in-flight audit goroutine finishes. Called during
// graceful shutdown so pending entries are not lost with the process.
func (s *AuditService) Close() {
	s.wg.Wait()
}
