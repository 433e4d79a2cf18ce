package usecase

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
	"github.com/medeiros27/diligencias-app/internal/infra/storage"
)

// AnexoService handles attachment uploads and listing. Both operations reuse
// the demanda visibility guard: whoever can see a demanda can attach files to
// it and list its attachments.
type AnexoService struct {
	anexos    port.AnexoRepository
	demandas  port.DemandaRepository
	storage   *storage.DiskStorage
	publisher port.EventPublisher
	audit     *AuditService
}

// NewAnexoService constructs an AnexoService instance.
func NewAnexoService(
	anexos port.AnexoRepository,
	demandas port.DemandaRepository,
	diskStorage *storage.DiskStorage,
	publisher port.EventPublisher,
	audit *AuditService,
) *AnexoService {
	return &AnexoService{
		anexos:    anexos,
		demandas:  demandas,
		storage:   diskStorage,
		publisher: publisher,
		audit:     audit,
	}
}

// Upload stores the file on disk and records its metadata. Size and mime
// checks live in the storage layer; storage.ErrFileTooLarge and
// storage.ErrInvalidMimeType surface unchanged.
func (s *AnexoService) Upload(ctx context.Context, ator domain.Ator, demandaID int64, file *multipart.FileHeader) (*domain.Anexo, error) {
	demanda, err := s.demandas.GetByID(ctx, demandaID)
	if err != nil {
		return nil, err
	}
	if !demanda.VisibleTo(ator) {
		return nil, ErrForbidden
	}

	stored, err := s.storage.Save(demandaID, file)
	if err != nil {
		return nil, err
	}

	anexo, err := s.anexos.Create(ctx, domain.Anexo{
		DemandaID:         demandaID,
		UploaderID:        ator.ID,
		UploaderPerfil:    ator.Perfil,
		NomeOriginal:      stored.NomeOriginal,
		PathArmazenamento: stored.Path,
		TipoMime:          stored.TipoMime,
		TamanhoBytes:      stored.TamanhoBytes,
	})
	if err != nil {
		// Keep disk and metadata consistent: no row, no file.
		_ = os.Remove(stored.Path)
		return nil, fmt.Errorf("create anexo: %w", err)
	}

	event := domain.AnexoEnviadoEvent{
		DemandaID:    demandaID,
		AnexoID:      anexo.ID,
		NomeOriginal: anexo.NomeOriginal,
		Uploader:     ator,
		EnviadoEm:    anexo.CreatedAt,
	}
	s.audit.Record(domain.LogAtividade{
		DemandaID:  demandaID,
		AtorID:     ator.ID,
		AtorPerfil: ator.Perfil,
		TipoLog:    domain.LogUploadAnexo,
		Detalhes:   map[string]any{"nome_original": anexo.NomeOriginal, "tamanho_bytes": anexo.TamanhoBytes},
	}, func(ctx context.Context) error {
		return s.publisher.PublishAnexoEnviado(ctx, event)
	})

	return anexo, nil
}

// List returns the attachments of a demanda the actor may see.
func (s *AnexoService) List(ctx context.Context, ator domain.Ator, demandaID int64) ([]domain.Anexo, error) {
	demanda, err := s.demandas.GetByID(ctx, demandaID)
	if err != nil {
		return nil, err
	}
	if !demanda.VisibleTo(ator) {
		return nil, ErrForbidden
	}

	return s.anexos.ListByDemanda(ctx, demandaID)
}
