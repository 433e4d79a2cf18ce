package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/infra/storage"
	"github.com/medeiros27/diligencias-app/internal/repository"
)

type fakeAnexoRepo struct {
	mu        sync.Mutex
	anexos    []domain.Anexo
	createErr error
}

func (f *fakeAnexoRepo) Create(_ context.Context, anexo domain.Anexo) (*domain.Anexo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	anexo.ID = int64(len(f.anexos) + 1)
	f.anexos = append(f.anexos, anexo)
	return &anexo, nil
}

func (f *fakeAnexoRepo) ListByDemanda(_ context.Context, demandaID int64) ([]domain.Anexo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Anexo
	for _, a := range f.anexos {
		if a.DemandaID == demandaID {
			out = append(out, a)
		}
	}
	return out, nil
}

func multipartFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="arquivo"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["arquivo"][0]
}

type anexoFixture struct {
	svc       *AnexoService
	anexos    *fakeAnexoRepo
	logs      *fakeLogRepo
	publisher *fakePublisher
	audit     *AuditService
	dir       string
}

func newAnexoFixture(t *testing.T, maxSize int64, mimes []string, seed ...domain.Demanda) *anexoFixture {
	t.Helper()

	dir := t.TempDir()
	diskStorage, err := storage.NewDiskStorage(dir, maxSize, mimes)
	if err != nil {
		t.Fatalf("new disk storage: %v", err)
	}

	anexos := &fakeAnexoRepo{}
	logs := &fakeLogRepo{}
	publisher := &fakePublisher{}
	audit := NewAuditService(logs, zaptest.NewLogger(t))

	return &anexoFixture{
		svc:       NewAnexoService(anexos, newFakeDemandaRepo(seed...), diskStorage, publisher, audit),
		anexos:    anexos,
		logs:      logs,
		publisher: publisher,
		audit:     audit,
		dir:       dir,
	}
}

func TestAnexoUpload(t *testing.T) {
	fx := newAnexoFixture(t, 1<<20, []string{"application/pdf"},
		domain.Demanda{ID: 5, ClienteID: 10, Status: domain.StatusAguardandoDistribuicao},
	)
	ator := domain.Ator{ID: 10, Perfil: domain.PerfilCliente}
	file := multipartFile(t, "procuracao.pdf", "application/pdf", []byte("%PDF-1.4 conteudo"))

	anexo, err := fx.svc.Upload(context.Background(), ator, 5, file)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if anexo.DemandaID != 5 || anexo.UploaderID != 10 || anexo.UploaderPerfil != domain.PerfilCliente {
		t.Fatalf("anexo metadata = %+v", anexo)
	}
	if anexo.NomeOriginal != "procuracao.pdf" {
		t.Fatalf("nome original = %q", anexo.NomeOriginal)
	}
	if anexo.TamanhoBytes != int64(len("%PDF-1.4 conteudo")) {
		t.Fatalf("tamanho = %d", anexo.TamanhoBytes)
	}
	if _, err := os.Stat(anexo.PathArmazenamento); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	fx.audit.Close()
	entries := fx.logs.recorded()
	if len(entries) != 1 || entries[0].TipoLog != domain.LogUploadAnexo {
		t.Fatalf("audit entries = %+v, want one UPLOAD_ANEXO entry", entries)
	}
	if len(fx.publisher.anexos) != 1 || fx.publisher.anexos[0].AnexoID != anexo.ID {
		t.Fatalf("anexo events = %+v", fx.publisher.anexos)
	}
}

func TestAnexoUploadInvisibleDemanda(t *testing.T) {
	fx := newAnexoFixture(t, 1<<20, nil,
		domain.Demanda{ID: 5, ClienteID: 10},
	)
	file := multipartFile(t, "nota.pdf", "application/pdf", []byte("conteudo"))

	if _, err := fx.svc.Upload(context.Background(), domain.Ator{ID: 11, Perfil: domain.PerfilCliente}, 5, file); !errors.Is(err, ErrForbidden) {
		t.Fatalf("upload to other cliente's demanda: err = %v, want ErrForbidden", err)
	}
	if _, err := fx.svc.Upload(context.Background(), domain.Ator{ID: 10, Perfil: domain.PerfilCliente}, 404, file); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("upload to missing demanda: err = %v, want ErrNotFound", err)
	}
}

func TestAnexoUploadStorageLimits(t *testing.T) {
	fx := newAnexoFixture(t, 8, []string{"application/pdf"},
		domain.Demanda{ID: 5, ClienteID: 10},
	)
	ator := domain.Ator{ID: 10, Perfil: domain.PerfilCliente}

	big := multipartFile(t, "grande.pdf", "application/pdf", []byte("muito alem do limite"))
	if _, err := fx.svc.Upload(context.Background(), ator, 5, big); !errors.Is(err, storage.ErrFileTooLarge) {
		t.Fatalf("oversized upload: err = %v, want ErrFileTooLarge", err)
	}

	exe := multipartFile(t, "virus.exe", "application/octet-stream", []byte("x"))
	if _, err := fx.svc.Upload(context.Background(), ator, 5, exe); !errors.Is(err, storage.ErrInvalidMimeType) {
		t.Fatalf("disallowed mime: err = %v, want ErrInvalidMimeType", err)
	}

	if len(fx.anexos.anexos) != 0 {
		t.Fatalf("anexos persisted despite storage rejection: %+v", fx.anexos.anexos)
	}
}

func TestAnexoUploadRemovesFileWhenInsertFails(t *testing.T) {
	fx := newAnexoFixture(t, 1<<20, nil,
		domain.Demanda{ID: 5, ClienteID: 10},
	)
	fx.anexos.createErr = errors.New("insert failed")
	file := multipartFile(t, "nota.pdf", "application/pdf", []byte("conteudo"))

	if _, err := fx.svc.Upload(context.Background(), domain.Ator{ID: 10, Perfil: domain.PerfilCliente}, 5, file); err == nil {
		t.Fatal("upload succeeded despite failed insert")
	}

	leftovers, err := os.ReadDir(fx.dir)
	if err != nil {
		t.Fatalf("read storage dir: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("orphaned files on disk: %v", leftovers)
	}
}

func TestAnexoList(t *testing.T) {
	fx := newAnexoFixture(t, 1<<20, nil,
		domain.Demanda{ID: 5, ClienteID: 10, CorrespondenteID: int64Ptr(20)},
	)
	fx.anexos.anexos = []domain.Anexo{
		{ID: 1, DemandaID: 5, NomeOriginal: "a.pdf"},
		{ID: 2, DemandaID: 6, NomeOriginal: "b.pdf"},
	}

	got, err := fx.svc.List(context.Background(), domain.Ator{ID: 20, Perfil: domain.PerfilCorrespondente}, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].NomeOriginal != "a.pdf" {
		t.Fatalf("list = %+v, want only the demanda's anexo", got)
	}

	if _, err := fx.svc.List(context.Background(), domain.Ator{ID: 21, Perfil: domain.PerfilCorrespondente}, 5); !errors.Is(err, ErrForbidden) {
		t.Fatalf("list unassigned correspondente: err = %v, want ErrForbidden", err)
	}
}
