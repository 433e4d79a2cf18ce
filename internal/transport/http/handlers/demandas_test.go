package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
	"github.com/medeiros27/diligencias-app/internal/core/port"
	"github.com/medeiros27/diligencias-app/internal/repository"
	"github.com/medeiros27/diligencias-app/internal/transport/http/middleware"
	"github.com/medeiros27/diligencias-app/internal/usecase"
)

type stubDemandaRepo struct {
	mu       sync.Mutex
	demandas map[int64]domain.Demanda
	nextID   int64
}

func newStubDemandaRepo(seed ...domain.Demanda) *stubDemandaRepo {
	repo := &stubDemandaRepo{demandas: make(map[int64]domain.Demanda), nextID: 1}
	for _, d := range seed {
		repo.demandas[d.ID] = d
		if d.ID >= repo.nextID {
			repo.nextID = d.ID + 1
		}
	}
	return repo
}

func (s *stubDemandaRepo) Create(_ context.Context, nova port.NovaDemanda) (*domain.Demanda, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	demanda := domain.Demanda{
		ID:                   s.nextID,
		Titulo:               nova.Titulo,
		DescricaoCompleta:    nova.DescricaoCompleta,
		ValorPropostoCliente: nova.ValorPropostoCliente,
		DataDemanda:          now,
		Status:               domain.StatusAguardandoDistribuicao,
		ClienteID:            nova.ClienteID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.nextID++
	s.demandas[demanda.ID] = demanda
	return &demanda, nil
}

func (s *stubDemandaRepo) GetByID(_ context.Context, id int64) (*domain.Demanda, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	demanda, ok := s.demandas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &demanda, nil
}

func (s *stubDemandaRepo) ListAll(context.Context) ([]domain.Demanda, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Demanda, 0, len(s.demandas))
	for _, d := range s.demandas {
		out = append(out, d)
	}
	return out, nil
}

func (s *stubDemandaRepo) ListByCliente(_ context.Context, clienteID int64) ([]domain.Demanda, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Demanda
	for _, d := range s.demandas {
		if d.ClienteID == clienteID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *stubDemandaRepo) ListByCorrespondente(_ context.Context, correspondenteID int64) ([]domain.Demanda, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Demanda
	for _, d := range s.demandas {
		if d.IsAssignedTo(correspondenteID) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *stubDemandaRepo) Assign(_ context.Context, demandaID, correspondenteID int64) (*domain.Demanda, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	demanda, ok := s.demandas[demandaID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	demanda.CorrespondenteID = &correspondenteID
	demanda.Status = domain.StatusEmAndamento
	s.demandas[demandaID] = demanda
	return &demanda, nil
}

func (s *stubDemandaRepo) UpdateStatus(_ context.Context, demandaID int64, status domain.StatusDemanda) (*domain.Demanda, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	demanda, ok := s.demandas[demandaID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	demanda.Status = status
	s.demandas[demandaID] = demanda
	return &demanda, nil
}

type noopLogRepo struct{}

func (noopLogRepo) Create(context.Context, domain.LogAtividade) error { return nil }

type noopPublisher struct{}

func (noopPublisher) PublishDemandaCriada(context.Context, domain.DemandaCriadaEvent) error {
	return nil
}

func (noopPublisher) PublishDemandaAtribuida(context.Context, domain.DemandaAtribuidaEvent) error {
	return nil
}

func (noopPublisher) PublishStatusAlterado(context.Context, domain.StatusAlteradoEvent) error {
	return nil
}

func (noopPublisher) PublishAnexoEnviado(context.Context, domain.AnexoEnviadoEvent) error {
	return nil
}

func withAtor(ator domain.Ator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AtorKey, ator)
		c.Next()
	}
}

func newDemandaTestRouter(t *testing.T, ator domain.Ator, correspondentes stubCorrespondenteRepo, seed ...domain.Demanda) (*gin.Engine, *usecase.AuditService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	audit := usecase.NewAuditService(noopLogRepo{}, zaptest.NewLogger(t))
	svc := usecase.NewDemandaService(newStubDemandaRepo(seed...), correspondentes, noopPublisher{}, audit)

	r := gin.New()
	group := r.Group("/api/demandas")
	group.Use(withAtor(ator))
	NewDemandaHandler(svc).RegisterRoutes(group)
	return r, audit
}

func ptrInt64(v int64) *int64 { return &v }

func TestCreateDemandaEndpoint(t *testing.T) {
	r, audit := newDemandaTestRouter(t, domain.Ator{ID: 10, Perfil: domain.PerfilCliente}, stubCorrespondenteRepo{})
	defer audit.Close()

	w := postJSON(t, r, "/api/demandas", gin.H{
		"titulo":                 "Audiência de conciliação",
		"descricao_completa":     "Representação em audiência",
		"valor_proposto_cliente": 350,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp DemandaResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ClienteID != 10 || resp.Status != string(domain.StatusAguardandoDistribuicao) {
		t.Fatalf("response = %+v", resp)
	}
}

func TestCreateDemandaEndpointValidation(t *testing.T) {
	r, audit := newDemandaTestRouter(t, domain.Ator{ID: 10, Perfil: domain.PerfilCliente}, stubCorrespondenteRepo{})
	defer audit.Close()

	w := postJSON(t, r, "/api/demandas", gin.H{"titulo": "", "descricao_completa": ""})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Dados inválidos." || len(resp.Errors) == 0 {
		t.Fatalf("response = %+v", resp)
	}
}

func TestGetDemandaEndpointForbiddenForNonOwner(t *testing.T) {
	r, audit := newDemandaTestRouter(t, domain.Ator{ID: 11, Perfil: domain.PerfilCliente}, stubCorrespondenteRepo{},
		domain.Demanda{ID: 5, ClienteID: 10},
	)
	defer audit.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/demandas/5", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for another cliente's demanda", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Acesso negado." {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestGetDemandaEndpointNotFound(t *testing.T) {
	r, audit := newDemandaTestRouter(t, domain.Ator{ID: 11, Perfil: domain.PerfilCliente}, stubCorrespondenteRepo{})
	defer audit.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/demandas/5", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for a missing demanda", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Demanda não encontrada." {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestGetDemandaEndpointInvalidID(t *testing.T) {
	r, audit := newDemandaTestRouter(t, domain.Ator{ID: 1, Perfil: domain.PerfilAdmin}, stubCorrespondenteRepo{})
	defer audit.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/demandas/abc", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Identificador inválido." {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestAssignDemandaEndpoint(t *testing.T) {
	correspondentes := stubCorrespondenteRepo{byID: map[int64]domain.Correspondente{
		20: {ID: 20, NomeCompleto: "Carlos Lima", IsActive: true},
		21: {ID: 21, IsActive: false},
	}}
	r, audit := newDemandaTestRouter(t, domain.Ator{ID: 1, Perfil: domain.PerfilAdmin}, correspondentes,
		domain.Demanda{ID: 5, ClienteID: 10, Status: domain.StatusAguardandoDistribuicao},
	)
	defer audit.Close()

	req := httptest.NewRequest(http.MethodPatch, "/api/demandas/5/assign", bytes.NewReader([]byte(`{"correspondente_id":20}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp DemandaResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != string(domain.StatusEmAndamento) || resp.CorrespondenteID == nil || *resp.CorrespondenteID != 20 {
		t.Fatalf("response = %+v", resp)
	}

	// Inactive target is rejected with a client error, not a 500.
	req = httptest.NewRequest(http.MethodPatch, "/api/demandas/5/assign", bytes.NewReader([]byte(`{"correspondente_id":21}`)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for inactive correspondente", w.Code)
	}
}

func TestChangeStatusEndpoint(t *testing.T) {
	r, audit := newDemandaTestRouter(t, domain.Ator{ID: 20, Perfil: domain.PerfilCorrespondente}, stubCorrespondenteRepo{},
		domain.Demanda{ID: 5, ClienteID: 10, CorrespondenteID: ptrInt64(20), Status: domain.StatusEmAndamento},
	)
	defer audit.Close()

	req := httptest.NewRequest(http.MethodPatch, "/api/demandas/5/status", bytes.NewReader([]byte(`{"status":"Cumprida"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp DemandaResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != string(domain.StatusCumprida) {
		t.Fatalf("status = %q", resp.Status)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/demandas/5/status", bytes.NewReader([]byte(`{"status":"Arquivada"}`)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown status", w.Code)
	}
}

func TestListMineEndpoint(t *testing.T) {
	r, audit := newDemandaTestRouter(t, domain.Ator{ID: 10, Perfil: domain.PerfilCliente}, stubCorrespondenteRepo{},
		domain.Demanda{ID: 1, ClienteID: 10},
		domain.Demanda{ID: 2, ClienteID: 11},
	)
	defer audit.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/demandas/minhas", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp []DemandaResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != 1 {
		t.Fatalf("response = %+v, want only the owned demanda", resp)
	}
}
