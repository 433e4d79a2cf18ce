package domain

import "time"

// StatusDemanda is the closed status enumeration of a demanda. Membership is
// validated on every status write; the transition ORDER is intentionally not
// validated, so any authorized actor may set any member in any sequence.
type StatusDemanda string

const (
	// StatusAguardandoDistribuicao is the initial state of every demanda;
	// it is the only state in which correspondente_id may be NULL.
	StatusAguardandoDistribuicao StatusDemanda = "Aguardando Distribuição"
	StatusEmAndamento            StatusDemanda = "Em Andamento"
	StatusCumprida               StatusDemanda = "Cumprida"
	StatusCancelada              StatusDemanda = "Cancelada"
)

// Valid reports whether the status is a member of the closed enumeration.
func (s StatusDemanda) Valid() bool {
	switch s {
	case StatusAguardandoDistribuicao, StatusEmAndamento, StatusCumprida, StatusCancelada:
		return true
	}
	return false
}

// Demanda is a client-submitted legal correspondent service request.
type Demanda struct {
	ID                   int64
	Titulo               string
	DescricaoCompleta    string
	NumeroProcesso       *string
	TipoDemanda          *string
	PrazoFatal           *time.Time
	ValorPropostoCliente float64
	ValorReceber         float64
	ValorPagar           float64
	Recebido             bool
	Pago                 bool
	DataDemanda          time.Time
	Status               StatusDemanda
	ClienteID            int64
	CorrespondenteID     *int64
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Joined display fields, populated by lookups that join the profile
	// tables. Empty on plain writes.
	NomeCliente         string
	EmailCliente        string
	NomeCorrespondente  *string
	EmailCorrespondente *string
}

// IsAssignedTo reports whether the demanda is currently assigned to the given
// correspondente.
func (d Demanda) IsAssignedTo(correspondenteID int64) bool {
	return d.CorrespondenteID != nil && *d.CorrespondenteID == correspondenteID
}

// IsOwnedBy reports whether the demanda belongs to the given cliente.
func (d Demanda) IsOwnedBy(clienteID int64) bool {
	return d.ClienteID == clienteID
}

// VisibleTo implements the record-level read guard: admins see everything,
// clientes see their own demandas, correspondentes see what is assigned to
// them.
func (d Demanda) VisibleTo(ator Ator) bool {
	switch ator.Perfil {
	case PerfilAdmin:
		return true
	case PerfilCliente:
		return d.IsOwnedBy(ator.ID)
	case PerfilCorrespondente:
		return d.IsAssignedTo(ator.ID)
	}
	return false
}

// Anexo binds an uploaded file to a demanda and records who uploaded it.
type Anexo struct {
	ID                int64
	DemandaID         int64
	UploaderID        int64
	UploaderPerfil    Perfil
	NomeOriginal      string
	PathArmazenamento string
	TipoMime          string
	TamanhoBytes      int64
	CreatedAt         time.Time
}
