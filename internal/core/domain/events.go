package domain

import "time"

// DemandaCriadaEvent is emitted after a cliente creates a demanda.
type DemandaCriadaEvent struct {
	EventID   string
	DemandaID int64
	ClienteID int64
	Titulo    string
	CriadaEm  time.Time
}

// DemandaAtribuidaEvent is emitted after an admin assigns a correspondente.
type DemandaAtribuidaEvent struct {
	EventID          string
	DemandaID        int64
	CorrespondenteID int64
	AtribuidaPor     int64
	AtribuidaEm      time.Time
}

// StatusAlteradoEvent is emitted after a status change.
type StatusAlteradoEvent struct {
	EventID     string
	DemandaID   int64
	De          StatusDemanda
	Para        StatusDemanda
	AlteradoPor Ator
	AlteradoEm  time.Time
}

// AnexoEnviadoEvent is emitted after a file is attached to a demanda.
type AnexoEnviadoEvent struct {
	EventID      string
	DemandaID    int64
	AnexoID      int64
	NomeOriginal string
	Uploader     Ator
	EnviadoEm    time.Time
}
