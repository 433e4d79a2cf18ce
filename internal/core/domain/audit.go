package domain

import "time"

// TipoLog enumerates the lifecycle actions recorded in the audit log.
type TipoLog string

const (
	LogCriacao       TipoLog = "CRIACAO"
	LogAtualizacao   TipoLog = "ATUALIZACAO"
	LogMudancaStatus TipoLog = "MUDANCA_STATUS"
	LogAtribuicao    TipoLog = "ATRIBUICAO"
	LogUploadAnexo   TipoLog = "UPLOAD_ANEXO"
)

// Ator identifies the principal performing a lifecycle action.
type Ator struct {
	ID     int64
	Perfil Perfil
}

// LogAtividade is one immutable audit entry. Rows are write-once: there is no
// update or delete path anywhere in the repository layer.
type LogAtividade struct {
	ID         int64
	DemandaID  int64
	AtorID     int64
	AtorPerfil Perfil
	TipoLog    TipoLog
	Detalhes   map[string]any
	CreatedAt  time.Time
}
