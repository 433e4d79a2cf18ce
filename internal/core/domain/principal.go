package domain

import "time"

// Perfil identifies which principal store an authenticated actor belongs to.
type Perfil string

const (
	PerfilAdmin          Perfil = "admin"
	PerfilCliente        Perfil = "cliente"
	PerfilCorrespondente Perfil = "correspondente"
)

// Valid reports whether the perfil is one of the three known stores.
func (p Perfil) Valid() bool {
	switch p {
	case PerfilAdmin, PerfilCliente, PerfilCorrespondente:
		return true
	}
	return false
}

// TipoCorrespondente enumerates the professional categories of a correspondente.
type TipoCorrespondente string

const (
	TipoAdvogado TipoCorrespondente = "Advogado"
	TipoPreposto TipoCorrespondente = "Preposto"
)

// Valid reports whether the tipo is a member of the closed enumeration.
func (t TipoCorrespondente) Valid() bool {
	return t == TipoAdvogado || t == TipoPreposto
}

// Principal is the store-independent view of an authenticated actor, produced
// by the ordered lookup across the three profile tables. Email collisions
// between stores are resolved by that lookup order (admin, cliente,
// correspondente), never here.
type Principal struct {
	ID        int64
	Nome      string
	Email     string
	SenhaHash string
	Perfil    Perfil
}

// Admin mirrors the persisted representation in the admins table.
type Admin struct {
	ID        int64
	Nome      string
	Email     string
	SenhaHash string
	IsActive  bool
	CreatedAt time.Time
}

// Cliente mirrors the persisted representation in the clientes table.
type Cliente struct {
	ID           int64
	NomeCompleto string
	Escritorio   *string
	Telefone     string
	Email        string
	SenhaHash    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Correspondente mirrors the persisted representation in the
// correspondentes_servicos table. OAB is only meaningful when Tipo is
// Advogado; registration enforces that.
type Correspondente struct {
	ID                int64
	NomeCompleto      string
	Tipo              TipoCorrespondente
	OAB               *string
	RG                *string
	CPF               string
	Email             string
	Telefone          string
	ComarcasAtendidas string
	SenhaHash         string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
