package entity

import "time"

// Tipos de sede en la red jerárquica.
const (
	LocationKindHQ        = "HQ"        // sede principal
	LocationKindBranch    = "BRANCH"    // sucursal
	LocationKindSubBranch = "SUBBRANCH" // punto de venta / sub-sucursal
)

// Location representa una sede de la red (principal, sucursal o sub-sucursal).
// ParentID arma el árbol: HQ no tiene padre; los traslados solo son válidos
// entre sedes con relación padre-hija directa.
type Location struct {
	ID        string
	CompanyID string
	Name      string
	Kind      string  // HQ, BRANCH, SUBBRANCH
	ParentID  *string // nil solo para HQ
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
