package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es el registro contable durable de una venta: se crea solo después de
// que todas las deducciones de stock hayan quedado en firme.
type Sale struct {
	ID         string
	CompanyID  string
	LocationID string
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Currency   string // ISO 4217, ej. COP
	SaleDate   time.Time
	CreatedAt  time.Time
	CreatedBy  string // UserID
}

// SaleItem detalla de qué lote salió cada unidad vendida (trazabilidad).
type SaleItem struct {
	ID          string
	SaleID      string
	BatchID     string
	BatchNumber string
	Quantity    int64
	ExpiresAt   time.Time
}
