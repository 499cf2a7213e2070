package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de calidad de un lote. Solo OK participa en asignaciones.
const (
	QualityOK         = "OK"
	QualityDamaged    = "DAMAGED"
	QualityQuarantine = "QUARANTINE"
)

// StockBatch representa un lote físico de un producto en una sede: una cantidad
// recibida/fabricada junta, con su propio vencimiento y costo. El número de lote
// es único por sede+producto y permite fusionar créditos de traslado sin
// fragmentar la trazabilidad.
type StockBatch struct {
	ID             string
	CompanyID      string
	ProductID      string
	LocationID     string
	BatchNumber    string
	QtyOnHand      int64 // invariante: nunca negativo
	QtyReserved    int64 // reservas de otros módulos; este motor no la consume
	UnitCost       decimal.Decimal
	ManufacturedAt time.Time
	ExpiresAt      time.Time
	Quality        string // OK, DAMAGED, QUARANTINE
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Allocatable indica si el lote puede participar en una asignación FIFO.
func (b *StockBatch) Allocatable() bool {
	return b.Quality == QualityOK && b.QtyOnHand > 0
}
