package allocation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// Entry indica cuánto descontar de un lote concreto. Copia los datos del lote
// que el crédito en destino necesita (número, costo, fechas) para que el plan
// sea autónomo: nunca se persiste, vive solo durante la operación.
type Entry struct {
	BatchID        string
	BatchNumber    string
	Quantity       int64
	UnitCost       decimal.Decimal
	ManufacturedAt time.Time
	ExpiresAt      time.Time
}

// Plan es la secuencia ordenada de deducciones que satisface la cantidad pedida.
// Invariante: la suma de Quantity de las entradas es exactamente Requested.
type Plan struct {
	Requested int64
	Entries   []Entry
}

// Total suma las cantidades del plan.
func (p Plan) Total() int64 {
	var total int64
	for _, e := range p.Entries {
		total += e.Quantity
	}
	return total
}

// InsufficientStockError reporta que los candidatos no alcanzan para la cantidad
// pedida. Es una condición de negocio reportable, no un defecto: el caller puede
// reintentar con menos cantidad. errors.Is(err, domain.ErrInsufficientStock) == true.
type InsufficientStockError struct {
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: solicitado %d, disponible %d", e.Requested, e.Available)
}

// Is permite comparar contra el centinela de dominio.
func (e *InsufficientStockError) Is(target error) bool {
	return target == domain.ErrInsufficientStock
}

// BuildPlan recorre los candidatos en el orden recibido tomando de cada lote
// min(disponible, restante) hasta cubrir la cantidad pedida (el stock más
// próximo a vencer sale primero, minimizando mermas).
//
// Los candidatos deben venir ya filtrados (calidad OK, cantidad > 0, misma sede
// y producto) y ordenados por vencimiento ascendente con desempate por orden de
// llegada; BuildPlan no reordena, así el mismo conjunto produce siempre el
// mismo plan y los reintentos son reproducibles.
func BuildPlan(candidates []*entity.StockBatch, requested int64) (Plan, error) {
	if requested <= 0 {
		return Plan{}, domain.ErrInvalidInput
	}

	plan := Plan{Requested: requested}
	remaining := requested
	var available int64

	for _, b := range candidates {
		if !b.Allocatable() {
			continue
		}
		available += b.QtyOnHand
		if remaining == 0 {
			continue
		}
		take := b.QtyOnHand
		if take > remaining {
			take = remaining
		}
		plan.Entries = append(plan.Entries, Entry{
			BatchID:        b.ID,
			BatchNumber:    b.BatchNumber,
			Quantity:       take,
			UnitCost:       b.UnitCost,
			ManufacturedAt: b.ManufacturedAt,
			ExpiresAt:      b.ExpiresAt,
		})
		remaining -= take
	}

	if remaining > 0 {
		return Plan{}, &InsufficientStockError{Requested: requested, Available: available}
	}
	return plan, nil
}
