package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/lotes-api/internal/domain/allocation"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// CreditExecutor acredita en la sede destino las cantidades de un plan de
// deducción, casando por número de lote. Fusionar por número de lote (en vez de
// crear siempre un lote nuevo) conserva la trazabilidad de vencimiento y costo
// a través de los traslados y evita fragmentar lotes en destino.
type CreditExecutor struct {
	batches repository.StockBatchRepository
}

// NewCreditExecutor construye el ejecutor.
func NewCreditExecutor(batches repository.StockBatchRepository) *CreditExecutor {
	return &CreditExecutor{batches: batches}
}

// Apply acredita cada entrada del plan en la sede destino. Si existe un lote
// con el mismo número de lote y producto, se incrementa con escritura
// condicional; si no, se inserta uno nuevo copiando número, costo y fechas del
// origen, con calidad OK. Misma disciplina que la deducción: releer antes de
// escribir, detenerse en el primer fallo y devolver solo los undo de los pasos
// que quedaron en firme.
func (ex *CreditExecutor) Apply(ctx context.Context, plan allocation.Plan, companyID, toLocationID, productID string) ([]UndoRecord, error) {
	undo := make([]UndoRecord, 0, len(plan.Entries))
	now := time.Now()

	for _, e := range plan.Entries {
		existing, err := ex.batches.FindByBatchNumber(ctx, toLocationID, productID, e.BatchNumber)
		if err != nil {
			return undo, fmt.Errorf("buscar lote %s en destino: %w", e.BatchNumber, err)
		}

		if existing != nil {
			if err := ex.batches.UpdateQtyOnHand(ctx, existing.ID, existing.QtyOnHand, existing.QtyOnHand+e.Quantity); err != nil {
				return undo, fmt.Errorf("acreditar lote %s: %w", existing.ID, err)
			}
			undo = append(undo, UndoRecord{Kind: UndoCreditUpdate, BatchID: existing.ID, QtyBefore: existing.QtyOnHand})
			continue
		}

		fresh := &entity.StockBatch{
			ID:             uuid.New().String(),
			CompanyID:      companyID,
			ProductID:      productID,
			LocationID:     toLocationID,
			BatchNumber:    e.BatchNumber,
			QtyOnHand:      e.Quantity,
			UnitCost:       e.UnitCost,
			ManufacturedAt: e.ManufacturedAt,
			ExpiresAt:      e.ExpiresAt,
			Quality:        entity.QualityOK,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := ex.batches.Insert(ctx, fresh); err != nil {
			return undo, fmt.Errorf("insertar lote %s en destino: %w", e.BatchNumber, err)
		}
		undo = append(undo, UndoRecord{Kind: UndoCreditInsert, BatchID: fresh.ID})
	}

	return undo, nil
}
